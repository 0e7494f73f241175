// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package model. This file, `export.go`, defines the document written when a
// user exports the quiz of a video, and its JSON and YAML encodings.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Export formats.
const (
	ExportFormatJSON = "json"
	ExportFormatYAML = "yaml"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ExportSegment is the exported form of a Segment.
type ExportSegment struct {
	Id         string      `json:"id" yaml:"id"`
	StartTime  int         `json:"startTime" yaml:"startTime"`
	EndTime    int         `json:"endTime" yaml:"endTime"`
	Transcript string      `json:"transcript" yaml:"transcript"`
	Questions  []*Question `json:"questions" yaml:"questions"`
}

// ExportDocument is the exported quiz of one video.
type ExportDocument struct {
	VideoId  string          `json:"videoId" yaml:"videoId"`
	Title    string          `json:"title" yaml:"title"`
	Duration int             `json:"duration" yaml:"duration"`
	Segments []ExportSegment `json:"segments" yaml:"segments"`
}

// NewExportDocument copies the exportable fields of r.
func NewExportDocument(r *Results) *ExportDocument {
	doc := &ExportDocument{
		VideoId:  r.Id,
		Title:    r.Title,
		Duration: r.Duration,
		Segments: make([]ExportSegment, 0, len(r.Segments)),
	}
	for _, s := range r.Segments {
		c := s.Clone()
		doc.Segments = append(doc.Segments, ExportSegment{
			Id:         c.Id,
			StartTime:  c.StartTime,
			EndTime:    c.EndTime,
			Transcript: c.Transcript,
			Questions:  c.Questions,
		})
	}
	return doc
}

// ExportFileName derives the download name from a video title, replacing
// every run of whitespace with a single underscore.
func ExportFileName(title string, format string) string {
	ext := ".json"
	if format == ExportFormatYAML {
		ext = ".yaml"
	}
	return whitespaceRun.ReplaceAllString(title, "_") + "_quiz" + ext
}

// Encode renders the document in the requested format. JSON is indented
// with two spaces.
func (d *ExportDocument) Encode(format string) ([]byte, error) {
	switch format {
	case "", ExportFormatJSON:
		return json.MarshalIndent(d, "", "  ")
	case ExportFormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return nil, fmt.Errorf("failed to encode export document: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
