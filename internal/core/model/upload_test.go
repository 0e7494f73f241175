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

package model_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const maxUpload = 500 * 1024 * 1024

func validationTitle(t *testing.T, err error) string {
	t.Helper()
	var v *model.ValidationError
	require.True(t, errors.As(err, &v), "expected a validation error, got %v", err)
	return v.Title
}

func TestValidateUploadFile(t *testing.T) {
	ok := testutil.SampleMP4("lecture.mp4", 10*1024*1024)
	assert.NoError(t, model.ValidateUploadFile(ok, maxUpload))

	atLimit := testutil.SampleMP4("lecture.mp4", maxUpload)
	assert.NoError(t, model.ValidateUploadFile(atLimit, maxUpload))

	tooBig := testutil.SampleMP4("lecture.mp4", maxUpload+1)
	err := model.ValidateUploadFile(tooBig, maxUpload)
	assert.Equal(t, "File too large", validationTitle(t, err))
	assert.Contains(t, err.Error(), "500MB")

	wrongType := &model.UploadFile{Name: "slides.pdf", MediaType: "application/pdf", Size: 10}
	assert.Equal(t, "Invalid file type", validationTitle(t, model.ValidateUploadFile(wrongType, maxUpload)))

	disguised := &model.UploadFile{Name: "image.mp4", MediaType: model.MP4MediaType, Size: 10, Head: testutil.SamplePNGHead()}
	assert.Equal(t, "Invalid file type", validationTitle(t, model.ValidateUploadFile(disguised, maxUpload)))

	assert.Equal(t, "No file selected", validationTitle(t, model.ValidateUploadFile(nil, maxUpload)))
}

func TestSniffMediaType(t *testing.T) {
	assert.Equal(t, "video/mp4", model.SniffMediaType(testutil.SampleMP4Head()))
	assert.Equal(t, "image/png", model.SniffMediaType(testutil.SamplePNGHead()))
	assert.Equal(t, "", model.SniffMediaType([]byte("plain text")))
}

func TestValidateTitle(t *testing.T) {
	assert.NoError(t, model.ValidateTitle("Week 1"))
	assert.Equal(t, "Title required", validationTitle(t, model.ValidateTitle(" \t")))
}

func TestUploadFileBaseTitle(t *testing.T) {
	f := &model.UploadFile{Name: "/tmp/videos/week 1.intro.mp4"}
	assert.Equal(t, "week 1.intro", f.BaseTitle())
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "Introduction_to_Computer_Science_quiz.json",
		model.ExportFileName("Introduction to Computer Science", model.ExportFormatJSON))
	assert.Equal(t, "Intro_to_CS_quiz.json", model.ExportFileName("Intro  to\tCS", ""))
	assert.Equal(t, "Intro_quiz.yaml", model.ExportFileName("Intro", model.ExportFormatYAML))
}

func TestExportDocument(t *testing.T) {
	results := model.GetExampleResults(time.Now())
	doc := model.NewExportDocument(results)

	data, err := doc.Encode(model.ExportFormatJSON)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"videoId\": \"1\",\n  \"title\":"))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	keys := make([]string, 0, len(decoded))
	for k := range decoded {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"videoId", "title", "duration", "segments"}, keys)

	segment := decoded["segments"].([]interface{})[0].(map[string]interface{})
	assert.Contains(t, segment, "startTime")
	assert.NotContains(t, segment, "videoUrl")

	var back model.ExportDocument
	require.NoError(t, json.Unmarshal(data, &back))
	if diff := cmp.Diff(*doc, back); diff != "" {
		t.Errorf("export document changed through JSON (-want +got):\n%s", diff)
	}

	// Mutating the document must not reach the results it came from.
	doc.Segments[0].Questions[0].Text = "changed"
	assert.NotEqual(t, "changed", results.Segments[0].Questions[0].Text)
}

func TestExportDocumentYAML(t *testing.T) {
	doc := model.NewExportDocument(model.GetExampleResults(time.Now()))
	data, err := doc.Encode(model.ExportFormatYAML)
	require.NoError(t, err)

	var back model.ExportDocument
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "1", back.VideoId)
	assert.Len(t, back.Segments, 3)
	assert.Equal(t, "Hash tables", back.Segments[2].Questions[1].Answer)

	_, err = doc.Encode("xml")
	assert.Error(t, err)
}
