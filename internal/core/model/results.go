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

// Package model. This file, `results.go`, contains the processed output of a
// video: its transcript broken into fixed length segments, each carrying the
// quiz questions generated for it.
//
// Structs:
//   - Results: The full processing output of one video.
//   - Segment: A contiguous time window of the video with its transcript.
//   - Question: A multiple choice question with one correct answer.
package model

import (
	"strings"
	"time"
)

// OptionsPerQuestion is the number of answer choices a question carries.
const OptionsPerQuestion = 4

// Question is a multiple choice quiz question. Answer holds the text of the
// correct option, not its index.
type Question struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// Clone returns a deep copy of the question.
func (q *Question) Clone() *Question {
	out := &Question{Text: q.Text, Answer: q.Answer}
	out.Options = append([]string(nil), q.Options...)
	return out
}

// Validate checks the question the way the editor does before saving:
// non-blank text, exactly four non-blank options and an answer that matches
// exactly one of them.
//
// Outputs:
//   - error: A *ValidationError describing the first problem found, or nil.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return newValidationError("Question required", "Please enter the question text.")
	}
	if len(q.Options) != OptionsPerQuestion {
		return newValidationError("Invalid options", "A question must have exactly four options.")
	}
	for _, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return newValidationError("Options required", "Please fill in all four options.")
		}
	}
	if q.Answer == "" {
		return newValidationError("Answer required", "Please select the correct answer.")
	}
	matches := 0
	for _, o := range q.Options {
		if o == q.Answer {
			matches++
		}
	}
	if matches != 1 {
		return newValidationError("Invalid answer", "The correct answer must match exactly one option.")
	}
	return nil
}

// Segment is a time window of the video. StartTime and EndTime are seconds
// from the start of the video, EndTime exclusive.
type Segment struct {
	Id         string      `json:"id"`
	StartTime  int         `json:"startTime"`
	EndTime    int         `json:"endTime"`
	Transcript string      `json:"transcript"`
	Questions  []*Question `json:"questions"`
}

// Contains reports whether the given playback position falls in the segment.
func (s *Segment) Contains(second float64) bool {
	return second >= float64(s.StartTime) && second < float64(s.EndTime)
}

// Clone returns a deep copy of the segment.
func (s *Segment) Clone() *Segment {
	out := &Segment{
		Id:         s.Id,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		Transcript: s.Transcript,
		Questions:  make([]*Question, 0, len(s.Questions)),
	}
	for _, q := range s.Questions {
		out.Questions = append(out.Questions, q.Clone())
	}
	return out
}

// Results is the processed output of a video.
type Results struct {
	Id        string     `json:"id"`
	Title     string     `json:"title"`
	Duration  int        `json:"duration"`
	VideoUrl  *string    `json:"videoUrl"`
	CreatedAt time.Time  `json:"createdAt"`
	Segments  []*Segment `json:"segments"`
}

// Segment returns the segment with the given id, or nil.
func (r *Results) Segment(id string) *Segment {
	for _, s := range r.Segments {
		if s.Id == id {
			return s
		}
	}
	return nil
}

// QuestionCount returns the number of questions across all segments.
func (r *Results) QuestionCount() int {
	count := 0
	for _, s := range r.Segments {
		count += len(s.Questions)
	}
	return count
}

// Clone returns a deep copy of the results.
func (r *Results) Clone() *Results {
	out := &Results{
		Id:        r.Id,
		Title:     r.Title,
		Duration:  r.Duration,
		CreatedAt: r.CreatedAt,
		Segments:  make([]*Segment, 0, len(r.Segments)),
	}
	if r.VideoUrl != nil {
		url := *r.VideoUrl
		out.VideoUrl = &url
	}
	for _, s := range r.Segments {
		out.Segments = append(out.Segments, s.Clone())
	}
	return out
}
