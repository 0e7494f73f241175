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

// Package generator produces quiz questions for transcript segments. The only
// source is a placeholder that returns fixed questions; it stands in for a
// language model and is wrapped by a rate limited decorator the same way a
// model client would be.
package generator

import (
	"context"
	"fmt"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
)

// QuestionSource creates questions for a segment.
type QuestionSource interface {
	// Generate returns the initial questions of a segment. ordinal is the
	// zero based position of the segment in the video.
	Generate(ctx context.Context, segment *model.Segment, ordinal int) ([]*model.Question, error)
	// Regenerate returns replacement questions for a segment.
	Regenerate(ctx context.Context, segment *model.Segment) ([]*model.Question, error)
}

// PlaceholderSource returns fixed sample questions.
type PlaceholderSource struct{}

// NewPlaceholderSource creates a PlaceholderSource.
func NewPlaceholderSource() *PlaceholderSource {
	return &PlaceholderSource{}
}

// Generate returns two sample questions numbered after the segment.
func (p *PlaceholderSource) Generate(ctx context.Context, segment *model.Segment, ordinal int) ([]*model.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := ordinal + 1
	return []*model.Question{
		{
			Text:    fmt.Sprintf("Sample question %d about the content in this segment?", n),
			Options: []string{"Option A", "Option B", "Option C", "Option D"},
			Answer:  "Option B",
		},
		{
			Text:    fmt.Sprintf("Another sample question %d testing understanding of the material?", n),
			Options: []string{"First choice", "Second choice", "Third choice", "Fourth choice"},
			Answer:  "Third choice",
		},
	}, nil
}

// Regenerate returns three new questions naming the segment.
func (p *PlaceholderSource) Regenerate(ctx context.Context, segment *model.Segment) ([]*model.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []*model.Question{
		{
			Text:    fmt.Sprintf("Newly generated question 1 for segment %s?", segment.Id),
			Options: []string{"New option A", "New option B", "New option C", "New option D"},
			Answer:  "New option A",
		},
		{
			Text:    fmt.Sprintf("Newly generated question 2 for segment %s?", segment.Id),
			Options: []string{"First new choice", "Second new choice", "Third new choice", "Fourth new choice"},
			Answer:  "Second new choice",
		},
		{
			Text:    fmt.Sprintf("Newly generated question 3 for segment %s?", segment.Id),
			Options: []string{"Additional choice 1", "Additional choice 2", "Additional choice 3", "Additional choice 4"},
			Answer:  "Additional choice 3",
		},
	}, nil
}
