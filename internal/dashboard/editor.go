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

package dashboard

import (
	"fmt"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
)

// QuestionEditor is an editable copy of one question of a segment.
type QuestionEditor struct {
	SegmentId string
	Index     int
	Text      string
	Options   [model.OptionsPerQuestion]string
	Answer    string
}

func newQuestionEditor(segmentId string, index int, q *model.Question) *QuestionEditor {
	e := &QuestionEditor{SegmentId: segmentId, Index: index, Text: q.Text, Answer: q.Answer}
	copy(e.Options[:], q.Options)
	return e
}

// SetOption changes one option. When the old text was the answer, the
// answer follows the edit.
func (e *QuestionEditor) SetOption(i int, text string) error {
	if i < 0 || i >= len(e.Options) {
		return fmt.Errorf("option %d out of range", i)
	}
	if e.Answer != "" && e.Options[i] == e.Answer {
		e.Answer = text
	}
	e.Options[i] = text
	return nil
}

// SelectAnswer marks option i as the correct answer.
func (e *QuestionEditor) SelectAnswer(i int) error {
	if i < 0 || i >= len(e.Options) {
		return fmt.Errorf("option %d out of range", i)
	}
	e.Answer = e.Options[i]
	return nil
}

// Question returns the edited question.
func (e *QuestionEditor) Question() *model.Question {
	return &model.Question{
		Text:    e.Text,
		Options: append([]string(nil), e.Options[:]...),
		Answer:  e.Answer,
	}
}
