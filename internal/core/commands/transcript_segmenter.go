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

package commands

import (
	"fmt"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/cor"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
)

// TranscriptSegmenter turns transcript passages into result segments named
// "<videoId>-seg-<i>".
type TranscriptSegmenter struct {
	cor.BaseCommand
}

// NewTranscriptSegmenter is the constructor for TranscriptSegmenter.
func NewTranscriptSegmenter(name string) *TranscriptSegmenter {
	return &TranscriptSegmenter{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute reads a *model.Transcript and writes a *model.SegmentedTranscript.
func (s *TranscriptSegmenter) Execute(context cor.Context) {
	transcript, ok := cor.Get[*model.Transcript](context, s.GetInputParam())
	if !ok {
		s.Fail(context, fmt.Errorf("expected *model.Transcript input, got %T", context.Get(s.GetInputParam())))
		return
	}

	out := &model.SegmentedTranscript{
		VideoId:  transcript.VideoId,
		Segments: make([]*model.Segment, 0, len(transcript.Passages)),
	}
	for i, p := range transcript.Passages {
		if p.End <= p.Start {
			s.Fail(context, fmt.Errorf("passage %d has an empty time range", i))
			return
		}
		out.Segments = append(out.Segments, &model.Segment{
			Id:         fmt.Sprintf("%s-seg-%d", transcript.VideoId, i),
			StartTime:  p.Start,
			EndTime:    p.End,
			Transcript: p.Text,
			Questions:  []*model.Question{},
		})
	}

	s.Succeed(context)
	context.Add(s.GetOutputParam(), out)
	context.Add(cor.CtxOut, out)
}
