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
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TranscriptCreator simulates speech to text. It produces one passage for
// every full window of the video.
type TranscriptCreator struct {
	cor.BaseCommand
	windowSeconds int
}

// NewTranscriptCreator is the constructor for TranscriptCreator.
//
// Inputs:
//   - name: The command name.
//   - windowSeconds: Length of a passage, in seconds.
func NewTranscriptCreator(name string, windowSeconds int) *TranscriptCreator {
	return &TranscriptCreator{BaseCommand: *cor.NewBaseCommand(name), windowSeconds: windowSeconds}
}

// Execute reads the *model.Video input and writes a *model.Transcript.
func (t *TranscriptCreator) Execute(context cor.Context) {
	video, ok := cor.Get[*model.Video](context, t.GetInputParam())
	if !ok {
		t.Fail(context, fmt.Errorf("expected *model.Video input, got %T", context.Get(t.GetInputParam())))
		return
	}
	if video.Duration <= 0 {
		t.Fail(context, fmt.Errorf("cannot transcribe video %s with duration %d", video.Id, video.Duration))
		return
	}
	if t.windowSeconds <= 0 {
		t.Fail(context, fmt.Errorf("invalid transcript window %d", t.windowSeconds))
		return
	}

	count := video.Duration / t.windowSeconds
	transcript := &model.Transcript{VideoId: video.Id, Passages: make([]model.Passage, 0, count)}
	for i := 0; i < count; i++ {
		transcript.Passages = append(transcript.Passages, model.Passage{
			Start: i * t.windowSeconds,
			End:   (i + 1) * t.windowSeconds,
			Text: fmt.Sprintf("This is a sample transcript for segment %d. In a real application, this would "+
				"contain the actual transcribed content from the video for this 5-minute segment.", i+1),
		})
	}

	trace.SpanFromContext(context.GetContext()).SetAttributes(
		attribute.String("video_id", video.Id),
		attribute.Int("passages", len(transcript.Passages)))

	t.Succeed(context)
	context.Add(t.GetOutputParam(), transcript)
	context.Add(cor.CtxOut, transcript)
}
