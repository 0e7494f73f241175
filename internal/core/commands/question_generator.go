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

// Package commands. This file defines the question generation step. The
// leading segments of a video are sent to the question source by a small pool
// of workers, each job traced as its own span; the remaining segments keep an
// empty question list.
//
// Logic Flow:
//  1. A job is created for each of the first `questionSegments` segments.
//  2. `numberOfWorkers` goroutines pull jobs from a channel and call the source.
//  3. Responses are collected and written back by segment position, so the
//     output order never depends on which worker finished first.
package commands

import (
	goctx "context"
	"fmt"
	"sync"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/cor"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/generator"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// QuestionGenerator fills the leading segments of a segmented transcript with
// questions from a QuestionSource.
type QuestionGenerator struct {
	cor.BaseCommand
	source           generator.QuestionSource
	questionSegments int
	numberOfWorkers  int
	questionCounter  metric.Int64Counter
}

// NewQuestionGenerator is the constructor for QuestionGenerator.
//
// Inputs:
//   - name: The command name.
//   - source: Where questions come from, usually rate limited.
//   - questionSegments: How many leading segments receive questions.
//   - numberOfWorkers: Size of the worker pool.
func NewQuestionGenerator(name string, source generator.QuestionSource, questionSegments int, numberOfWorkers int) *QuestionGenerator {
	if numberOfWorkers < 1 {
		numberOfWorkers = 1
	}
	out := &QuestionGenerator{
		BaseCommand:      *cor.NewBaseCommand(name),
		source:           source,
		questionSegments: questionSegments,
		numberOfWorkers:  numberOfWorkers,
	}
	out.questionCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.questions", out.GetName()))
	return out
}

type questionJob struct {
	ctx     goctx.Context
	tracer  trace.Tracer
	source  generator.QuestionSource
	ordinal int
	segment *model.Segment
}

type questionResponse struct {
	ordinal   int
	questions []*model.Question
	err       error
}

func questionWorker(jobs <-chan *questionJob, results chan<- *questionResponse, wg *sync.WaitGroup) {
	defer wg.Done()
	for j := range jobs {
		ctx, span := j.tracer.Start(j.ctx, fmt.Sprintf("generate-questions-%d", j.ordinal))
		span.SetAttributes(attribute.String("segment_id", j.segment.Id))
		qs, err := j.source.Generate(ctx, j.segment, j.ordinal)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "questions generated")
		}
		span.End()
		results <- &questionResponse{ordinal: j.ordinal, questions: qs, err: err}
	}
}

// Execute reads a *model.SegmentedTranscript and writes it back with questions.
func (q *QuestionGenerator) Execute(context cor.Context) {
	in, ok := cor.Get[*model.SegmentedTranscript](context, q.GetInputParam())
	if !ok {
		q.Fail(context, fmt.Errorf("expected *model.SegmentedTranscript input, got %T", context.Get(q.GetInputParam())))
		return
	}

	count := max(0, min(q.questionSegments, len(in.Segments)))
	jobs := make(chan *questionJob, count)
	results := make(chan *questionResponse, count)

	var wg sync.WaitGroup
	for w := 0; w < min(q.numberOfWorkers, max(count, 1)); w++ {
		wg.Add(1)
		go questionWorker(jobs, results, &wg)
	}
	for i := 0; i < count; i++ {
		jobs <- &questionJob{
			ctx:     context.GetContext(),
			tracer:  q.Tracer,
			source:  q.source,
			ordinal: i,
			segment: in.Segments[i],
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	out := &model.SegmentedTranscript{VideoId: in.VideoId, Segments: make([]*model.Segment, 0, len(in.Segments))}
	for _, s := range in.Segments {
		out.Segments = append(out.Segments, s.Clone())
	}

	generated := 0
	for r := range results {
		if r.err != nil {
			q.Fail(context, fmt.Errorf("segment %d: %w", r.ordinal, r.err))
			continue
		}
		out.Segments[r.ordinal].Questions = r.questions
		generated += len(r.questions)
	}
	if context.HasErrors() {
		return
	}

	if q.questionCounter != nil {
		q.questionCounter.Add(context.GetContext(), int64(generated))
	}
	q.Succeed(context)
	context.Add(q.GetOutputParam(), out)
	context.Add(cor.CtxOut, out)
}
