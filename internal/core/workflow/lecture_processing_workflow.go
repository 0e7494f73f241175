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

// Package workflow combines commands into the pipelines the services run.
// This file implements the simulated processing of an uploaded lecture.
package workflow

import (
	goctx "context"
	"fmt"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/config"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/commands"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/cor"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/generator"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
)

// ResultsOutputParamName is the context key holding the stored results once
// the workflow finishes.
const ResultsOutputParamName = "__results_output__"

// LectureProcessingWorkflow turns a video into stored quiz results. It is a
// cor.Chain of transcription, segmentation, question generation, assembly and
// persistence.
type LectureProcessingWorkflow struct {
	cor.BaseCommand
	processing config.Processing
	writer     commands.ResultsWriter
	source     generator.QuestionSource
	chain      cor.Chain
}

// Execute runs the underlying chain. The context must hold the video under
// both cor.CtxIn and commands.GetVideoParameterName().
func (w *LectureProcessingWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// initializeChain builds the command sequence. Called by the constructor.
func (w *LectureProcessingWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	// Step 1: One passage per segment window of the video.
	out.AddCommand(commands.NewTranscriptCreator("transcription", w.processing.SegmentLengthSeconds))

	// Step 2: Passages become segments with stable ids.
	out.AddCommand(commands.NewTranscriptSegmenter("segmentation"))

	// Step 3: The leading segments receive questions.
	out.AddCommand(commands.NewQuestionGenerator("question_generation", w.source, w.processing.QuestionSegments, w.processing.QuestionSegments))

	// Step 4: Attach the video's title, duration and creation time.
	out.AddCommand(commands.NewResultsAssembly("results-assembly", commands.GetVideoParameterName()))

	// Step 5: Store the results; existing results are kept.
	out.AddCommand(commands.NewResultsPersist("results-persist", w.writer, ResultsOutputParamName))

	w.chain = out
}

// NewLectureProcessingWorkflow is the constructor for LectureProcessingWorkflow.
//
// Inputs:
//   - processing: Segment length and how many segments receive questions.
//   - writer: The results table.
//   - source: The question source.
//
// Outputs:
//   - *LectureProcessingWorkflow: The initialised workflow.
func NewLectureProcessingWorkflow(processing config.Processing, writer commands.ResultsWriter, source generator.QuestionSource) *LectureProcessingWorkflow {
	w := &LectureProcessingWorkflow{
		BaseCommand: *cor.NewBaseCommand("lecture-processing-workflow"),
		processing:  processing,
		writer:      writer,
		source:      source,
	}
	w.initializeChain()
	return w
}

// StageError reports a failed run together with the stage it failed in.
type StageError struct {
	Stage model.Stage
	Err   error
}

// Error returns the message of the cause.
func (e *StageError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the cause.
func (e *StageError) Unwrap() error {
	return e.Err
}

// Process runs the workflow for one video and returns the stored results.
//
// Outputs:
//   - *model.Results: The results held by the store after the run.
//   - error: A *StageError wrapping the joined command errors.
func (w *LectureProcessingWorkflow) Process(ctx goctx.Context, video *model.Video) (*model.Results, error) {
	chCtx := cor.NewBaseContext(ctx)
	chCtx.Add(cor.CtxIn, video)
	chCtx.Add(commands.GetVideoParameterName(), video)

	w.Execute(chCtx)

	if err := chCtx.Err(); err != nil {
		return nil, &StageError{Stage: failedStage(chCtx.GetErrors()), Err: err}
	}
	results, ok := cor.Get[*model.Results](chCtx, ResultsOutputParamName)
	if !ok {
		return nil, &StageError{
			Stage: model.StageQuestionGeneration,
			Err:   fmt.Errorf("workflow for video %s produced no results", video.Id),
		}
	}
	return results, nil
}

// failedStage maps the first failing command to its stage. Commands after
// question generation count as that stage.
func failedStage(errs map[string]error) model.Stage {
	for _, s := range model.Stages {
		if _, ok := errs[string(s)]; ok {
			return s
		}
	}
	return model.StageQuestionGeneration
}
