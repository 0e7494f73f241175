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

// ResultsAssembly combines the video and its question filled segments into
// model.Results. Simulated results have no playable video URL.
type ResultsAssembly struct {
	cor.BaseCommand
	videoParamName string
}

// NewResultsAssembly is the constructor for ResultsAssembly.
//
// Inputs:
//   - name: The command name.
//   - videoParamName: The context key holding the *model.Video.
func NewResultsAssembly(name string, videoParamName string) *ResultsAssembly {
	return &ResultsAssembly{BaseCommand: *cor.NewBaseCommand(name), videoParamName: videoParamName}
}

// IsExecutable also requires the video in the context.
func (r *ResultsAssembly) IsExecutable(context cor.Context) bool {
	return r.BaseCommand.IsExecutable(context) && context.Get(r.videoParamName) != nil
}

// Execute attaches the video's title, duration and creation time to the
// segments found in CtxIn.
func (r *ResultsAssembly) Execute(context cor.Context) {
	video, ok := cor.Get[*model.Video](context, r.videoParamName)
	if !ok {
		r.Fail(context, fmt.Errorf("expected *model.Video under %s", r.videoParamName))
		return
	}
	segmented, ok := cor.Get[*model.SegmentedTranscript](context, r.GetInputParam())
	if !ok {
		r.Fail(context, fmt.Errorf("expected *model.SegmentedTranscript input, got %T", context.Get(r.GetInputParam())))
		return
	}
	if segmented.VideoId != video.Id {
		r.Fail(context, fmt.Errorf("segments belong to video %s, not %s", segmented.VideoId, video.Id))
		return
	}

	results := &model.Results{
		Id:        video.Id,
		Title:     video.Title,
		Duration:  video.Duration,
		VideoUrl:  nil,
		CreatedAt: video.CreatedAt,
		Segments:  segmented.Segments,
	}

	r.Succeed(context)
	context.Add(r.GetOutputParam(), results)
	context.Add(cor.CtxOut, results)
}
