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

// Package commands provides the concrete Commands of the video processing
// workflow. Each command reads its input from the shared cor.Context, does
// one step of the simulated pipeline and leaves its output for the next:
//
//	*model.Video -> TranscriptCreator -> *model.Transcript
//	  -> TranscriptSegmenter -> *model.SegmentedTranscript
//	  -> QuestionGenerator -> *model.SegmentedTranscript (with questions)
//	  -> ResultsAssembly -> *model.Results
//	  -> ResultsPersist -> *model.Results (as stored)
package commands

const videoParameterName = "__video__"

// GetVideoParameterName is the context key holding the *model.Video being
// processed. It stays in the context for the whole chain.
func GetVideoParameterName() string {
	return videoParameterName
}
