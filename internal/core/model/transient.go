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

// Package model. This file, `transient.go`, contains the values passed between
// the commands of the processing workflow. They are never stored; the store
// only ever sees the assembled Results.
package model

// Passage is a timed run of transcribed speech.
type Passage struct {
	Start int    // Seconds from the start of the video.
	End   int    // Exclusive end, in seconds.
	Text  string // The spoken words.
}

// Transcript is the output of the transcription step and the input of the
// segmentation step.
type Transcript struct {
	VideoId  string
	Passages []Passage
}

// SegmentedTranscript is the output of the segmentation step. The segments
// carry no questions yet.
type SegmentedTranscript struct {
	VideoId  string
	Segments []*Segment
}
