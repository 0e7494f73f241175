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

// Package model defines the core data structures for the application.
// This file, `video.go`, holds the video summary shown on the dashboard and
// the status record returned while a video moves through the simulated
// processing stages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an uploaded video.
type Status string

const (
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// IsTerminal reports whether no further status change is expected.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Stage is one step of the simulated processing pipeline.
type Stage string

const (
	StageUpload             Stage = "upload"
	StageTranscription      Stage = "transcription"
	StageSegmentation       Stage = "segmentation"
	StageQuestionGeneration Stage = "question_generation"
	StageComplete           Stage = "complete"
)

// Stages lists the pipeline stages in the order a video passes through them.
var Stages = []Stage{
	StageUpload,
	StageTranscription,
	StageSegmentation,
	StageQuestionGeneration,
	StageComplete,
}

// Index returns the position of the stage in Stages, or -1.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	return s.Index() >= 0
}

// Progress maps the stage to the percentage shown on the processing view.
func (s Stage) Progress() int {
	switch s {
	case StageUpload:
		return 20
	case StageTranscription:
		return 50
	case StageSegmentation:
		return 70
	case StageQuestionGeneration:
		return 90
	case StageComplete:
		return 100
	default:
		return 0
	}
}

// Label is the human readable description of the stage.
func (s Stage) Label() string {
	switch s {
	case StageUpload:
		return "Processing upload"
	case StageTranscription:
		return "Transcribing video"
	case StageSegmentation:
		return "Segmenting transcript"
	case StageQuestionGeneration:
		return "Generating questions"
	case StageComplete:
		return "Processing complete"
	default:
		return "Processing"
	}
}

// Video is the summary record listed on the dashboard.
type Video struct {
	Id            string    `json:"id"`
	Title         string    `json:"title"`
	Duration      int       `json:"duration"` // Seconds.
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	QuestionCount int       `json:"questionCount"`
}

// NewVideo creates a freshly uploaded video in the processing state. The ID
// is a random UUID; uploads with the same title are distinct videos.
func NewVideo(title string, duration int) *Video {
	return &Video{
		Id:        uuid.NewString(),
		Title:     title,
		Duration:  duration,
		Status:    StatusProcessing,
		CreatedAt: time.Now().UTC(),
	}
}

// Clone returns a copy of the video.
func (v *Video) Clone() *Video {
	out := *v
	return &out
}

// VideoStatus is the result of a status poll.
type VideoStatus struct {
	Id     string `json:"id"`
	Title  string `json:"title"`
	Status Status `json:"status"`
	Stage  Stage  `json:"stage"`
	Error  string `json:"error,omitempty"`
}
