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
	"context"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
)

// VideoRow is one line of the video list.
type VideoRow struct {
	Id            string
	Title         string
	Status        model.Status
	StatusLabel   string
	Duration      string
	QuestionCount int
	Created       string
}

// HomeFlow is the video list of the dashboard home page.
type HomeFlow struct {
	api VideoAPI
	nav Navigator
}

// NewHomeFlow creates the flow of the video list page.
func NewHomeFlow(api VideoAPI, nav Navigator) *HomeFlow {
	return &HomeFlow{api: api, nav: nav}
}

// Load lists the videos. An empty list is not an error.
func (h *HomeFlow) Load(ctx context.Context) ([]VideoRow, error) {
	videos, err := h.api.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]VideoRow, 0, len(videos))
	for _, v := range videos {
		rows = append(rows, VideoRow{
			Id:            v.Id,
			Title:         v.Title,
			Status:        v.Status,
			StatusLabel:   statusLabel(v.Status),
			Duration:      FormatDuration(v.Duration),
			QuestionCount: v.QuestionCount,
			Created:       FormatDate(v.CreatedAt),
		})
	}
	return rows, nil
}

func statusLabel(s model.Status) string {
	switch s {
	case model.StatusCompleted:
		return "Completed"
	case model.StatusProcessing, model.StatusUploading:
		return "Processing"
	default:
		return "Failed"
	}
}

// Open goes to the results page of a video.
func (h *HomeFlow) Open(id string) {
	h.nav.Navigate(ResultsRoute(id))
}

// Upload goes to the upload page.
func (h *HomeFlow) Upload() {
	h.nav.Navigate(RouteUpload)
}
