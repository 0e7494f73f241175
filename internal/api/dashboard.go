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

// Package api exposes the mock video backend over HTTP and provides the
// matching client.
//
// Routes (all under /api/v1):
//   - GET    /videos: List the videos.
//   - POST   /videos: Upload a video (multipart "file" and "title"). With
//     "Accept: text/event-stream" the progress is streamed as server sent
//     events.
//   - GET    /videos/:id/status: Answer a status poll.
//   - GET    /videos/:id/results: Fetch the results.
//   - POST   /videos/:id/segments/:segmentId/regenerate: Regenerate questions.
//   - PUT    /videos/:id/segments/:segmentId/questions/:index: Edit a question.
//   - GET    /videos/:id/export: Download the quiz document.
//   - GET    /stats: Count videos by status.
//
// Errors are returned as {"error": "..."} with 400 for validation problems,
// 404 for unknown ids and 500 otherwise.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/dashboard"
)

// Backend is the service behind the routes.
type Backend interface {
	dashboard.VideoAPI
	Stats(ctx context.Context) (map[model.Status]int, error)
}

// Dashboard configures the statistics routes of the dashboard.
//
// Inputs:
//   - r: The router group the "/stats" group is added to.
//   - backend: Source of the counts.
func Dashboard(r *gin.RouterGroup, backend Backend) {
	stats := r.Group("/stats")
	{
		stats.GET("", func(c *gin.Context) {
			counts, err := backend.Stats(c.Request.Context())
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, counts)
		})
	}
}
