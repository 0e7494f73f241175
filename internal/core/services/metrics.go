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

package services

import (
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics are the Prometheus instruments of the video service.
type Metrics struct {
	Uploads       *prometheus.CounterVec // outcome=success|failure
	StatusPolls   *prometheus.CounterVec // stage=upload|...|complete
	Regenerations *prometheus.CounterVec // outcome=success|failure
	QuestionEdits *prometheus.CounterVec // outcome=success|failure
	Videos        *prometheus.GaugeVec   // status=uploading|processing|completed|failed
}

// NewMetrics registers the service metrics on reg. Each registry can hold one
// set; tests pass a fresh prometheus.NewRegistry().
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Uploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lecture_quiz_uploads_total",
			Help: "Video uploads by outcome",
		}, []string{"outcome"}),
		StatusPolls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lecture_quiz_status_polls_total",
			Help: "Status polls answered, by reported stage",
		}, []string{"stage"}),
		Regenerations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lecture_quiz_regenerations_total",
			Help: "Question regenerations by outcome",
		}, []string{"outcome"}),
		QuestionEdits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lecture_quiz_question_edits_total",
			Help: "Question edits by outcome",
		}, []string{"outcome"}),
		Videos: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lecture_quiz_videos",
			Help: "Videos by status",
		}, []string{"status"}),
	}
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

func (m *Metrics) setVideos(counts map[model.Status]int) {
	for status, n := range counts {
		m.Videos.WithLabelValues(string(status)).Set(float64(n))
	}
}
