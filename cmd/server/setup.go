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

package main

import (
	"time"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/config"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/generator"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/services"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// StateManager holds the shared components of the server.
type StateManager struct {
	config       *config.Config
	registry     *prometheus.Registry
	store        *store.MemoryStore
	videoService *services.VideoService
}

var state = &StateManager{}

// GetConfig loads the configuration once.
func GetConfig() (*config.Config, error) {
	if state.config == nil {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		state.config = cfg
	}
	return state.config, nil
}

// InitState builds the seeded store, the metrics registry and the video
// service.
func InitState(cfg *config.Config) {
	state.registry = prometheus.NewRegistry()
	state.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	state.store = store.NewSeededMemoryStore(time.Now())

	source := generator.NewQuotaAwareSource(generator.NewPlaceholderSource(), cfg.Processing.RateLimit)
	state.videoService = services.NewVideoService(cfg, state.store, source, services.NewMetrics(state.registry))
}
