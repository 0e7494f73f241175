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

// Package config defines the data structures for application configuration,
// loaded from TOML files. It covers the simulated latencies of the mock video
// backend, the upload limits, the processing simulation, the dashboard polling
// cadence and the telemetry exporters.
//
// Structs:
//   - Telemetry: Which OpenTelemetry exporter to use and where it sends data.
//   - Upload: File limits and the simulated upload progress cadence.
//   - Latency: Artificial delays applied by each mock API operation.
//   - Processing: Parameters of the simulated transcription pipeline.
//   - Dashboard: Client side polling and navigation timings.
//   - Config: The top-level struct that aggregates all other configuration structs.
//
// Functions:
//   - NewConfig: A constructor that returns a Config populated with defaults.
package config

import "time"

// Telemetry selects the OpenTelemetry exporter.
type Telemetry struct {
	Exporter        string `toml:"exporter"`          // One of "gcp", "otlp" or "none".
	GoogleProjectId string `toml:"google_project_id"` // Project used by the "gcp" exporters.
	OtlpEndpoint    string `toml:"otlp_endpoint"`     // host:port used by the "otlp" exporter.
}

// Upload holds the file limits and progress simulation for video uploads.
type Upload struct {
	MaxFileSizeMB      int64 `toml:"max_file_size_mb"`     // Largest accepted upload, in megabytes.
	DurationMs         int   `toml:"duration_ms"`          // How long a simulated upload takes.
	ProgressIntervalMs int   `toml:"progress_interval_ms"` // How often progress is reported.
	ProgressStep       int   `toml:"progress_step"`        // Percentage added on every report.
}

// MaxFileSize returns the upload limit in bytes.
func (u Upload) MaxFileSize() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// Duration returns the simulated upload time.
func (u Upload) Duration() time.Duration {
	return time.Duration(u.DurationMs) * time.Millisecond
}

// ProgressInterval returns the progress reporting period.
func (u Upload) ProgressInterval() time.Duration {
	return time.Duration(u.ProgressIntervalMs) * time.Millisecond
}

// Latency is the artificial delay of every mock API operation, in milliseconds.
type Latency struct {
	ListMs       int `toml:"list_ms"`
	StatusMs     int `toml:"status_ms"`
	ResultsMs    int `toml:"results_ms"`
	RegenerateMs int `toml:"regenerate_ms"`
	UpdateMs     int `toml:"update_ms"`
}

// Processing configures the simulated transcription and question pipeline.
type Processing struct {
	SegmentLengthSeconds int `toml:"segment_length_seconds"` // Width of a transcript segment.
	QuestionSegments     int `toml:"question_segments"`      // Number of leading segments that receive questions.
	MinDurationSeconds   int `toml:"min_duration_seconds"`   // Lower bound of a simulated upload's duration.
	MaxDurationSeconds   int `toml:"max_duration_seconds"`   // Upper bound (inclusive) of a simulated upload's duration.
	RateLimit            int `toml:"rate_limit"`             // Question generations allowed per second.
}

// Dashboard configures the client side flows.
type Dashboard struct {
	ServerURL         string `toml:"server_url"`
	PollIntervalMs    int    `toml:"poll_interval_ms"`
	CompletionDelayMs int    `toml:"completion_delay_ms"`
	ExportDir         string `toml:"export_dir"`
}

// PollInterval returns the status polling period.
func (d Dashboard) PollInterval() time.Duration {
	return time.Duration(d.PollIntervalMs) * time.Millisecond
}

// CompletionDelay returns the grace period before navigating to results.
func (d Dashboard) CompletionDelay() time.Duration {
	return time.Duration(d.CompletionDelayMs) * time.Millisecond
}

// Config represents the overall configuration for the application, loaded from TOML files.
type Config struct {
	Application struct {
		Name     string `toml:"name"`      // The service name reported to telemetry.
		Port     int    `toml:"port"`      // The HTTP port of the server.
		LogFile  string `toml:"log_file"`  // Optional file that receives a copy of the logs.
		LogLevel string `toml:"log_level"` // debug, info, warn or error.
	} `toml:"application"`
	Telemetry  Telemetry  `toml:"telemetry"`
	Upload     Upload     `toml:"upload"`
	Latency    Latency    `toml:"latency"`
	Processing Processing `toml:"processing"`
	Dashboard  Dashboard  `toml:"dashboard"`
}

// NewConfig creates a Config holding the defaults of the mock backend. Values
// read by LoadConfig overwrite these.
func NewConfig() *Config {
	c := &Config{
		Telemetry: Telemetry{Exporter: "none"},
		Upload: Upload{
			MaxFileSizeMB:      500,
			DurationMs:         6000,
			ProgressIntervalMs: 300,
			ProgressStep:       5,
		},
		Latency: Latency{
			ListMs:       1000,
			StatusMs:     500,
			ResultsMs:    1500,
			RegenerateMs: 2000,
			UpdateMs:     500,
		},
		Processing: Processing{
			SegmentLengthSeconds: 300,
			QuestionSegments:     3,
			MinDurationSeconds:   1800,
			MaxDurationSeconds:   5399,
			RateLimit:            5,
		},
		Dashboard: Dashboard{
			ServerURL:         "http://localhost:8080",
			PollIntervalMs:    3000,
			CompletionDelayMs: 2000,
			ExportDir:         ".",
		},
	}
	c.Application.Name = "lecture-quiz"
	c.Application.Port = 8080
	c.Application.LogLevel = "info"
	return c
}
