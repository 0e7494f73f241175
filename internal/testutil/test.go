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

// Package testutil provides helpers shared by the test suite: the test
// configuration (zero latencies, fast uploads and polling) and sample media
// bytes.
package testutil

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/config"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
)

// StateManager caches the test configuration so the TOML files are decoded
// once per test binary.
type StateManager struct {
	once   sync.Once
	config *config.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is not nil.
func HandleErr(err error, t *testing.T) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// ConfigDir returns the absolute path of the repository's configs directory.
// Tests run from their package directory, so the path is resolved from this
// source file rather than the working directory.
func ConfigDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "configs")
}

// SetupOS points the configuration loader at the test configuration files.
func SetupOS() (err error) {
	err = os.Setenv(config.EnvConfigFilePrefix, ConfigDir())
	if err != nil {
		return err
	}
	return os.Setenv(config.EnvConfigRuntime, "test")
}

// GetConfig returns a copy of the cached test configuration. Each caller gets
// its own copy so tests may tweak values freely.
func GetConfig() *config.Config {
	state.once.Do(func() {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		cfg := config.NewConfig()
		if err := config.LoadConfig(cfg); err != nil {
			log.Fatalf("failed to load test configuration: %v\n", err)
		}
		state.config = cfg
	})
	out := *state.config
	return &out
}

// SampleMP4Head is the start of an ISO base media file with an "isom" brand.
func SampleMP4Head() []byte {
	head := []byte("\x00\x00\x00\x20ftypisom\x00\x00\x02\x00isomiso2avc1mp41")
	return append(head, make([]byte, 8)...)
}

// SampleMP4 builds an upload file of the given declared size whose content
// sniffs as MP4.
func SampleMP4(name string, size int64) *model.UploadFile {
	head := SampleMP4Head()
	return &model.UploadFile{
		Name:      name,
		MediaType: model.MP4MediaType,
		Size:      size,
		Head:      head,
		Content:   bytes.NewReader(head),
	}
}

// SamplePNGHead is the signature of a PNG image.
func SamplePNGHead() []byte {
	return []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
}
