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

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/config"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := config.NewConfig()
	assert.Equal(t, int64(500*1024*1024), cfg.Upload.MaxFileSize())
	assert.Equal(t, 3*time.Second, cfg.Dashboard.PollInterval())
	assert.Equal(t, 2*time.Second, cfg.Dashboard.CompletionDelay())
	assert.Equal(t, 6*time.Second, cfg.Upload.Duration())
	assert.Equal(t, "none", cfg.Telemetry.Exporter)
}

func TestConfigFiles(t *testing.T) {
	t.Setenv(config.EnvConfigFilePrefix, "configs")
	t.Setenv(config.EnvConfigRuntime, "")

	base, runtime := config.ConfigFiles()
	assert.Equal(t, filepath.Join("configs", ".env.toml"), base)
	assert.Equal(t, filepath.Join("configs", ".env.test.toml"), runtime)
}

func TestLoadConfigOverlaysRuntime(t *testing.T) {
	t.Setenv(config.EnvConfigFilePrefix, testutil.ConfigDir())
	t.Setenv(config.EnvConfigRuntime, "test")

	cfg := config.NewConfig()
	require.NoError(t, config.LoadConfig(cfg))
	// Overridden by the runtime file.
	assert.Equal(t, "warn", cfg.Application.LogLevel)
	assert.Equal(t, 5*time.Millisecond, cfg.Dashboard.PollInterval())
	assert.Equal(t, 0, cfg.Latency.ResultsMs)
	// Kept from the base file.
	assert.Equal(t, "lecture-quiz", cfg.Application.Name)
	assert.Equal(t, int64(500), cfg.Upload.MaxFileSizeMB)
}

func TestLoadConfigSkipsMissingFiles(t *testing.T) {
	t.Setenv(config.EnvConfigFilePrefix, t.TempDir())
	t.Setenv(config.EnvConfigRuntime, "nowhere")

	cfg := config.NewConfig()
	require.NoError(t, config.LoadConfig(cfg))
	assert.Equal(t, config.NewConfig(), cfg)
}

func TestLoadConfigRejectsBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte("[upload\n"), 0o644))
	t.Setenv(config.EnvConfigFilePrefix, dir)

	err := config.LoadConfig(config.NewConfig())
	assert.ErrorContains(t, err, "failed to decode configuration file")
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	body := "[upload]\nmax_file_size_mb = 100\nallowed_media_type = \"video/webm\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(body), 0o644))
	t.Setenv(config.EnvConfigFilePrefix, dir)

	err := config.LoadConfig(config.NewConfig())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unknown keys")
	assert.ErrorContains(t, err, "upload.allowed_media_type")
}

func TestSetupEnvDefaults(t *testing.T) {
	t.Setenv(config.EnvConfigFilePrefix, "")
	t.Setenv(config.EnvConfigRuntime, "")

	require.NoError(t, config.SetupEnv())
	assert.Equal(t, config.DefaultConfigDir, os.Getenv(config.EnvConfigFilePrefix))
	assert.Equal(t, config.LocalRuntime, os.Getenv(config.EnvConfigRuntime))
}

func TestLoadKeepsExplicitEnvironment(t *testing.T) {
	t.Setenv(config.EnvConfigFilePrefix, testutil.ConfigDir())
	t.Setenv(config.EnvConfigRuntime, "test")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Application.LogLevel)
	assert.Equal(t, "test", os.Getenv(config.EnvConfigRuntime))
}
