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

package telemetry_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/telemetry"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const tName = "github.com/jaycherian/gcp-go-lecture-quiz/tests/telemetry"

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestLogHandlerUsesCloudLoggingKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(telemetry.NewLogHandler(&buf, slog.LevelInfo, tName))

	logger.Warn("disk almost full", "free", 3)
	entry := decode(t, &buf)
	assert.Equal(t, "WARNING", entry["severity"])
	assert.Equal(t, "disk almost full", entry["message"])
	assert.Contains(t, entry, "timestamp")
	assert.EqualValues(t, 3, entry["free"])
}

func TestLogHandlerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(telemetry.NewLogHandler(&buf, slog.LevelWarn, tName))
	logger.Info("ignored")
	assert.Zero(t, buf.Len())
}

func TestLogHandlerAddsSpanContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	ctx, span := tp.Tracer(tName).Start(context.Background(), "test")
	defer span.End()

	var buf bytes.Buffer
	logger := slog.New(telemetry.NewLogHandler(&buf, slog.LevelInfo, tName)).With("component", "test")
	logger.InfoContext(ctx, "inside span")

	entry := decode(t, &buf)
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["logging.googleapis.com/trace"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry["logging.googleapis.com/spanId"])
	assert.Equal(t, true, entry["logging.googleapis.com/trace_sampled"])
	assert.Equal(t, "test", entry["component"])
}

func TestParseLevel(t *testing.T) {
	level, err := telemetry.ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
	level, err = telemetry.ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
	_, err = telemetry.ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetupLoggingWritesFile(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	cfg := testutil.GetConfig()
	cfg.Application.LogLevel = "info"
	cfg.Application.LogFile = filepath.Join(t.TempDir(), "app.log")
	closeLog, err := telemetry.SetupLogging(cfg)
	require.NoError(t, err)

	slog.Info("written to file")
	otelslog.NewLogger(tName).Info("sent to the bridge only")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(cfg.Application.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"written to file"`)
	assert.NotContains(t, string(data), "bridge only")
}

func TestSetupLoggingRejectsLevel(t *testing.T) {
	cfg := testutil.GetConfig()
	cfg.Application.LogLevel = "loud"
	_, err := telemetry.SetupLogging(cfg)
	assert.Error(t, err)
}

func TestSetupOpenTelemetry(t *testing.T) {
	ctx := context.Background()
	cfg := testutil.GetConfig()

	cfg.Telemetry.Exporter = telemetry.ExporterNone
	shutdown, err := telemetry.SetupOpenTelemetry(ctx, cfg)
	require.NoError(t, err)
	assert.NoError(t, shutdown(ctx))

	cfg.Telemetry.Exporter = "zipkin"
	_, err = telemetry.SetupOpenTelemetry(ctx, cfg)
	assert.ErrorContains(t, err, "unsupported telemetry exporter")

	cfg.Telemetry.Exporter = telemetry.ExporterOTLP
	cfg.Telemetry.OtlpEndpoint = "localhost:4318"
	shutdown, err = telemetry.SetupOpenTelemetry(ctx, cfg)
	require.NoError(t, err)
	assert.NoError(t, shutdown(ctx))
}
