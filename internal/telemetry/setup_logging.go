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

// Package telemetry sets up the observability of the server and the CLI:
// structured JSON logs that Cloud Logging understands and correlates with
// traces, and the OpenTelemetry trace and metric pipeline.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/config"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/trace"
)

// spanContextLogHandler adds the trace and span ids of the record's context
// under the keys Cloud Logging uses for correlation.
type spanContextLogHandler struct {
	slog.Handler
}

func handlerWithSpanContext(handler slog.Handler) *spanContextLogHandler {
	return &spanContextLogHandler{Handler: handler}
}

func (t *spanContextLogHandler) Handle(ctx context.Context, record slog.Record) error {
	if s := trace.SpanContextFromContext(ctx); s.IsValid() {
		// See: https://cloud.google.com/logging/docs/structured-logging#special-payload-fields
		record.AddAttrs(
			slog.Any("logging.googleapis.com/trace", s.TraceID()),
			slog.Any("logging.googleapis.com/spanId", s.SpanID()),
			slog.Bool("logging.googleapis.com/trace_sampled", s.TraceFlags().IsSampled()),
		)
	}
	return t.Handler.Handle(ctx, record)
}

func (t *spanContextLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return handlerWithSpanContext(t.Handler.WithAttrs(attrs))
}

func (t *spanContextLogHandler) WithGroup(name string) slog.Handler {
	return handlerWithSpanContext(t.Handler.WithGroup(name))
}

// replacer renames the slog keys to the Cloud Logging ones ("severity",
// "timestamp", "message") and maps WARN to WARNING.
func replacer(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.LevelKey:
		a.Key = "severity"
		// https://cloud.google.com/logging/docs/reference/v2/rest/v2/LogEntry#LogSeverity
		if level, ok := a.Value.Any().(slog.Level); ok && level == slog.LevelWarn {
			a.Value = slog.StringValue("WARNING")
		}
	case slog.TimeKey:
		a.Key = "timestamp"
	case slog.MessageKey:
		a.Key = "message"
	}
	return a
}

// fanoutHandler hands every record to all of its handlers.
type fanoutHandler []slog.Handler

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var err error
	for _, h := range f {
		if h.Enabled(ctx, record.Level) {
			err = errors.Join(err, h.Handle(ctx, record.Clone()))
		}
	}
	return err
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// levelFilter drops records below a minimum level before they reach the
// OpenTelemetry bridge, which has no level of its own.
type levelFilter struct {
	slog.Handler
	level slog.Leveler
}

func (l *levelFilter) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= l.level.Level() && l.Handler.Enabled(ctx, level)
}

func (l *levelFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelFilter{Handler: l.Handler.WithAttrs(attrs), level: l.level}
}

func (l *levelFilter) WithGroup(name string) slog.Handler {
	return &levelFilter{Handler: l.Handler.WithGroup(name), level: l.level}
}

// ParseLevel maps "debug", "info", "warn" or "error" to a slog level. An
// empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// NewLogHandler builds the application log handler: Cloud Logging JSON on w
// with trace correlation, mirrored to the OpenTelemetry logs bridge under
// name.
func NewLogHandler(w io.Writer, level slog.Leveler, name string) slog.Handler {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, ReplaceAttr: replacer})
	bridge := &levelFilter{Handler: otelslog.NewHandler(name), level: level}
	return fanoutHandler{handlerWithSpanContext(jsonHandler), bridge}
}

// SetupLogging installs the application logger as the slog default. The
// standard log package writes through it as well.
//
// Inputs:
//   - cfg: Application.LogLevel sets the minimum level, Application.LogFile
//     adds a file that receives a copy of everything written to stderr.
//
// Outputs:
//   - func() error: Closes the log file, if any.
//   - error: An invalid level or a log file that cannot be created.
func SetupLogging(cfg *config.Config) (func() error, error) {
	level, err := ParseLevel(cfg.Application.LogLevel)
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stderr
	closer := func() error { return nil }
	if cfg.Application.LogFile != "" {
		file, err := os.Create(cfg.Application.LogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file %s: %w", cfg.Application.LogFile, err)
		}
		out = io.MultiWriter(os.Stderr, file)
		closer = file.Close
	}

	slog.SetDefault(slog.New(NewLogHandler(out, level, cfg.Application.Name)))
	return closer, nil
}
