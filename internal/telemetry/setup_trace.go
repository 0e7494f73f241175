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

package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	mexporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/metric"
	texporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/config"
	"go.opentelemetry.io/contrib/detectors/gcp"
	"go.opentelemetry.io/contrib/propagators/autoprop"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// Exporter names accepted in the telemetry configuration.
const (
	ExporterGCP  = "gcp"
	ExporterOTLP = "otlp"
	ExporterNone = "none"
)

// SetupOpenTelemetry initializes the OpenTelemetry SDK and registers the
// global tracer and meter providers.
//
// The "gcp" exporter sends traces to Cloud Trace and metrics to Cloud
// Monitoring. The "otlp" exporter sends traces over OTLP/HTTP to
// Telemetry.OtlpEndpoint; its metrics are recorded but not exported. With
// "none" (or nothing configured) the global no-op providers stay in place.
//
// Inputs:
//   - ctx: Used while creating the resource and the exporters.
//   - cfg: Provides the exporter choice and the service name.
//
// Outputs:
//   - shutdown: Flushes and stops every provider that was started. It must
//     be called before the process exits.
//   - err: An unknown exporter or a failed exporter setup.
func SetupOpenTelemetry(ctx context.Context, cfg *config.Config) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error
	shutdown = func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}

	exporter := cfg.Telemetry.Exporter
	switch exporter {
	case "", ExporterNone:
		return shutdown, nil
	case ExporterGCP, ExporterOTLP:
	default:
		return nil, fmt.Errorf("unsupported telemetry exporter %q (supported: gcp, otlp, none)", exporter)
	}

	options := []resource.Option{
		resource.WithTelemetrySDK(),
		resource.WithAttributes(semconv.ServiceNameKey.String(cfg.Application.Name)),
	}
	if exporter == ExporterGCP {
		options = append(options, resource.WithDetectors(gcp.NewDetector()))
	}
	res, err := resource.New(ctx, options...)
	if errors.Is(err, resource.ErrPartialResource) || errors.Is(err, resource.ErrSchemaURLConflict) {
		slog.Warn("partial resource detection", "error", err)
	} else if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	otel.SetTextMapPropagator(autoprop.NewTextMapPropagator())

	var spanExporter sdktrace.SpanExporter
	meterOptions := []metric.Option{metric.WithResource(res)}
	switch exporter {
	case ExporterGCP:
		spanExporter, err = texporter.New(texporter.WithProjectID(cfg.Telemetry.GoogleProjectId))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		metricExporter, err := mexporter.New(mexporter.WithProjectID(cfg.Telemetry.GoogleProjectId))
		if err != nil {
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
		meterOptions = append(meterOptions, metric.WithReader(metric.NewPeriodicReader(metricExporter)))
	case ExporterOTLP:
		spanExporter, err = otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(cfg.Telemetry.OtlpEndpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)
	shutdownFuncs = append(shutdownFuncs, tp.Shutdown)
	otel.SetTracerProvider(tp)

	mp := metric.NewMeterProvider(meterOptions...)
	shutdownFuncs = append(shutdownFuncs, mp.Shutdown)
	otel.SetMeterProvider(mp)

	slog.InfoContext(ctx, "telemetry initialized", "exporter", exporter)
	return shutdown, nil
}
