// Package telemetry wires one OpenTelemetry span per pipeline stage
// (parse, disassemble, render). Tracing is a no-op until Init is called
// with Config.Enabled set, matching the CLI's --otel flag being off by
// default.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Config selects whether tracing is wired to a real collector.
type Config struct {
	Enabled     bool
	ExporterURL string
}

// Init wires the global tracer provider to an OTLP/HTTP exporter when
// enabled, otherwise leaves the default no-op provider in place. The
// returned func flushes and shuts the provider down.
func Init(ctx context.Context, cfg Config) (func(), error) {
	if !cfg.Enabled {
		return func() {}, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.ExporterURL),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String("wasmdec"),
			semconv.ServiceVersionKey.String("dev"),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}, nil
}

// Tracer returns the wasmdec pipeline tracer.
func Tracer() oteltrace.Tracer {
	return otel.Tracer("wasmdec")
}

// StartStage starts a span named after one pipeline stage ("parse",
// "disassemble", "render:flat", "render:structured").
func StartStage(ctx context.Context, stage string) (context.Context, oteltrace.Span) {
	return Tracer().Start(ctx, stage)
}
