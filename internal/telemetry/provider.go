// Package telemetry sets up OpenTelemetry tracing for the runtime.
package telemetry

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName is the tracer name used by runtime packages.
const InstrumentationName = "screenflow"

// Provider owns the tracer provider. Tracing is a no-op unless
// OTEL_EXPORTER_OTLP_ENDPOINT is set.
type Provider struct {
	sdk     *sdktrace.TracerProvider
	tp      oteltrace.TracerProvider
	enabled bool
}

// NewProvider creates an OTLP/HTTP exporting provider if
// OTEL_EXPORTER_OTLP_ENDPOINT is set, and a no-op provider otherwise.
// OTEL_SERVICE_NAME overrides serviceName.
func NewProvider(ctx context.Context, serviceName string) (*Provider, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return &Provider{tp: noop.NewTracerProvider()}, nil
	}

	var opt otlptracehttp.Option
	if strings.Contains(endpoint, "://") {
		opt = otlptracehttp.WithEndpointURL(endpoint)
	} else {
		opt = otlptracehttp.WithEndpoint(endpoint)
	}
	exporter, err := otlptracehttp.New(ctx, opt, otlptracehttp.WithInsecure())
	if err != nil {
		return nil, err
	}

	if name := os.Getenv("OTEL_SERVICE_NAME"); name != "" {
		serviceName = name
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	sdk := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return &Provider{sdk: sdk, tp: sdk, enabled: true}, nil
}

// FromTracerProvider wraps an existing provider, e.g. one backed by a
// tracetest recorder.
func FromTracerProvider(tp oteltrace.TracerProvider) *Provider {
	p := &Provider{tp: tp, enabled: true}
	if sdk, ok := tp.(*sdktrace.TracerProvider); ok {
		p.sdk = sdk
	}
	return p
}

// Enabled reports whether spans are exported anywhere.
func (p *Provider) Enabled() bool {
	return p != nil && p.enabled
}

// TracerProvider returns the underlying provider.
func (p *Provider) TracerProvider() oteltrace.TracerProvider {
	if p == nil {
		return noop.NewTracerProvider()
	}
	return p.tp
}

// Tracer returns the runtime tracer.
func (p *Provider) Tracer() oteltrace.Tracer {
	return p.TracerProvider().Tracer(InstrumentationName)
}

// Shutdown flushes and closes the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.sdk == nil {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}

// Attr maps a short attribute name to the screenflow.* namespace.
func Attr(k, v string) attribute.KeyValue {
	var key string
	switch k {
	case "key":
		key = "screenflow.nav.key"
	case "coordinator":
		key = "screenflow.nav.coordinator"
	case "from":
		key = "screenflow.nav.from"
	case "type":
		key = "screenflow.window.type"
	case "scope":
		key = "screenflow.window.scope"
	case "id":
		key = "screenflow.window.id"
	case "asset":
		key = "screenflow.asset.key"
	default:
		key = "screenflow." + k
	}
	return attribute.String(key, v)
}
