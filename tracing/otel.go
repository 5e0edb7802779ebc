package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "ledger_in_go"

type Config struct {
	ServiceName string
	// OTLP/HTTP collector, host:port. Empty keeps the global no-op provider.
	Endpoint string
	Insecure bool
}

// InitTracer installs an OTLP exporting tracer provider. The returned shutdown flushes
// pending spans and is safe to call when tracing is off.
func InitTracer(ctx context.Context, c Config) (func(context.Context) error, error) {
	if c.Endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(c.Endpoint),
	}
	if c.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(c.ServiceName),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// Span around one proof search, on top of the block at prevIndex.
func StartMineSpan(ctx context.Context, prevIndex int, difficulty int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "ledger.mine",
		trace.WithAttributes(
			attribute.Int("ledger.prev_index", prevIndex),
			attribute.Int("ledger.difficulty", difficulty),
		),
	)
}

// Span around one consensus round.
func StartResolveSpan(ctx context.Context, peers int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "ledger.resolve",
		trace.WithAttributes(
			attribute.Int("ledger.peers", peers),
		),
	)
}

// Span around a single chain fetch from a peer.
func StartFetchSpan(ctx context.Context, peer string, transport string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "ledger.fetch_chain",
		trace.WithAttributes(
			attribute.String("peer.address", peer),
			attribute.String("peer.transport", transport),
		),
	)
}
