// Package telemetry wires the OpenTelemetry SDK to an OTLP collector over
// gRPC. Application metrics stay on the Prometheus scrape path; this package
// carries traces and, optionally, process runtime metrics.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/donaldgifford/notice-tracker/internal/config"
)

const serviceName = "notice-tracker"

// buildVersion reports the module version stamped into the binary, or
// "unknown" outside a module-aware build.
func buildVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "unknown"
}

// Tracer returns the tracer check spans are recorded on. Before Setup runs,
// or when telemetry is disabled, this is the global no-op tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(serviceName)
}

// Provider owns the OTLP exporters and the collector connection, and shuts
// them down together.
type Provider struct {
	conn           *grpc.ClientConn
	tracerShutdown func(context.Context) error
	meterShutdown  func(context.Context) error
}

// Setup dials the collector and installs the global tracer provider, plus a
// meter provider for runtime metrics when cfg.Metrics is set. A disabled
// config returns a Provider whose Shutdown is a no-op.
func Setup(ctx context.Context, cfg config.TelemetryConfig, log *slog.Logger) (*Provider, error) {
	p := &Provider{}
	if !cfg.Enabled {
		return p, nil
	}

	conn, err := grpc.NewClient(cfg.Endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("dialing otlp endpoint: %w", err)
	}
	p.conn = conn

	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", buildVersion()),
	)

	exporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient(
		otlptracegrpc.WithGRPCConn(conn),
	))
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("creating otlp trace exporter: %w", err),
			conn.Close(),
		)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	p.tracerShutdown = tp.Shutdown

	if cfg.Metrics {
		if err := p.setupMetrics(ctx, res); err != nil {
			return nil, err
		}
	}

	log.Info("telemetry enabled", "endpoint", cfg.Endpoint, "runtime_metrics", cfg.Metrics)
	return p, nil
}

func (p *Provider) setupMetrics(ctx context.Context, res *resource.Resource) error {
	exporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(p.conn))
	if err != nil {
		return fmt.Errorf("creating otlp metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(30*time.Second),
		)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	p.meterShutdown = mp.Shutdown

	return registerRuntimeMetrics()
}

func registerRuntimeMetrics() error {
	meter := otel.Meter(serviceName)

	goroutines, err := meter.Int64ObservableGauge("process.runtime.go.goroutines",
		metric.WithDescription("Number of live goroutines."),
	)
	if err != nil {
		return fmt.Errorf("creating goroutines gauge: %w", err)
	}

	heapAlloc, err := meter.Int64ObservableGauge("process.runtime.go.mem.heap_alloc",
		metric.WithDescription("Bytes of allocated heap objects."),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("creating heap gauge: %w", err)
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		o.ObserveInt64(goroutines, int64(runtime.NumGoroutine()))
		o.ObserveInt64(heapAlloc, int64(ms.HeapAlloc))
		return nil
	}, goroutines, heapAlloc)
	if err != nil {
		return fmt.Errorf("registering runtime callback: %w", err)
	}
	return nil
}

// Shutdown flushes the exporters and closes the collector connection.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.tracerShutdown != nil {
		errs = append(errs, p.tracerShutdown(ctx))
	}
	if p.meterShutdown != nil {
		errs = append(errs, p.meterShutdown(ctx))
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
