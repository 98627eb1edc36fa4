package telemetry

import (
	"context"
	"fmt"
	"time"

	"kinhealth/config"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Provider owns the tracer provider so it can be flushed on shutdown.
// A nil TracerProvider means tracing is off and the global no-op tracer is used.
type Provider struct {
	TracerProvider *sdktrace.TracerProvider
	log            *logrus.Logger
}

// InitProvider sets up OTLP/gRPC trace export. An empty endpoint disables export;
// an unreachable collector is logged and never fails startup.
func InitProvider(ctx context.Context, cfg config.TelemetryConfig, env string, log *logrus.Logger) (*Provider, error) {
	p := &Provider{log: log}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.OTLPEndpoint == "" {
		log.Info("OTLP endpoint not configured, tracing disabled")
		return p, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(env),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exporter, err := otlptracegrpc.New(dialCtx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithTimeout(5*time.Second),
	)
	if err != nil {
		log.Warnf("Failed to create OTLP trace exporter, continuing without tracing: %+v", err)
		return p, nil
	}

	p.TracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(Sampler(cfg.Sampler)),
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(5*time.Second),
			sdktrace.WithMaxExportBatchSize(512),
		),
	)
	otel.SetTracerProvider(p.TracerProvider)
	log.WithField("endpoint", cfg.OTLPEndpoint).Info("OpenTelemetry tracer provider initialized")

	return p, nil
}

// Sampler maps the OTEL_TRACES_SAMPLER names this service supports
func Sampler(name string) sdktrace.Sampler {
	switch name {
	case "always_off":
		return sdktrace.NeverSample()
	case "traceidratio":
		return sdktrace.TraceIDRatioBased(0.1)
	case "parentbased_always_on":
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	default:
		return sdktrace.AlwaysSample()
	}
}

func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.TracerProvider == nil {
		return nil
	}
	if err := p.TracerProvider.Shutdown(ctx); err != nil {
		p.log.Errorf("Error shutting down tracer provider: %v", err)
		return err
	}
	p.log.Info("Tracer provider shut down")
	return nil
}
