package otel

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/bravo68web/odinpkg/internal/config"
)

// ServiceName is reported as service.name on every exported record
const ServiceName = "odinpkg"

// Provider manages the OpenTelemetry log provider
type Provider struct {
	logProvider *sdklog.LoggerProvider
	logger      log.Logger
}

// NewProvider creates a log provider exporting to the configured collector
func NewProvider(ctx context.Context, cfg config.OtelConfig, version string) (*Provider, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("OTEL is not enabled")
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(version),
			attribute.String("environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := createExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	logProvider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter, sdklog.WithExportTimeout(5*time.Second))),
	)

	return &Provider{
		logProvider: logProvider,
		logger:      logProvider.Logger(ServiceName),
	}, nil
}

func createExporter(ctx context.Context, cfg config.OtelConfig) (sdklog.Exporter, error) {
	if cfg.UseHTTP {
		opts := []otlploghttp.Option{otlploghttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlploghttp.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlploghttp.WithHeaders(cfg.Headers))
		}
		return otlploghttp.New(ctx, opts...)
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.Endpoint)}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlploggrpc.WithHeaders(cfg.Headers))
	}
	if cfg.Insecure {
		conn, err := grpc.NewClient(cfg.Endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
		}
		opts = append(opts, otlploggrpc.WithGRPCConn(conn))
	}
	return otlploggrpc.New(ctx, opts...)
}

// Logger returns the OTEL logger
func (p *Provider) Logger() log.Logger {
	return p.logger
}

// Shutdown gracefully shuts down the provider
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.logProvider.Shutdown(ctx)
}

// ForceFlush forces a flush of all pending logs
func (p *Provider) ForceFlush(ctx context.Context) error {
	return p.logProvider.ForceFlush(ctx)
}

// Close implements io.Closer for the provider
func (p *Provider) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.Shutdown(ctx)
}

var _ io.Closer = (*Provider)(nil)
