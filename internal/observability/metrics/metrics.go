package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	redemptions      metric.Int64Counter
	redemptionDenied metric.Int64Counter
	allowanceChecks  metric.Int64Counter
	cardViews        metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down meter provider")
			return provider.Shutdown(ctx)
		},
	})

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "khasm"
	}
	meter := provider.Meter(name)

	redemptions, err := meter.Int64Counter("khasm_redemptions_total")
	if err != nil {
		return nil, err
	}
	redemptionDenied, err := meter.Int64Counter("khasm_redemptions_denied_total")
	if err != nil {
		return nil, err
	}
	allowanceChecks, err := meter.Int64Counter("khasm_allowance_checks_total")
	if err != nil {
		return nil, err
	}
	cardViews, err := meter.Int64Counter("khasm_card_views_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		redemptions:      redemptions,
		redemptionDenied: redemptionDenied,
		allowanceChecks:  allowanceChecks,
		cardViews:        cardViews,
	}, nil
}

// RecordRedemption increments successful redemption counts.
func (m *Metrics) RecordRedemption(ctx context.Context, storeID string) {
	if m == nil {
		return
	}
	m.redemptions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("store_id", strings.TrimSpace(storeID)),
	))
}

// RecordRedemptionDenied increments denied redemption counts.
func (m *Metrics) RecordRedemptionDenied(ctx context.Context, storeID, reason string) {
	if m == nil {
		return
	}
	m.redemptionDenied.Add(ctx, 1, metric.WithAttributes(
		attribute.String("store_id", strings.TrimSpace(storeID)),
		attribute.String("reason", strings.TrimSpace(reason)),
	))
}

// RecordAllowanceCheck increments allowance check counts.
func (m *Metrics) RecordAllowanceCheck(ctx context.Context, allowed bool) {
	if m == nil {
		return
	}
	m.allowanceChecks.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("allowed", allowed),
	))
}

// RecordCardView increments card page view counts.
func (m *Metrics) RecordCardView(ctx context.Context) {
	if m == nil {
		return
	}
	m.cardViews.Add(ctx, 1)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}
