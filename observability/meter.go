package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/hubspotkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows plain HTTP to the collector.
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a global meter provider exporting over OTLP HTTP.
// The caller shuts the returned provider down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(newResource(config.ServiceName, config.ServiceVersion, config.Environment)),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		logger.FieldService, config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Dispatch metric names.
const (
	MetricRequestTotal    = "hubspot.request.total"
	MetricRequestDuration = "hubspot.request.duration"
	MetricRequestTimeouts = "hubspot.request.timeouts"
	MetricHealthChecks    = "hubspot.health.checks"
	MetricHealthExhausted = "hubspot.health.exhausted"
)

// DispatchMetrics holds the instruments recorded by the HubSpot dispatcher.
// A nil *DispatchMetrics records nothing.
type DispatchMetrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	timeouts        metric.Int64Counter
	healthChecks    metric.Int64Counter
	exhausted       metric.Int64Counter
}

// NewDispatchMetrics creates the dispatcher instruments on meter.
func NewDispatchMetrics(meter metric.Meter) (*DispatchMetrics, error) {
	requestTotal, err := meter.Int64Counter(MetricRequestTotal,
		metric.WithDescription("HubSpot requests by method, status and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRequestTotal, err)
	}

	requestDuration, err := meter.Float64Histogram(MetricRequestDuration,
		metric.WithDescription("Duration of HubSpot requests including health polling"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricRequestDuration, err)
	}

	timeouts, err := meter.Int64Counter(MetricRequestTimeouts,
		metric.WithDescription("HubSpot requests that hit their timeout"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRequestTimeouts, err)
	}

	healthChecks, err := meter.Int64Counter(MetricHealthChecks,
		metric.WithDescription("Health probes by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricHealthChecks, err)
	}

	exhausted, err := meter.Int64Counter(MetricHealthExhausted,
		metric.WithDescription("Health polls that ran out of budget"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricHealthExhausted, err)
	}

	return &DispatchMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		timeouts:        timeouts,
		healthChecks:    healthChecks,
		exhausted:       exhausted,
	}, nil
}

// RecordRequest records a finished dispatch. status is 0 when no response
// was received.
func (m *DispatchMetrics) RecordRequest(ctx context.Context, method string, status int, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrHTTPStatus, strconv.Itoa(status)),
		attribute.String(AttrOutcome, outcome),
	))
	m.requestDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String(AttrHTTPMethod, method),
	))
}

// RecordTimeout counts a request that timed out.
func (m *DispatchMetrics) RecordTimeout(ctx context.Context, method string) {
	if m == nil {
		return
	}
	m.timeouts.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrHTTPMethod, method)))
}

// RecordHealthCheck counts one health probe.
func (m *DispatchMetrics) RecordHealthCheck(ctx context.Context, healthy bool) {
	if m == nil {
		return
	}
	m.healthChecks.Add(ctx, 1, metric.WithAttributes(attribute.Bool(AttrHealthy, healthy)))
}

// RecordExhausted counts a health poll that gave up.
func (m *DispatchMetrics) RecordExhausted(ctx context.Context) {
	if m == nil {
		return
	}
	m.exhausted.Add(ctx, 1)
}
