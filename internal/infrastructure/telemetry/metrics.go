package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/itou/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// MeterName is the instrumentation scope of the platform metrics
const MeterName = "github.com/itou/backend"

// MeterProvider owns the SDK provider when metrics are enabled
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
}

// NewMeterProvider exports metrics over OTLP gRPC every MetricsInterval.
// When metrics are disabled the global no-op provider stays in place.
func NewMeterProvider(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*MeterProvider, error) {
	if !cfg.MetricsEnabled {
		logger.Info("Metrics disabled, using no-op meter provider")
		return &MeterProvider{logger: logger}, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(defaultMetricsInterval(cfg.MetricsInterval)))
	return newMeterProvider(cfg, reader, logger)
}

func defaultMetricsInterval(interval time.Duration) time.Duration {
	if interval <= 0 {
		return 60 * time.Second
	}
	return interval
}

func newMeterProvider(cfg config.TelemetryConfig, reader sdkmetric.Reader, logger *zap.Logger) (*MeterProvider, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(provider)

	logger.Info("OpenTelemetry MeterProvider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.String("service_name", cfg.ServiceName),
	)
	return &MeterProvider{provider: provider, logger: logger}, nil
}

// IsEnabled returns whether metrics are exported
func (mp *MeterProvider) IsEnabled() bool {
	return mp.provider != nil
}

// Meter returns a named meter
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

// Shutdown flushes pending metrics
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := mp.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	mp.logger.Info("OpenTelemetry MeterProvider shutdown complete")
	return nil
}

// Counter wraps a monotonically increasing metric
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a new Counter metric
func NewCounter(meter metric.Meter, name, description, unit string) (*Counter, error) {
	c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return &Counter{counter: c}, nil
}

// Add increments the counter by value
func (c *Counter) Add(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	if c == nil || value == 0 {
		return
	}
	c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// Inc increments the counter by 1
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.Add(ctx, 1, attrs...)
}

// Metric attributes
var (
	AttrOutcome = attribute.Key("outcome")
)

// ExchangeMetrics counts the files exchanged with the ASP
type ExchangeMetrics struct {
	batchesExported *Counter
	linesExported   *Counter
	replyLines      *Counter
	repliesFailed   *Counter
}

// NewExchangeMetrics creates the exchange counters on meter
func NewExchangeMetrics(meter metric.Meter) (*ExchangeMetrics, error) {
	m := &ExchangeMetrics{}
	var err error
	if m.batchesExported, err = NewCounter(meter, "itou_employee_record_batches_exported_total",
		"Batch files uploaded to the ASP", "{files}"); err != nil {
		return nil, err
	}
	if m.linesExported, err = NewCounter(meter, "itou_employee_record_lines_exported_total",
		"Employee records sent in batch files", "{records}"); err != nil {
		return nil, err
	}
	if m.replyLines, err = NewCounter(meter, "itou_employee_record_reply_lines_total",
		"Reply lines applied, by outcome (accepted, rejected, skipped)", "{lines}"); err != nil {
		return nil, err
	}
	if m.repliesFailed, err = NewCounter(meter, "itou_employee_record_replies_failed_total",
		"Reply files that could not be applied", "{files}"); err != nil {
		return nil, err
	}
	return m, nil
}

// GlobalExchangeMetrics creates the exchange counters on the global meter
// provider. Instruments created before the SDK is installed follow it.
func GlobalExchangeMetrics() *ExchangeMetrics {
	m, err := NewExchangeMetrics(otel.Meter(MeterName))
	if err != nil {
		otel.Handle(err)
		return nil
	}
	return m
}

// BatchExported records an uploaded batch of lines
func (m *ExchangeMetrics) BatchExported(ctx context.Context, lines int) {
	if m == nil {
		return
	}
	m.batchesExported.Inc(ctx)
	m.linesExported.Add(ctx, int64(lines))
}

// ReplyApplied records the outcome of the lines of an applied reply
func (m *ExchangeMetrics) ReplyApplied(ctx context.Context, accepted, rejected, skipped int) {
	if m == nil {
		return
	}
	m.replyLines.Add(ctx, int64(accepted), AttrOutcome.String("accepted"))
	m.replyLines.Add(ctx, int64(rejected), AttrOutcome.String("rejected"))
	m.replyLines.Add(ctx, int64(skipped), AttrOutcome.String("skipped"))
}

// ReplyFailed records a reply moved aside
func (m *ExchangeMetrics) ReplyFailed(ctx context.Context) {
	if m == nil {
		return
	}
	m.repliesFailed.Inc(ctx)
}

// EmailMetrics counts the delivery attempts of the email workers
type EmailMetrics struct {
	sent    *Counter
	retries *Counter
	dropped *Counter
}

// NewEmailMetrics creates the email counters on meter
func NewEmailMetrics(meter metric.Meter) (*EmailMetrics, error) {
	m := &EmailMetrics{}
	var err error
	if m.sent, err = NewCounter(meter, "itou_emails_sent_total", "Emails delivered", "{emails}"); err != nil {
		return nil, err
	}
	if m.retries, err = NewCounter(meter, "itou_email_retries_total", "Email tasks scheduled for retry", "{tasks}"); err != nil {
		return nil, err
	}
	if m.dropped, err = NewCounter(meter, "itou_emails_dropped_total", "Emails dropped after the last retry", "{emails}"); err != nil {
		return nil, err
	}
	return m, nil
}

// GlobalEmailMetrics creates the email counters on the global meter provider
func GlobalEmailMetrics() *EmailMetrics {
	m, err := NewEmailMetrics(otel.Meter(MeterName))
	if err != nil {
		otel.Handle(err)
		return nil
	}
	return m
}

// Sent records delivered emails
func (m *EmailMetrics) Sent(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.sent.Add(ctx, int64(n))
}

// RetryScheduled records a task put back for a later attempt
func (m *EmailMetrics) RetryScheduled(ctx context.Context) {
	if m == nil {
		return
	}
	m.retries.Inc(ctx)
}

// Dropped records emails given up on
func (m *EmailMetrics) Dropped(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.dropped.Add(ctx, int64(n))
}
