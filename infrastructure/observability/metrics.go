package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wagerbot/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider records engine metrics through OpenTelemetry
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	operationsCounter     metric.Int64Counter
	operationDurationHist metric.Float64Histogram
	pointsMovedCounter    metric.Int64Counter
	flushesCounter        metric.Int64Counter
	flushDurationHist     metric.Float64Histogram
	snapshotBytesHist     metric.Int64Histogram
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(mp.config.OTelServiceName),
		attribute.String("environment", mp.config.Environment),
	)

	var (
		exporter sdkmetric.Exporter
		err      error
	)
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				exporter,
				sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
			),
		),
	)
	otel.SetMeterProvider(mp.meterProvider)

	if err := mp.useMeter(mp.meterProvider.Meter(MetricPrefix)); err != nil {
		return err
	}

	mp.initialized = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

// NewMetricsProviderWithReader builds an enabled provider around a caller
// supplied reader, such as a ManualReader in tests
func NewMetricsProviderWithReader(reader sdkmetric.Reader) (*MetricsProvider, error) {
	mp := &MetricsProvider{
		config:        &config.Config{OTelEnabled: true},
		meterProvider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
	}
	if err := mp.useMeter(mp.meterProvider.Meter(MetricPrefix)); err != nil {
		return nil, err
	}
	mp.initialized = true
	return mp, nil
}

func (mp *MetricsProvider) useMeter(meter metric.Meter) error {
	mp.meter = meter
	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}
	mp.enabled = true
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.operationsCounter, err = mp.meter.Int64Counter(
		OperationsTotal,
		metric.WithDescription("Total number of engine operations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create operations counter: %w", err)
	}

	mp.operationDurationHist, err = mp.meter.Float64Histogram(
		OperationDuration,
		metric.WithDescription("Duration of engine operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create operation duration histogram: %w", err)
	}

	mp.pointsMovedCounter, err = mp.meter.Int64Counter(
		PointsMovedTotal,
		metric.WithDescription("Total points credited or debited"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create points moved counter: %w", err)
	}

	mp.flushesCounter, err = mp.meter.Int64Counter(
		SnapshotFlushesTotal,
		metric.WithDescription("Total number of snapshot writes"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create snapshot flush counter: %w", err)
	}

	mp.flushDurationHist, err = mp.meter.Float64Histogram(
		SnapshotFlushDuration,
		metric.WithDescription("Duration of snapshot writes in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create snapshot flush histogram: %w", err)
	}

	mp.snapshotBytesHist, err = mp.meter.Int64Histogram(
		SnapshotBytes,
		metric.WithDescription("Size of written snapshot documents"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("failed to create snapshot size histogram: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordOperation counts an engine operation and its latency
func (mp *MetricsProvider) RecordOperation(ctx context.Context, operation string, err error, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(LabelOperation, operation),
		attribute.String(LabelOutcome, outcome(err)),
	)
	mp.operationsCounter.Add(ctx, 1, attrs)
	mp.operationDurationHist.Record(ctx, duration.Seconds(), attrs)
}

// RecordPointsMoved counts points moved by a balance change
func (mp *MetricsProvider) RecordPointsMoved(ctx context.Context, transactionType string, amount int64) {
	if !mp.isEnabled() {
		return
	}
	if amount < 0 {
		amount = -amount
	}

	mp.pointsMovedCounter.Add(ctx, amount,
		metric.WithAttributes(
			attribute.String(LabelTransactionType, transactionType),
		),
	)
}

// RecordSnapshotFlush records a snapshot write
func (mp *MetricsProvider) RecordSnapshotFlush(ctx context.Context, backend string, bytes int, err error, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(LabelBackend, backend),
		attribute.String(LabelOutcome, outcome(err)),
	)
	mp.flushesCounter.Add(ctx, 1, attrs)
	mp.flushDurationHist.Record(ctx, duration.Seconds(), attrs)
	if err == nil {
		mp.snapshotBytesHist.Record(ctx, int64(bytes), metric.WithAttributes(attribute.String(LabelBackend, backend)))
	}
}

// isEnabled checks if metrics are enabled and initialized
func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.enabled
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
