// Package metricsx wires OpenTelemetry metrics to a Prometheus scrape
// endpoint and exposes a handful of recorders used across the ERP. Every
// recorder is a no-op until Setup has run, so packages can call them
// unconditionally.
package metricsx

import (
	"context"
	"net/http"
	"sync"
	"time"

	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

var (
	meterProvider *sdkmetric.MeterProvider
	httpHandler   http.Handler
	initOnce      sync.Once

	requestCounter         metric.Int64Counter
	latencyHist            metric.Float64Histogram
	externalCallCounter    metric.Int64Counter
	externalCallLatency    metric.Float64Histogram
	externalCallErrCounter metric.Int64Counter
	businessEventCounter   metric.Int64Counter
	cacheEventCounter      metric.Int64Counter
	dbLatencyHist          metric.Float64Histogram
)

// Config captures the setup parameters.
type Config struct {
	ServiceName   string
	ResourceAttrs map[string]string
}

// Setup installs the global meter provider. It is safe to call more than
// once; only the first call does any work.
func Setup(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "erp"
	}

	attrs := []attribute.KeyValue{attribute.String("service.name", cfg.ServiceName)}
	for k, v := range cfg.ResourceAttrs {
		attrs = append(attrs, attribute.String(k, v))
	}

	var initErr error
	initOnce.Do(func() {
		initErr = setup(cfg.ServiceName, attrs)
	})
	if initErr != nil {
		return nil, initErr
	}

	return func(ctx context.Context) error {
		if meterProvider != nil {
			return meterProvider.Shutdown(ctx)
		}
		return nil
	}, nil
}

func setup(name string, attrs []attribute.KeyValue) error {
	exp, err := prometheus.New(prometheus.WithoutUnits())
	if err != nil {
		return err
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
	if err != nil {
		return err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exp),
		sdkmetric.WithResource(res),
	)
	meter := mp.Meter(name)

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&requestCounter, "http_requests_total", "Total number of HTTP requests processed"},
		{&externalCallCounter, "external_calls_total", "Calls to VIES, Discogs, Stripe and Redis"},
		{&externalCallErrCounter, "external_call_errors_total", "Failed external calls"},
		{&businessEventCounter, "business_events_total", "Business events by action and outcome"},
		{&cacheEventCounter, "cache_events_total", "Cache hit/miss counts"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return err
		}
	}

	hists := []struct {
		dst  *metric.Float64Histogram
		name string
		desc string
	}{
		{&latencyHist, "http_request_duration_seconds", "HTTP request duration in seconds"},
		{&externalCallLatency, "external_call_duration_seconds", "Duration of external calls in seconds"},
		{&dbLatencyHist, "db_latency_seconds", "Database latency by operation"},
	}
	for _, h := range hists {
		if *h.dst, err = meter.Float64Histogram(h.name, metric.WithDescription(h.desc)); err != nil {
			return err
		}
	}

	if err := runtime.Start(
		runtime.WithMinimumReadMemStatsInterval(10*time.Second),
		runtime.WithMeterProvider(mp),
	); err != nil {
		return err
	}

	otel.SetMeterProvider(mp)
	meterProvider = mp
	httpHandler = promhttp.Handler()
	return nil
}

// Handler returns the Prometheus /metrics handler, or 404 before Setup.
func Handler() http.Handler {
	if httpHandler != nil {
		return httpHandler
	}
	return http.NotFoundHandler()
}

// HTTPMetricsMiddleware records request counts and latency labelled by the
// matched ServeMux pattern rather than the raw path, which keeps product and
// order ids out of the label set.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestCounter == nil || latencyHist == nil {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		attrs := metric.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", rec.status),
		)
		requestCounter.Add(r.Context(), 1, attrs)
		latencyHist.Record(r.Context(), time.Since(start).Seconds(), attrs)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RecordExternalCall tracks latency and errors for a downstream dependency.
func RecordExternalCall(ctx context.Context, target, operation string, d time.Duration, err error) {
	if externalCallCounter == nil || externalCallLatency == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("external.target", target),
		attribute.String("external.operation", operation),
		attribute.Bool("external.success", err == nil),
	)
	externalCallCounter.Add(ctx, 1, attrs)
	externalCallLatency.Record(ctx, d.Seconds(), attrs)
	if err != nil {
		externalCallErrCounter.Add(ctx, 1, attrs)
	}
}

// RecordBusinessEvent counts domain events such as order_confirmed or
// invoice_issued.
func RecordBusinessEvent(ctx context.Context, action string, success bool) {
	if businessEventCounter == nil {
		return
	}

	outcome := "failure"
	if success {
		outcome = "success"
	}
	businessEventCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("business.action", action),
		attribute.String("business.outcome", outcome),
	))
}

// RecordCacheEvent increments cache hit/miss counters.
func RecordCacheEvent(ctx context.Context, cacheName string, hit bool) {
	if cacheEventCounter == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}
	cacheEventCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache.name", cacheName),
		attribute.String("cache.result", result),
	))
}

// RecordDBLatency records a datastore operation duration.
func RecordDBLatency(ctx context.Context, operation string, d time.Duration) {
	if dbLatencyHist == nil {
		return
	}

	dbLatencyHist.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("db.operation", operation),
	))
}
