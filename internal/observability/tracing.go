package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/signalsfoundry/wellpath/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Span exporters understood by TracingConfig.Exporter.
const (
	ExporterStdout = "stdout"
	ExporterFile   = "file"
	ExporterOTLP   = "otlp"
)

const defaultOTLPEndpoint = "localhost:4317"

// TracingConfig governs how tracing is initialised for one run.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Exporter    string // stdout | file | otlp
	Endpoint    string // otlp collector address
	Path        string // span file for the file exporter
	SampleRatio float64

	// Writer receives stdout-exporter spans. Defaults to stderr: stdout
	// carries the JSON result.
	Writer io.Writer
}

// TracingConfigFromEnv reads WELLPATH_TRACING_ENABLED, _EXPORTER, _FILE,
// _SERVICE_NAME, _SAMPLE_RATIO and WELLPATH_OTLP_ENDPOINT.
func TracingConfigFromEnv() TracingConfig {
	cfg := TracingConfig{
		Enabled:     strings.EqualFold(os.Getenv("WELLPATH_TRACING_ENABLED"), "true"),
		ServiceName: envOr("WELLPATH_TRACING_SERVICE_NAME", "wellpoint"),
		Exporter:    strings.ToLower(envOr("WELLPATH_TRACING_EXPORTER", ExporterStdout)),
		Endpoint:    os.Getenv("WELLPATH_OTLP_ENDPOINT"),
		Path:        os.Getenv("WELLPATH_TRACING_FILE"),
		SampleRatio: 1,
	}
	if raw := os.Getenv("WELLPATH_TRACING_SAMPLE_RATIO"); raw != "" {
		if r, err := strconv.ParseFloat(raw, 64); err == nil && r >= 0 && r <= 1 {
			cfg.SampleRatio = r
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitTracing installs the global tracer provider for a run. When tracing is
// disabled a noop provider is installed so spans cost nothing. The returned
// function flushes pending spans and releases exporter resources.
func InitTracing(ctx context.Context, cfg TracingConfig, log logging.Logger) (func(context.Context) error, error) {
	if log == nil {
		log = logging.Noop()
	}
	otel.SetTextMapPropagator(propagation.TraceContext{})

	if !cfg.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	exp, closer, err := newSpanExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.namespace", "wellpath"),
	))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create resource: %w", err), closer())
	}

	// Local exporters flush each span as it ends; a run is short enough
	// that batching only matters for the network exporter.
	processor := sdktrace.WithSyncer(exp)
	if cfg.Exporter == ExporterOTLP {
		processor = sdktrace.WithBatcher(exp)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(res),
		processor,
	)
	otel.SetTracerProvider(tp)

	log.Debug(ctx, "tracing enabled",
		logging.String("exporter", cfg.Exporter),
		logging.String("service_name", cfg.ServiceName),
		logging.Float64("sample_ratio", cfg.SampleRatio),
	)

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), closer())
	}, nil
}

// newSpanExporter builds the exporter named by cfg.Exporter together with a
// function releasing anything it opened.
func newSpanExporter(ctx context.Context, cfg TracingConfig) (sdktrace.SpanExporter, func() error, error) {
	nothing := func() error { return nil }

	switch cfg.Exporter {
	case ExporterStdout, "":
		w := cfg.Writer
		if w == nil {
			w = os.Stderr
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		return exp, nothing, err

	case ExporterFile:
		if cfg.Path == "" {
			return nil, nil, errors.New("file span exporter needs WELLPATH_TRACING_FILE")
		}
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open span file: %w", err)
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(f))
		if err != nil {
			_ = f.Close()
			return nil, nil, err
		}
		return exp, f.Close, nil

	case ExporterOTLP:
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = defaultOTLPEndpoint
		}
		exp, err := otlptrace.New(ctx, otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		))
		return exp, nothing, err

	default:
		return nil, nil, fmt.Errorf("unsupported tracing exporter: %s", cfg.Exporter)
	}
}

// ShutdownWithTimeout runs shutdown with a five second deadline and logs any
// error instead of returning it.
func ShutdownWithTimeout(ctx context.Context, shutdown func(context.Context) error, log logging.Logger) {
	if shutdown == nil {
		return
	}
	if log == nil {
		log = logging.Noop()
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Warn(ctx, "tracing shutdown failed", logging.Err(err))
	}
}
