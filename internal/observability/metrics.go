package observability

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Point outcomes recorded by RecordPoint.
const (
	OutcomeOK              = "ok"
	OutcomeOutOfRange      = "out_of_range"
	OutcomeProjectionError = "projection_error"
)

// TrajectoryCollector bundles Prometheus metrics for trajectory interpolation.
type TrajectoryCollector struct {
	gatherer prometheus.Gatherer

	PointsTotal        *prometheus.CounterVec
	BatchDuration      prometheus.Histogram
	SurveyStations     prometheus.Gauge
	ProjectionFailures *prometheus.CounterVec
}

// NewTrajectoryCollector registers interpolation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewTrajectoryCollector(reg prometheus.Registerer) (*TrajectoryCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	points, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wellpath_points_total",
		Help: "Interpolated points, labeled by outcome.",
	}, []string{"outcome"}), "wellpath_points_total")
	if err != nil {
		return nil, err
	}

	batch, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wellpath_batch_duration_seconds",
		Help:    "Wall time to interpolate, transform and project one batch of measured depths.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}), "wellpath_batch_duration_seconds")
	if err != nil {
		return nil, err
	}

	stations, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wellpath_survey_stations",
		Help: "Number of stations in the loaded survey.",
	}), "wellpath_survey_stations")
	if err != nil {
		return nil, err
	}

	projFailures, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wellpath_projection_failures_total",
		Help: "Geographic projection failures, labeled by source CRS.",
	}, []string{"crs"}), "wellpath_projection_failures_total")
	if err != nil {
		return nil, err
	}

	return &TrajectoryCollector{
		gatherer:           gatherer,
		PointsTotal:        points,
		BatchDuration:      batch,
		SurveyStations:     stations,
		ProjectionFailures: projFailures,
	}, nil
}

// RecordPoint counts one point with the given outcome.
func (c *TrajectoryCollector) RecordPoint(outcome string) {
	if c == nil || c.PointsTotal == nil {
		return
	}
	c.PointsTotal.WithLabelValues(outcome).Inc()
}

// RecordProjectionFailure counts a projection failure for crs.
func (c *TrajectoryCollector) RecordProjectionFailure(crs string) {
	if c == nil || c.ProjectionFailures == nil {
		return
	}
	c.ProjectionFailures.WithLabelValues(crs).Inc()
}

// ObserveBatch records a batch duration.
func (c *TrajectoryCollector) ObserveBatch(d time.Duration) {
	if c == nil || c.BatchDuration == nil {
		return
	}
	c.BatchDuration.Observe(d.Seconds())
}

// SetSurveyStations updates the station count gauge.
func (c *TrajectoryCollector) SetSurveyStations(n int) {
	if c == nil || c.SurveyStations == nil {
		return
	}
	c.SurveyStations.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler for embedding callers.
func (c *TrajectoryCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current metrics in the node_exporter textfile
// collector format. The file is written atomically.
func (c *TrajectoryCollector) WriteTextfile(path string) error {
	if c == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}

// register adds c to reg. If an equivalent collector is already registered
// that one is returned instead, so repeated construction against one
// registry shares series.
func register[C prometheus.Collector](reg prometheus.Registerer, c C, name string) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var zero C
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return zero, err
	}
	existing, ok := are.ExistingCollector.(C)
	if !ok {
		return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
	}
	return existing, nil
}
