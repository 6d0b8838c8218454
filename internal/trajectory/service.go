// Package trajectory answers batches of measured-depth queries against a
// loaded survey: minimum-curvature interpolation, azimuth correction and
// origin translation, then optional projection to WGS84.
package trajectory

import (
	"context"
	"errors"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/signalsfoundry/wellpath/core"
	"github.com/signalsfoundry/wellpath/internal/logging"
	"github.com/signalsfoundry/wellpath/internal/observability"
	"github.com/signalsfoundry/wellpath/model"
)

const tracerName = "github.com/signalsfoundry/wellpath/internal/trajectory"

// ErrNoDepths is returned when a request carries no measured depths.
var ErrNoDepths = errors.New("no measured depths requested")

// MetricsRecorder receives interpolation outcomes. It is satisfied by
// *observability.TrajectoryCollector.
type MetricsRecorder interface {
	RecordPoint(outcome string)
	RecordProjectionFailure(crs string)
	ObserveBatch(d time.Duration)
	SetSurveyStations(n int)
}

// ServiceOption configures optional Service collaborators.
type ServiceOption func(*Service)

// WithMetricsRecorder attaches a metrics recorder.
func WithMetricsRecorder(m MetricsRecorder) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCRSProvider attaches the provider used for geographic output.
func WithCRSProvider(p core.CRSProvider) ServiceOption {
	return func(s *Service) {
		s.provider = p
	}
}

// WithWorkers bounds the number of points computed concurrently. Values
// below 1 fall back to GOMAXPROCS.
func WithWorkers(n int) ServiceOption {
	return func(s *Service) {
		s.workers = n
	}
}

// Request is one batch of measured-depth queries.
type Request struct {
	MDs               []float64
	AzimuthAdjustment float64
	Origin            model.Origin

	// Georeferenced reports that Origin.X/Y are absolute coordinates in
	// CRSID. Geographic output needs both.
	Georeferenced bool
	CRSID         string
}

// Result is the outcome for a single requested measured depth. When Err is
// an out-of-range error Point holds only MD; when it is a projection error
// Point carries valid x/y/z without Geo.
type Result struct {
	MD    float64
	Point model.Point
	Err   error
}

// Batch is the ordered answer to a Request.
type Batch struct {
	Results []Result

	// Geographic is true when lat/lon were requested and a projector was
	// resolved; CRSID is then its canonical identifier.
	Geographic bool
	CRSID      string
}

// Failed returns the number of results carrying an error.
func (b *Batch) Failed() int {
	n := 0
	for _, r := range b.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Service evaluates requests against a single survey. It holds no mutable
// state and may serve concurrent requests.
type Service struct {
	solver   *core.Solver
	provider core.CRSProvider
	metrics  MetricsRecorder
	workers  int
	log      logging.Logger
	tracer   trace.Tracer
}

// NewService builds a Service for table.
func NewService(table *core.StationTable, log logging.Logger, opts ...ServiceOption) *Service {
	if log == nil {
		log = logging.Noop()
	}
	s := &Service{
		solver: core.NewSolver(table),
		log:    log,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	if s.metrics != nil {
		s.metrics.SetSurveyStations(table.Len())
	}

	log.Debug(context.Background(), "survey loaded",
		logging.Int("stations", table.Len()),
		logging.Float64("min_md", table.MinMD()),
		logging.Float64("max_md", table.MaxMD()),
	)
	return s
}

// Solver exposes the underlying minimum-curvature solver.
func (s *Service) Solver() *core.Solver { return s.solver }

// Interpolate answers req. Per-point failures (out-of-range depths,
// projection rejections) are reported on the corresponding Result and do not
// stop the batch. Request-level problems (no depths, unresolvable CRS,
// cancelled context) fail the whole call.
func (s *Service) Interpolate(ctx context.Context, req Request) (*Batch, error) {
	ctx, span := s.tracer.Start(ctx, "trajectory.Interpolate", trace.WithAttributes(
		attribute.Int("wellpath.md_count", len(req.MDs)),
		attribute.Float64("wellpath.azimuth_adjustment", req.AzimuthAdjustment),
		attribute.String("wellpath.crs", req.CRSID),
		attribute.Int("wellpath.workers", s.workers),
	))
	defer span.End()

	start := time.Now()
	batch, err := s.interpolate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveBatch(time.Since(start))
	}
	span.SetAttributes(attribute.Int("wellpath.failed_points", batch.Failed()))
	return batch, nil
}

func (s *Service) interpolate(ctx context.Context, req Request) (*Batch, error) {
	if len(req.MDs) == 0 {
		return nil, ErrNoDepths
	}

	projector, err := s.projector(ctx, req)
	if err != nil {
		return nil, err
	}

	tr := core.NewTransformer(req.AzimuthAdjustment, req.Origin)
	if adj := tr.AzimuthAdjustment(); adj != 0 {
		s.log.Debug(ctx, "rotating offsets to grid north", logging.Float64("azimuth_adjustment", adj))
	}
	results := make([]Result, len(req.MDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, md := range req.MDs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.evaluate(md, tr, projector)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &Batch{Results: results}
	if projector != nil {
		batch.Geographic = true
		batch.CRSID = projector.CRSID()
	}
	s.report(ctx, batch)
	return batch, nil
}

func (s *Service) projector(ctx context.Context, req Request) (*core.GeodeticProjector, error) {
	if req.CRSID == "" {
		return nil, nil
	}
	if !req.Georeferenced {
		s.log.Warn(ctx, "CRS supplied without an x0/y0 origin; lat/lon cannot be determined",
			logging.String("crs", req.CRSID),
		)
		return nil, nil
	}

	_, span := s.tracer.Start(ctx, "trajectory.ResolveCRS", trace.WithAttributes(
		attribute.String("wellpath.crs", req.CRSID),
	))
	defer span.End()

	projector, err := core.NewGeodeticProjector(s.provider, req.CRSID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Error(ctx, "could not create a transformation to WGS84",
			logging.String("crs", req.CRSID),
			logging.Err(err),
		)
		return nil, err
	}
	s.log.Debug(ctx, "projecting XY coordinates to WGS84", logging.String("crs", projector.CRSID()))
	return projector, nil
}

func (s *Service) evaluate(md float64, tr core.Transformer, projector *core.GeodeticProjector) Result {
	off, err := s.solver.OffsetAt(md)
	if err != nil {
		return Result{MD: md, Point: model.Point{MD: md}, Err: err}
	}
	res := Result{MD: md, Point: tr.Apply(md, off)}
	if projector == nil {
		return res
	}
	ll, err := projector.Project(res.Point.X, res.Point.Y)
	if err != nil {
		res.Err = err
		return res
	}
	res.Point.Geo = &ll
	return res
}

// report logs and counts outcomes in request order.
func (s *Service) report(ctx context.Context, batch *Batch) {
	for _, r := range batch.Results {
		outcome := outcomeOf(r.Err)
		if s.metrics != nil {
			s.metrics.RecordPoint(outcome)
			if outcome == observability.OutcomeProjectionError {
				s.metrics.RecordProjectionFailure(batch.CRSID)
			}
		}
		if r.Err != nil {
			s.log.Error(ctx, "could not interpolate point",
				logging.Float64("md", r.MD),
				logging.String("outcome", outcome),
				logging.Err(r.Err),
			)
			continue
		}
		s.log.Debug(ctx, "interpolated point",
			logging.Float64("md", r.MD),
			logging.Float64("x", r.Point.X),
			logging.Float64("y", r.Point.Y),
			logging.Float64("z", r.Point.Z),
		)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, core.ErrOutOfRange):
		return observability.OutcomeOutOfRange
	default:
		return observability.OutcomeProjectionError
	}
}
