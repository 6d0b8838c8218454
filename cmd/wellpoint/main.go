// Command wellpoint interpolates wellbore positions at measured depths from a
// directional survey and prints them as a JSON array on stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/signalsfoundry/wellpath/core"
	"github.com/signalsfoundry/wellpath/internal/geodesy"
	"github.com/signalsfoundry/wellpath/internal/logging"
	"github.com/signalsfoundry/wellpath/internal/observability"
	"github.com/signalsfoundry/wellpath/internal/survey"
	"github.com/signalsfoundry/wellpath/internal/trajectory"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "wellpoint: %v\n", err)
		return exitUsage
	}

	logCfg := logging.ConfigFromEnv()
	logCfg.Output = stderr
	if opts.debug {
		logCfg.Level = "debug"
	}
	ctx, log := logging.WithRunLogger(ctx, logging.New(logCfg))

	tracingCfg := observability.TracingConfigFromEnv()
	tracingCfg.Writer = stderr
	shutdown, err := observability.InitTracing(ctx, tracingCfg, log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Err(err))
		return exitFailure
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdown, log)

	collector, err := observability.NewTrajectoryCollector(prometheus.NewRegistry())
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.Err(err))
		return exitFailure
	}

	header, err := opts.wellHeader()
	if err != nil {
		log.Error(ctx, "failed to load well header", logging.String("path", opts.configPath), logging.Err(err))
		return exitFailure
	}

	stations, err := survey.ReadFile(opts.surveyPath)
	if err != nil {
		log.Error(ctx, "failed to read survey", logging.String("path", opts.surveyPath), logging.Err(err))
		return exitFailure
	}
	table, err := core.LoadStationTable(stations)
	if err != nil {
		log.Error(ctx, "invalid survey", logging.String("path", opts.surveyPath), logging.Err(err))
		return exitFailure
	}

	svcOpts := []trajectory.ServiceOption{
		trajectory.WithMetricsRecorder(collector),
		trajectory.WithWorkers(opts.workers),
	}
	georeferenced := header.WKID != "" && header.HasHorizontalOrigin()
	if georeferenced {
		provider := geodesy.NewProvider()
		defer provider.Close()
		svcOpts = append(svcOpts, trajectory.WithCRSProvider(provider))
	}
	svc := trajectory.NewService(table, log, svcOpts...)

	batch, err := svc.Interpolate(ctx, trajectory.Request{
		MDs:               opts.mds,
		AzimuthAdjustment: header.Adjustment(),
		Origin:            header.Origin(),
		Georeferenced:     georeferenced,
		CRSID:             header.WKID,
	})
	if err != nil {
		log.Error(ctx, "interpolation failed", logging.Err(err))
		return exitFailure
	}

	if err := writeBatch(stdout, batch); err != nil {
		log.Error(ctx, "failed to write output", logging.Err(err))
		return exitFailure
	}
	log.Info(ctx, "interpolated measured depths",
		logging.Int("points", len(batch.Results)),
		logging.Int("failed", batch.Failed()),
		logging.Bool("geographic", batch.Geographic),
	)

	if err := collector.WriteTextfile(opts.metricsTextfile); err != nil {
		log.Error(ctx, "failed to write metrics", logging.Err(err))
		return exitFailure
	}
	return exitOK
}
