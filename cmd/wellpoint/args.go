package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/signalsfoundry/wellpath/internal/config"
)

// errUsage marks argument problems that exit with status 2.
var errUsage = errors.New("usage")

type options struct {
	header          config.WellHeader
	configPath      string
	debug           bool
	workers         int
	metricsTextfile string

	mds        []float64
	surveyPath string
}

// optionalFloat is a flag.Value that records whether it was set.
type optionalFloat struct {
	dst **float64
}

func (f optionalFloat) String() string {
	if f.dst == nil || *f.dst == nil {
		return ""
	}
	return strconv.FormatFloat(**f.dst, 'g', -1, 64)
}

func (f optionalFloat) Set(s string) error {
	v, err := parseFinite(s)
	if err != nil {
		return err
	}
	*f.dst = &v
	return nil
}

func newFlagSet(opts *options, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("wellpoint", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: wellpoint [flags] <md[,md...]> <survey.csv>")
		fmt.Fprintln(fs.Output(), "\nInterpolate wellbore positions at measured depths using minimum curvature.")
		fmt.Fprintln(fs.Output(), "\nflags:")
		fs.PrintDefaults()
	}

	for _, name := range []string{"w", "wkid"} {
		fs.StringVar(&opts.header.WKID, name, "", "CRS identifier of x0/y0, e.g. 25832 or EPSG:25832")
	}
	for _, name := range []string{"x", "x0"} {
		fs.Var(optionalFloat{&opts.header.X0}, name, "easting of the first survey station")
	}
	for _, name := range []string{"y", "y0"} {
		fs.Var(optionalFloat{&opts.header.Y0}, name, "northing of the first survey station")
	}
	for _, name := range []string{"z", "z0"} {
		fs.Var(optionalFloat{&opts.header.Z0}, name, "elevation of the first survey station")
	}
	for _, name := range []string{"a", "azi_adj"} {
		fs.Var(optionalFloat{&opts.header.AzimuthAdjustment}, name, "azimuth adjustment in degrees added to every azimuth")
	}
	for _, name := range []string{"d", "debug"} {
		fs.BoolVar(&opts.debug, name, false, "enable debug logging")
	}
	fs.StringVar(&opts.configPath, "config", "", "YAML well header; flags override its values")
	fs.IntVar(&opts.workers, "workers", 0, "points computed concurrently (default GOMAXPROCS)")
	fs.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file on exit")
	return fs
}

// parseArgs parses flags and the two positionals, which may be interleaved.
// flag.ErrHelp is returned untouched; every other failure wraps errUsage.
func parseArgs(args []string, output io.Writer) (*options, error) {
	opts := &options{}
	fs := newFlagSet(opts, output)

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		rest := fs.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}

	if len(positional) != 2 {
		return nil, fmt.Errorf("%w: expected <md[,md...]> <survey.csv>, got %d positional arguments", errUsage, len(positional))
	}
	mds, err := parseMDs(positional[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	if opts.workers < 0 {
		return nil, fmt.Errorf("%w: -workers must not be negative", errUsage)
	}
	opts.mds = mds
	opts.surveyPath = positional[1]
	return opts, nil
}

// parseMDs splits a comma separated list of measured depths.
func parseMDs(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	mds := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("empty measured depth in %q", raw)
		}
		md, err := parseFinite(p)
		if err != nil {
			return nil, fmt.Errorf("measured depth: %w", err)
		}
		mds = append(mds, md)
	}
	return mds, nil
}

// parseFinite parses a float and rejects NaN and infinities, which cannot be
// written as JSON.
func parseFinite(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", raw)
	}
	return v, nil
}

// wellHeader merges the optional config file under the command-line values.
func (o *options) wellHeader() (config.WellHeader, error) {
	if o.configPath == "" {
		return o.header, nil
	}
	file, err := config.Load(o.configPath)
	if err != nil {
		return config.WellHeader{}, err
	}
	return file.Merge(o.header), nil
}
