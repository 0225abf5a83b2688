// Package dispatch routes bundle members to their parsers and assembles the
// DiagnosticDataset.
//
// Routing is by filename fragment: the first fragment in priority order that
// the member name contains selects the parser. Members are parsed in
// parallel, but results are applied in archive order, so when several
// members match the same fragment the last one in the archive wins.
package dispatch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zinspect/zinspect/internal/archive"
	"github.com/zinspect/zinspect/internal/dataset"
	"github.com/zinspect/zinspect/internal/logger"
	"github.com/zinspect/zinspect/internal/parsers"
)

// DefaultWorkers is the parse concurrency used when Options.Workers is unset.
const DefaultWorkers = 4

// Options configures a Dispatcher.
type Options struct {
	Parsers parsers.Options
	Workers int
	Logger  logger.Logger
}

// Result is the outcome of one dispatch run.
type Result struct {
	Dataset *dataset.DiagnosticDataset
	// Sources maps each populated dataset field to the member it came from.
	Sources map[string]string
	// Ignored lists file members no route matched, in archive order.
	Ignored []string
	Elapsed time.Duration
}

// Dispatcher parses bundle members into a dataset.
type Dispatcher struct {
	opts Options
	log  logger.Logger
}

// New creates a Dispatcher.
func New(opts Options) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	if opts.Parsers.Logger == nil {
		opts.Parsers.Logger = log
	}
	return &Dispatcher{opts: opts, log: log}
}

type job struct {
	member archive.Member
	route  Route
}

// Run parses members and returns the assembled dataset. The only error is
// ctx's, checked before each member is parsed.
func (d *Dispatcher) Run(ctx context.Context, members []archive.Member) (*Result, error) {
	start := time.Now()
	res := &Result{
		Dataset: &dataset.DiagnosticDataset{},
		Sources: make(map[string]string),
	}

	jobs := make([]job, 0, len(members))
	for _, m := range members {
		if m.IsDir {
			continue
		}
		r, ok := Match(m.Name)
		if !ok {
			res.Ignored = append(res.Ignored, m.Name)
			continue
		}
		jobs = append(jobs, job{member: m, route: r})
	}

	assigns := make([]assignFunc, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d.log.Debug("parsing %s as %s", j.member.Name, j.route.Field)
			assigns[i] = j.route.parse(j.member.Text, d.opts.Parsers)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, j := range jobs {
		if prev, ok := res.Sources[j.route.Field]; ok {
			d.log.Debug("%s replaces %s for %s", j.member.Name, prev, j.route.Field)
		}
		assigns[i](res.Dataset)
		res.Sources[j.route.Field] = j.member.Name
	}

	res.Elapsed = time.Since(start)
	d.log.Debug("parsed %d of %d members in %s", len(jobs), len(members), res.Elapsed)
	return res, nil
}

// Dispatch parses members with opts and returns only the dataset.
func Dispatch(ctx context.Context, members []archive.Member, opts Options) (*dataset.DiagnosticDataset, error) {
	res, err := New(opts).Run(ctx, members)
	if err != nil {
		return nil, err
	}
	return res.Dataset, nil
}
