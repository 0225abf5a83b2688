package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zinspect/zinspect/internal/archive"
	"github.com/zinspect/zinspect/internal/config"
	"github.com/zinspect/zinspect/internal/dispatch"
	"github.com/zinspect/zinspect/internal/errors"
	"github.com/zinspect/zinspect/internal/logger"
	"github.com/zinspect/zinspect/internal/parsers"
	"github.com/zinspect/zinspect/internal/report"
	"github.com/zinspect/zinspect/internal/status"
	"github.com/zinspect/zinspect/internal/ui"
)

// parsedBundle is one bundle read, version-checked and dispatched.
type parsedBundle struct {
	Path             string
	CollectorVersion string
	Result           *dispatch.Result
}

// parseBundle runs the archive → version gate → dispatch pipeline under
// cfg's limits.
func parseBundle(ctx context.Context, cfg *config.Config, path string, log logger.Logger) (*parsedBundle, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	members, err := archive.Open(path, cfg.MaxBundleSize)
	if err != nil {
		return nil, err
	}

	b := &parsedBundle{Path: path}
	if cfg.SkipVersionCheck {
		log.Debug("collector version check skipped")
	} else {
		b.CollectorVersion, err = archive.ValidateCollectorVersion(members, cfg.MinCollectorVersion)
		if err != nil {
			return nil, err
		}
	}

	d := dispatch.New(dispatch.Options{
		Parsers: parsers.Options{ProcessMarker: cfg.ProcessMarker, Logger: log},
		Workers: cfg.ParseWorkers,
		Logger:  log,
	})
	b.Result, err = d.Run(ctx, members)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.WrapWithCode(err, errors.ErrInput,
				fmt.Sprintf("Parsing %s took longer than %s", filepath.Base(path), cfg.Timeout),
				"Raise timeout in .zinspect.yaml or set it to 0 to disable")
		}
		return nil, err
	}
	for _, name := range b.Result.Ignored {
		log.Debug("ignored member %s", name)
	}
	return b, nil
}

// loadBundle is parseBundle with a progress spinner on interactive stderr.
func loadBundle(ctx context.Context, cfg *config.Config, path string) (*parsedBundle, error) {
	log := logger.Default()
	if machineMode || verbose || !ui.IsTerminal(os.Stderr.Fd()) {
		return parseBundle(ctx, cfg, path, log)
	}

	spin := ui.NewSpinner("Parsing "+filepath.Base(path), os.Stderr)
	spin.Start()
	b, err := parseBundle(ctx, cfg, path, log)
	if err != nil {
		spin.Fail(err)
		return nil, err
	}
	spin.Finish(status.Good, fmt.Sprintf("%d fields", len(b.Result.Dataset.Fields())))
	return b, nil
}

// buildReport classifies a parsed bundle against cfg's thresholds.
func buildReport(cfg *config.Config, b *parsedBundle) *report.Report {
	return report.Build(b.Result.Dataset, report.Options{
		Bundle:           filepath.Base(b.Path),
		CollectorVersion: b.CollectorVersion,
		Thresholds:       &cfg.Thresholds,
		Now:              time.Now,
	})
}
