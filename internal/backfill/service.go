package backfill

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	pkgerrors "github.com/clubops/clubfinance/pkg/errors"
	"github.com/clubops/clubfinance/pkg/logger"
	"github.com/clubops/clubfinance/pkg/metrics"
)

// ServiceParams configure the backfill service.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.BackfillMetrics
}

// Service runs the registered passes one after the other.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.BackfillMetrics
}

// NewService builds a backfill service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	lock := params.Lock
	if lock == nil {
		lock = NoopLock{}
	}
	return &Service{
		logg:     params.Logger,
		registry: registry,
		lock:     lock,
		metrics:  params.Metrics,
	}, nil
}

// Run executes every selected pass in section order. Skipped records never
// fail a run; the first pass error stops it and is returned together with the
// results gathered so far.
func (s *Service) Run(ctx context.Context, opts Options) (report Report, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := opts.Validate(); err != nil {
		return Report{}, err
	}

	report = Report{RunID: uuid.NewString(), DryRun: opts.DryRun}
	ctx = s.logg.WithRunID(ctx, report.RunID)
	ctx = s.logg.WithFields(ctx, map[string]any{"dry_run": opts.DryRun, "limit": opts.Limit})

	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return report, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire backfill lock")
	}
	if !locked {
		s.logg.Warn(ctx, "another backfill is running; skipping this run")
		report.LockHeld = true
		return report, nil
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "failed to release backfill lock", relErr)
			err = multierr.Append(err, pkgerrors.Wrap(pkgerrors.CodeDependency, relErr, "release backfill lock"))
		}
	}()

	s.logg.Info(ctx, "backfill starting")
	for _, pass := range s.registry.Passes() {
		if !opts.includes(pass.Name()) {
			continue
		}
		result, passErr := s.runPass(ctx, pass, opts)
		report.Results = append(report.Results, result)
		if passErr != nil {
			return report, passErr
		}
	}
	s.logg.Info(ctx, "backfill complete")
	return report, nil
}

func (s *Service) runPass(ctx context.Context, pass Pass, opts Options) (Result, error) {
	passCtx := s.logg.WithSection(ctx, pass.Name())
	s.logg.Info(passCtx, "section start")
	start := time.Now()
	result, err := pass.Run(passCtx, opts)
	duration := time.Since(start)
	if result.Section == "" {
		result.Section = pass.Name()
	}

	s.metrics.ObserveDuration(pass.Name(), duration)
	s.metrics.AddCounts(pass.Name(), result.Created, result.Skipped)

	passCtx = s.logg.WithFields(passCtx, map[string]any{
		"created":     result.Created,
		"skipped":     result.Skipped,
		"duration_ms": duration.Milliseconds(),
	})
	if err != nil {
		s.logg.Error(s.logg.WithField(passCtx, "error_dump", pkgerrors.Dump(err)), "section failed", err)
		s.metrics.IncFailure(pass.Name())
		return result, err
	}
	s.logg.Info(passCtx, "section completed")
	return result, nil
}
