package backfill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clubops/clubfinance/pkg/calendar"
	"github.com/clubops/clubfinance/pkg/db"
	pkgerrors "github.com/clubops/clubfinance/pkg/errors"
	"github.com/clubops/clubfinance/pkg/logger"
)

const defaultDueBusinessDays = 8

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// errAlreadyLinked aborts a record's transaction when another writer produced
// its financial counterpart first.
var errAlreadyLinked = errors.New("source record already linked")

// outcome is the fate of one source record.
type outcome struct {
	created bool
	reason  string
}

var created = outcome{created: true}

func skip(reason string) outcome {
	return outcome{reason: reason}
}

// passCommon carries the collaborators every pass shares.
type passCommon struct {
	logg    *logger.Logger
	db      txRunner
	now     calendar.Clock
	dueDays int
}

func newPassCommon(logg *logger.Logger, runner txRunner, clock calendar.Clock, dueDays int) (passCommon, error) {
	if logg == nil {
		return passCommon{}, fmt.Errorf("logger required")
	}
	if runner == nil {
		return passCommon{}, fmt.Errorf("db runner required")
	}
	if clock == nil {
		clock = calendar.SystemClock
	}
	if dueDays <= 0 {
		dueDays = defaultDueBusinessDays
	}
	return passCommon{logg: logg, db: runner, now: clock, dueDays: dueDays}, nil
}

func (p passCommon) dueDate(issued time.Time) time.Time {
	return calendar.AddBusinessDays(issued, p.dueDays)
}

// tally folds an outcome into result and logs skips with their reason.
func (p passCommon) tally(ctx context.Context, result *Result, recordID uuid.UUID, out outcome) {
	if out.created {
		result.Created++
		return
	}
	result.Skipped++
	logCtx := p.logg.WithField(p.logg.WithRecordID(ctx, recordID.String()), "reason", out.reason)
	p.logg.Info(logCtx, "record skipped")
}

// settle maps the error of a record's transaction to an outcome. Lost races
// against another writer are skips; anything else stops the run.
func settle(err error, what string) (outcome, error) {
	switch {
	case err == nil:
		return created, nil
	case errors.Is(err, errAlreadyLinked), errors.Is(err, gorm.ErrRecordNotFound):
		return skip(what + " already linked"), nil
	case db.IsUniqueViolation(err, ""):
		return skip(what + " linked concurrently"), nil
	case pkgerrors.As(err) != nil:
		return outcome{}, err
	default:
		return outcome{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write "+what)
	}
}

func dependencyError(err error, action string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

func strPtr(s string) *string {
	return &s
}
