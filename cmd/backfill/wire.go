package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/clubops/clubfinance/internal/backfill"
	"github.com/clubops/clubfinance/internal/callups"
	"github.com/clubops/clubfinance/internal/competitions"
	"github.com/clubops/clubfinance/internal/events"
	"github.com/clubops/clubfinance/internal/invoices"
	"github.com/clubops/clubfinance/internal/ledger"
	"github.com/clubops/clubfinance/internal/movements"
	"github.com/clubops/clubfinance/internal/sponsors"
	"github.com/clubops/clubfinance/internal/stock"
	"github.com/clubops/clubfinance/pkg/calendar"
	"github.com/clubops/clubfinance/pkg/db"
	"github.com/clubops/clubfinance/pkg/logger"
	"github.com/clubops/clubfinance/pkg/metrics"
)

type wiring struct {
	Logger          *logger.Logger
	DB              *db.Client
	Lock            backfill.Lock
	Registerer      prometheus.Registerer
	Clock           calendar.Clock
	DueBusinessDays int
}

// buildService assembles the repositories, finance services and the four
// backfill passes into a runnable service.
func buildService(w wiring) (*backfill.Service, error) {
	if w.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	conn := w.DB.DB()

	invoiceSvc, err := invoices.NewService(invoices.NewRepository(conn))
	if err != nil {
		return nil, fmt.Errorf("invoice service: %w", err)
	}
	movementSvc, err := movements.NewService(movements.NewRepository(conn))
	if err != nil {
		return nil, fmt.Errorf("movement service: %w", err)
	}
	ledgerSvc, err := ledger.NewService(ledger.NewRepository(conn))
	if err != nil {
		return nil, fmt.Errorf("ledger service: %w", err)
	}

	passes, err := buildPasses(w, conn, invoiceSvc, movementSvc, ledgerSvc)
	if err != nil {
		return nil, err
	}

	return backfill.NewService(backfill.ServiceParams{
		Logger:   w.Logger,
		Registry: backfill.NewRegistry(passes...),
		Lock:     w.Lock,
		Metrics:  metrics.NewBackfillMetrics(w.Registerer),
	})
}

func buildPasses(w wiring, conn *gorm.DB, invoiceSvc invoices.Service, movementSvc movements.Service, ledgerSvc ledger.Service) ([]backfill.Pass, error) {
	registrations, err := backfill.NewRegistrationsPass(backfill.RegistrationsPassParams{
		Logger:          w.Logger,
		DB:              w.DB,
		Source:          competitions.NewRepository(conn),
		Invoices:        invoiceSvc,
		Ledger:          ledgerSvc,
		Clock:           w.Clock,
		DueBusinessDays: w.DueBusinessDays,
	})
	if err != nil {
		return nil, fmt.Errorf("registrations pass: %w", err)
	}

	sales, err := backfill.NewSalesPass(backfill.SalesPassParams{
		Logger:          w.Logger,
		DB:              w.DB,
		Source:          stock.NewRepository(conn),
		Invoices:        invoiceSvc,
		Ledger:          ledgerSvc,
		Clock:           w.Clock,
		DueBusinessDays: w.DueBusinessDays,
	})
	if err != nil {
		return nil, fmt.Errorf("sales pass: %w", err)
	}

	sponsorships, err := backfill.NewSponsorshipsPass(backfill.SponsorshipsPassParams{
		Logger:    w.Logger,
		DB:        w.DB,
		Source:    sponsors.NewRepository(conn),
		Movements: movementSvc,
		Ledger:    ledgerSvc,
		Clock:     w.Clock,
	})
	if err != nil {
		return nil, fmt.Errorf("sponsorships pass: %w", err)
	}

	callUps, err := backfill.NewCallUpsPass(backfill.CallUpsPassParams{
		Logger:          w.Logger,
		DB:              w.DB,
		Source:          callups.NewRepository(conn),
		Events:          events.NewRepository(conn),
		Movements:       movementSvc,
		Clock:           w.Clock,
		DueBusinessDays: w.DueBusinessDays,
	})
	if err != nil {
		return nil, fmt.Errorf("call-ups pass: %w", err)
	}

	return []backfill.Pass{registrations, sales, sponsorships, callUps}, nil
}
