package backfill

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/clubops/clubfinance/internal/competitions"
	"github.com/clubops/clubfinance/internal/invoices"
	"github.com/clubops/clubfinance/internal/ledger"
	"github.com/clubops/clubfinance/pkg/calendar"
	"github.com/clubops/clubfinance/pkg/db/models"
	"github.com/clubops/clubfinance/pkg/enums"
	"github.com/clubops/clubfinance/pkg/logger"
)

// RegistrationsPassParams wire the registration invoicing pass.
type RegistrationsPassParams struct {
	Logger          *logger.Logger
	DB              txRunner
	Source          competitions.Repository
	Invoices        invoices.Service
	Ledger          ledger.Service
	Clock           calendar.Clock
	DueBusinessDays int
}

type registrationsPass struct {
	passCommon
	source   competitions.Repository
	invoices invoices.Service
	ledger   ledger.Service
}

// NewRegistrationsPass builds the pass that invoices race registrations.
func NewRegistrationsPass(params RegistrationsPassParams) (Pass, error) {
	common, err := newPassCommon(params.Logger, params.DB, params.Clock, params.DueBusinessDays)
	if err != nil {
		return nil, err
	}
	if params.Source == nil {
		return nil, fmt.Errorf("competitions repository required")
	}
	if params.Invoices == nil {
		return nil, fmt.Errorf("invoice service required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	return &registrationsPass{
		passCommon: common,
		source:     params.Source,
		invoices:   params.Invoices,
		ledger:     params.Ledger,
	}, nil
}

func (p *registrationsPass) Name() string { return SectionRegistrations }

func (p *registrationsPass) Run(ctx context.Context, opts Options) (Result, error) {
	result := Result{Section: SectionRegistrations}
	regs, err := p.source.ListUninvoicedRegistrations(ctx, opts.Limit)
	if err != nil {
		return result, dependencyError(err, "list uninvoiced registrations")
	}
	for _, reg := range regs {
		out, err := p.process(ctx, reg, opts.DryRun)
		if err != nil {
			return result, err
		}
		p.tally(ctx, &result, reg.ID, out)
	}
	return result, nil
}

func (p *registrationsPass) process(ctx context.Context, reg models.Registration, dryRun bool) (outcome, error) {
	if reg.AthleteID == nil {
		return skip("registration has no athlete"), nil
	}
	chain, err := p.source.FindRaceChain(ctx, reg.RaceID)
	if err != nil {
		return outcome{}, dependencyError(err, "resolve race chain")
	}
	if chain == nil {
		return skip("race, competition or event missing"), nil
	}

	fee := firstSet(reg.Fee, chain.Event.EntryFee)
	if fee.IsNegative() {
		return skip("registration fee is negative"), nil
	}
	if dryRun {
		return created, nil
	}

	athleteID := *reg.AthleteID
	origin := models.NewOrigin(enums.OriginTypeEvent, reg.RaceID)
	issued := p.now()
	description := fmt.Sprintf("Registration: %s / %s", chain.Event.Title, chain.Race.Name)

	err = p.db.WithTx(ctx, func(tx *gorm.DB) error {
		invoice, err := p.invoices.Create(ctx, tx, invoices.CreateInput{
			UserID:   athleteID,
			IssuedAt: issued,
			DueAt:    p.dueDate(issued),
			Type:     enums.InvoiceTypeRegistration,
			Status:   enums.PaymentStatusPending,
			Origin:   origin,
			Items: []invoices.ItemInput{
				{Description: description, Quantity: 1, UnitPrice: fee},
			},
		})
		if err != nil {
			return err
		}
		if fee.IsPositive() {
			if _, err := p.ledger.RecordEntry(ctx, tx, ledger.RecordEntryInput{
				EntryDate:   issued,
				Description: description,
				Category:    enums.EntryCategoryRegistration,
				Kind:        enums.MovementClassificationIncome,
				Amount:      fee,
				UserID:      &athleteID,
				Origin:      origin,
			}); err != nil {
				return err
			}
		}
		return p.source.WithTx(tx).LinkInvoice(ctx, reg.ID, invoice.ID)
	})
	return settle(err, "registration")
}
