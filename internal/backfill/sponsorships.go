package backfill

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/clubops/clubfinance/internal/ledger"
	"github.com/clubops/clubfinance/internal/movements"
	"github.com/clubops/clubfinance/internal/sponsors"
	"github.com/clubops/clubfinance/pkg/calendar"
	"github.com/clubops/clubfinance/pkg/db/models"
	"github.com/clubops/clubfinance/pkg/enums"
	"github.com/clubops/clubfinance/pkg/logger"
)

const unnamedSponsor = "Unnamed sponsor"

// SponsorshipsPassParams wire the sponsorship ledger pass.
type SponsorshipsPassParams struct {
	Logger    *logger.Logger
	DB        txRunner
	Source    sponsors.Repository
	Movements movements.Service
	Ledger    ledger.Service
	Clock     calendar.Clock
}

type sponsorshipsPass struct {
	passCommon
	source    sponsors.Repository
	movements movements.Service
	ledger    ledger.Service
}

// NewSponsorshipsPass builds the pass that records sponsorship income.
func NewSponsorshipsPass(params SponsorshipsPassParams) (Pass, error) {
	common, err := newPassCommon(params.Logger, params.DB, params.Clock, 0)
	if err != nil {
		return nil, err
	}
	if params.Source == nil {
		return nil, fmt.Errorf("sponsors repository required")
	}
	if params.Movements == nil {
		return nil, fmt.Errorf("movement service required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	return &sponsorshipsPass{
		passCommon: common,
		source:     params.Source,
		movements:  params.Movements,
		ledger:     params.Ledger,
	}, nil
}

func (p *sponsorshipsPass) Name() string { return SectionSponsorships }

func (p *sponsorshipsPass) Run(ctx context.Context, opts Options) (Result, error) {
	result := Result{Section: SectionSponsorships}
	rows, err := p.source.ListUnrecordedSponsorships(ctx, opts.Limit)
	if err != nil {
		return result, dependencyError(err, "list unrecorded sponsorships")
	}
	for _, row := range rows {
		out, err := p.process(ctx, row, opts.DryRun)
		if err != nil {
			return result, err
		}
		p.tally(ctx, &result, row.ID, out)
	}
	return result, nil
}

func (p *sponsorshipsPass) process(ctx context.Context, row sponsors.SponsorshipRow, dryRun bool) (outcome, error) {
	amount := firstSet(row.AnnualValue)
	if amount.IsNegative() {
		return skip("sponsorship value is negative"), nil
	}

	origin := models.NewOrigin(enums.OriginTypeSponsorship, row.ID)
	if dryRun {
		exists, err := p.movements.ExistsForOrigin(ctx, nil, origin)
		if err != nil {
			return outcome{}, dependencyError(err, "check sponsorship movement")
		}
		if exists {
			return skip("sponsorship already linked"), nil
		}
		return created, nil
	}

	emitted := p.now()
	if row.StartsAt != nil {
		emitted = *row.StartsAt
	}
	sponsorName := row.DisplayName(unnamedSponsor)
	description := fmt.Sprintf("Sponsorship: %s", sponsorName)

	err := p.db.WithTx(ctx, func(tx *gorm.DB) error {
		exists, err := p.movements.ExistsForOrigin(ctx, tx, origin)
		if err != nil {
			return err
		}
		if exists {
			return errAlreadyLinked
		}
		if _, err := p.movements.Create(ctx, tx, movements.CreateInput{
			PayerName:      strPtr(sponsorName),
			Classification: enums.MovementClassificationIncome,
			Type:           enums.MovementTypeSponsorship,
			Status:         enums.PaymentStatusPaid,
			IssuedAt:       emitted,
			Amount:         amount,
			Origin:         origin,
			Items: []movements.ItemInput{
				{Description: description, Quantity: 1, UnitPrice: amount},
			},
		}); err != nil {
			return err
		}
		if amount.IsPositive() {
			if _, err := p.ledger.RecordEntry(ctx, tx, ledger.RecordEntryInput{
				EntryDate:     emitted,
				Description:   description,
				Category:      enums.EntryCategorySponsorship,
				Kind:          enums.MovementClassificationIncome,
				Amount:        amount,
				PaymentMethod: enums.PaymentMethodBankTransfer.String(),
				Origin:        origin,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return settle(err, "sponsorship")
}
