package backfill

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/clubops/clubfinance/internal/callups"
	"github.com/clubops/clubfinance/internal/movements"
	"github.com/clubops/clubfinance/pkg/calendar"
	"github.com/clubops/clubfinance/pkg/db/models"
	"github.com/clubops/clubfinance/pkg/enums"
	"github.com/clubops/clubfinance/pkg/logger"
)

// EventFinder loads an event, returning nil without error when it is gone.
type EventFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

// CallUpsPassParams wire the call-up billing pass.
type CallUpsPassParams struct {
	Logger          *logger.Logger
	DB              txRunner
	Source          callups.Repository
	Events          EventFinder
	Movements       movements.Service
	Clock           calendar.Clock
	DueBusinessDays int
}

type callUpsPass struct {
	passCommon
	source    callups.Repository
	events    EventFinder
	movements movements.Service
}

// NewCallUpsPass builds the pass that bills call-up groups as expenses.
func NewCallUpsPass(params CallUpsPassParams) (Pass, error) {
	common, err := newPassCommon(params.Logger, params.DB, params.Clock, params.DueBusinessDays)
	if err != nil {
		return nil, err
	}
	if params.Source == nil {
		return nil, fmt.Errorf("call-ups repository required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("event finder required")
	}
	if params.Movements == nil {
		return nil, fmt.Errorf("movement service required")
	}
	return &callUpsPass{
		passCommon: common,
		source:     params.Source,
		events:     params.Events,
		movements:  params.Movements,
	}, nil
}

func (p *callUpsPass) Name() string { return SectionCallUps }

func (p *callUpsPass) Run(ctx context.Context, opts Options) (Result, error) {
	result := Result{Section: SectionCallUps}
	groups, err := p.source.ListUnbilledGroups(ctx, opts.Limit)
	if err != nil {
		return result, dependencyError(err, "list unbilled call-up groups")
	}
	for _, group := range groups {
		out, err := p.process(ctx, group, opts.DryRun)
		if err != nil {
			return result, err
		}
		p.tally(ctx, &result, group.ID, out)
	}
	return result, nil
}

// athleteCharge is the expense raised for one called-up athlete.
type athleteCharge struct {
	athleteID uuid.UUID
	cost      Cost
}

func (p *callUpsPass) process(ctx context.Context, group models.CallUpGroup, dryRun bool) (outcome, error) {
	event, err := p.events.FindByID(ctx, group.EventID)
	if err != nil {
		return outcome{}, dependencyError(err, "load call-up event")
	}
	if event == nil {
		return skip("call-up event missing"), nil
	}
	if group.AthleteIDs.Len() == 0 {
		return skip("call-up athlete list is empty or malformed"), nil
	}

	entries, err := p.source.ListAthleteEntries(ctx, group.ID)
	if err != nil {
		return outcome{}, dependencyError(err, "list call-up athlete entries")
	}
	charges, total := p.price(ctx, group, *event, raceCounts(entries))
	if !total.IsPositive() {
		return skip("call-up total is not positive"), nil
	}
	if dryRun {
		return created, nil
	}

	issued := p.now()
	due := p.dueDate(issued)
	origin := models.NewOrigin(enums.OriginTypeEvent, event.ID)
	label := groupLabel(group)

	err = p.db.WithTx(ctx, func(tx *gorm.DB) error {
		for _, charge := range charges {
			athleteID := charge.athleteID
			if _, err := p.movements.Create(ctx, tx, movements.CreateInput{
				UserID:         &athleteID,
				Classification: enums.MovementClassificationExpense,
				Type:           enums.MovementTypeRegistration,
				Status:         enums.PaymentStatusPending,
				IssuedAt:       issued,
				DueAt:          &due,
				Amount:         charge.cost.Total(),
				Origin:         origin,
				Items: []movements.ItemInput{{
					Description: chargeDescription(group.CostBasis, event.Title),
					Quantity:    charge.cost.Quantity,
					UnitPrice:   charge.cost.UnitPrice,
				}},
			}); err != nil {
				return err
			}
		}

		// Only the aggregate points back at the group; the per-athlete
		// movements above are reachable through the event origin alone.
		aggregate, err := p.movements.Create(ctx, tx, movements.CreateInput{
			PayerName:      strPtr(label),
			Classification: enums.MovementClassificationExpense,
			Type:           enums.MovementTypeRegistration,
			Status:         enums.PaymentStatusPending,
			IssuedAt:       issued,
			DueAt:          &due,
			Amount:         total,
			Origin:         origin,
			Notes:          strPtr(fmt.Sprintf("%s for %s: %d athletes", label, event.Title, len(charges))),
		})
		if err != nil {
			return err
		}
		return p.source.WithTx(tx).LinkMovement(ctx, group.ID, aggregate.ID)
	})
	return settle(err, "call-up group")
}

// price computes the charge of every athlete in the group. Athletes whose
// cost is not positive are left out of both the charges and the total.
func (p *callUpsPass) price(ctx context.Context, group models.CallUpGroup, event models.Event, races map[uuid.UUID]int) ([]athleteCharge, decimal.Decimal) {
	total := decimal.Zero
	charges := make([]athleteCharge, 0, group.AthleteIDs.Len())
	for _, athleteID := range group.AthleteIDs.IDs {
		cost := CallUpCost(group, event, races[athleteID])
		if !cost.Total().IsPositive() {
			logCtx := p.logg.WithFields(ctx, map[string]any{
				"group_id":   group.ID.String(),
				"athlete_id": athleteID.String(),
			})
			p.logg.Debug(logCtx, "call-up athlete has no cost")
			continue
		}
		charges = append(charges, athleteCharge{athleteID: athleteID, cost: cost})
		total = total.Add(cost.Total())
	}
	return charges, total
}

// raceCounts maps each athlete to the number of races recorded for them in
// the group. A malformed race list counts as zero; when an athlete has more
// than one entry the first one wins.
func raceCounts(entries []models.CallUpAthlete) map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int, len(entries))
	for _, entry := range entries {
		if _, seen := counts[entry.AthleteID]; seen {
			continue
		}
		counts[entry.AthleteID] = entry.RaceIDs.Len()
	}
	return counts
}

func groupLabel(group models.CallUpGroup) string {
	if name := strings.TrimSpace(group.Name); name != "" {
		return "Call-up " + name
	}
	return "Call-up group"
}

func chargeDescription(basis enums.CostBasis, eventTitle string) string {
	switch basis.Normalize() {
	case enums.CostBasisPerRace:
		return fmt.Sprintf("Race entries: %s", eventTitle)
	case enums.CostBasisPerJump:
		return fmt.Sprintf("Jump entry: %s", eventTitle)
	case enums.CostBasisPerRelay:
		return fmt.Sprintf("Relay entry: %s", eventTitle)
	default:
		return fmt.Sprintf("Registration: %s", eventTitle)
	}
}
