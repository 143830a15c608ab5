package backfill

import (
	"github.com/shopspring/decimal"

	"github.com/clubops/clubfinance/pkg/db/models"
	"github.com/clubops/clubfinance/pkg/enums"
)

// Cost is what one called-up athlete is charged: Quantity units at UnitPrice.
type Cost struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Total returns UnitPrice × Quantity.
func (c Cost) Total() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// CallUpCost prices one athlete of group for event, given how many races the
// athlete is entered in within that group. Group overrides win over event
// fees. Per-race billing charges at least one race; the other modes are a flat
// per-athlete charge.
func CallUpCost(group models.CallUpGroup, event models.Event, races int) Cost {
	switch group.CostBasis.Normalize() {
	case enums.CostBasisPerRace:
		if races < 1 {
			races = 1
		}
		return Cost{
			UnitPrice: firstSet(group.RacePrice, event.RaceFee, event.EntryFee),
			Quantity:  races,
		}
	case enums.CostBasisPerJump:
		return Cost{UnitPrice: firstSet(group.JumpPrice, event.JumpFee), Quantity: 1}
	case enums.CostBasisPerRelay:
		return Cost{UnitPrice: firstSet(group.RelayPrice, event.RelayFee), Quantity: 1}
	default:
		return Cost{UnitPrice: firstSet(group.RegistrationPrice, event.EntryFee), Quantity: 1}
	}
}

// firstSet returns the first non-null amount, or zero.
func firstSet(values ...decimal.NullDecimal) decimal.Decimal {
	for _, v := range values {
		if v.Valid {
			return v.Decimal
		}
	}
	return decimal.Zero
}
