package enums

// CostBasis selects how a call-up group prices each called-up athlete.
type CostBasis string

const (
	CostBasisPerRace  CostBasis = "per_race"
	CostBasisPerJump  CostBasis = "per_jump"
	CostBasisPerRelay CostBasis = "per_relay"
	CostBasisFlat     CostBasis = "flat"
)

// String implements fmt.Stringer.
func (c CostBasis) String() string {
	return string(c)
}

// Normalize maps unknown or empty values to CostBasisFlat; stored groups may
// carry legacy values and those are billed as a flat registration.
func (c CostBasis) Normalize() CostBasis {
	switch c {
	case CostBasisPerRace, CostBasisPerJump, CostBasisPerRelay:
		return c
	default:
		return CostBasisFlat
	}
}
