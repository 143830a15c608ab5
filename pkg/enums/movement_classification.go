package enums

import "fmt"

// MovementClassification separates ledger receipts from expenses.
type MovementClassification string

const (
	MovementClassificationIncome  MovementClassification = "receita"
	MovementClassificationExpense MovementClassification = "despesa"
)

var validMovementClassifications = []MovementClassification{
	MovementClassificationIncome,
	MovementClassificationExpense,
}

// String implements fmt.Stringer.
func (m MovementClassification) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MovementClassification.
func (m MovementClassification) IsValid() bool {
	for _, candidate := range validMovementClassifications {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMovementClassification converts raw input into a MovementClassification.
func ParseMovementClassification(value string) (MovementClassification, error) {
	for _, candidate := range validMovementClassifications {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement classification %q", value)
}
