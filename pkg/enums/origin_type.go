package enums

import "fmt"

// OriginType discriminates the source record a financial row was derived from.
// Together with the origin id it forms the polymorphic back-reference used for
// "check before insert" idempotence.
type OriginType string

const (
	OriginTypeEvent       OriginType = "event"
	OriginTypeStock       OriginType = "stock"
	OriginTypeSponsorship OriginType = "sponsorship"
)

var validOriginTypes = []OriginType{
	OriginTypeEvent,
	OriginTypeStock,
	OriginTypeSponsorship,
}

// String implements fmt.Stringer.
func (o OriginType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OriginType.
func (o OriginType) IsValid() bool {
	for _, candidate := range validOriginTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOriginType converts raw input into an OriginType.
func ParseOriginType(value string) (OriginType, error) {
	for _, candidate := range validOriginTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid origin type %q", value)
}
