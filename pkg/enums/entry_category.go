package enums

import "fmt"

// EntryCategory groups financial feed entries for accounting reports.
type EntryCategory string

const (
	EntryCategoryRegistration    EntryCategory = "Registration"
	EntryCategoryMerchandiseSale EntryCategory = "Merchandise Sale"
	EntryCategorySponsorship     EntryCategory = "Sponsorship"
)

var validEntryCategories = []EntryCategory{
	EntryCategoryRegistration,
	EntryCategoryMerchandiseSale,
	EntryCategorySponsorship,
}

// String implements fmt.Stringer.
func (e EntryCategory) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EntryCategory.
func (e EntryCategory) IsValid() bool {
	for _, candidate := range validEntryCategories {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEntryCategory converts raw input into a EntryCategory.
func ParseEntryCategory(value string) (EntryCategory, error) {
	for _, candidate := range validEntryCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid entry category %q", value)
}
