package enums

import "fmt"

// InvoiceType classifies what an invoice bills for.
type InvoiceType string

const (
	InvoiceTypeRegistration InvoiceType = "registration"
	InvoiceTypeMaterial     InvoiceType = "material"
)

var validInvoiceTypes = []InvoiceType{
	InvoiceTypeRegistration,
	InvoiceTypeMaterial,
}

// String implements fmt.Stringer.
func (i InvoiceType) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InvoiceType.
func (i InvoiceType) IsValid() bool {
	for _, candidate := range validInvoiceTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInvoiceType converts raw input into a InvoiceType.
func ParseInvoiceType(value string) (InvoiceType, error) {
	for _, candidate := range validInvoiceTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid invoice type %q", value)
}
