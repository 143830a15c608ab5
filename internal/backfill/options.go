package backfill

import (
	"fmt"
	"strings"

	pkgerrors "github.com/clubops/clubfinance/pkg/errors"
)

// Section names, in the order a run processes them.
const (
	SectionRegistrations = "registrations"
	SectionSales         = "sales"
	SectionSponsorships  = "sponsorships"
	SectionCallUps       = "callups"
)

var sectionOrder = []string{
	SectionRegistrations,
	SectionSales,
	SectionSponsorships,
	SectionCallUps,
}

// Options control a single run.
type Options struct {
	// DryRun counts what would be created without writing anything.
	DryRun bool
	// Limit caps the source records inspected per section; 0 means no cap.
	Limit int
	// Sections restricts the run to the named sections. Empty runs all.
	Sections []string
}

// Validate rejects a negative limit and unknown section names.
func (o Options) Validate() error {
	if o.Limit < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "limit must not be negative")
	}
	for _, section := range o.Sections {
		if sectionRank(section) < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown section %q", section))
		}
	}
	return nil
}

func (o Options) includes(section string) bool {
	if len(o.Sections) == 0 {
		return true
	}
	for _, candidate := range o.Sections {
		if candidate == section {
			return true
		}
	}
	return false
}

// ParseSections splits a comma separated section list, dropping blanks.
func ParseSections(raw string) ([]string, error) {
	var sections []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if sectionRank(part) < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown section %q", part))
		}
		sections = append(sections, part)
	}
	return sections, nil
}

func sectionRank(section string) int {
	for i, candidate := range sectionOrder {
		if candidate == section {
			return i
		}
	}
	return -1
}
