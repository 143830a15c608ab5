package backfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryOrdersPassesBySection(t *testing.T) {
	extra := &stubPass{name: "audit"}
	registry := NewRegistry(
		&stubPass{name: SectionCallUps},
		nil,
		extra,
		&stubPass{name: SectionSales},
		&stubPass{name: SectionRegistrations},
	)
	registry.Register(&stubPass{name: SectionSponsorships})
	registry.Register(nil)

	var names []string
	for _, pass := range registry.Passes() {
		names = append(names, pass.Name())
	}
	assert.Equal(t, []string{SectionRegistrations, SectionSales, SectionSponsorships, SectionCallUps, "audit"}, names)
}

func TestParseSections(t *testing.T) {
	sections, err := ParseSections(" Sales, ,callups ")
	require.NoError(t, err)
	assert.Equal(t, []string{SectionSales, SectionCallUps}, sections)

	sections, err = ParseSections("")
	require.NoError(t, err)
	assert.Empty(t, sections)

	_, err = ParseSections("sales,refunds")
	assert.Error(t, err)
}

func TestOptionsIncludes(t *testing.T) {
	assert.True(t, Options{}.includes(SectionSales))
	opts := Options{Sections: []string{SectionSales}}
	assert.True(t, opts.includes(SectionSales))
	assert.False(t, opts.includes(SectionCallUps))
}
