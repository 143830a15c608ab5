package backfill

import (
	"context"
	"sort"
)

// Pass materializes financial records for one kind of source record.
type Pass interface {
	Name() string
	Run(ctx context.Context, opts Options) (Result, error)
}

// Registry tracks the registered passes.
type Registry struct {
	passes []Pass
}

// NewRegistry builds a registry preloaded with the provided passes.
func NewRegistry(passes ...Pass) *Registry {
	registry := &Registry{}
	for _, pass := range passes {
		registry.Register(pass)
	}
	return registry
}

// Register adds a pass to the registry.
func (r *Registry) Register(pass Pass) {
	if pass == nil {
		return
	}
	r.passes = append(r.passes, pass)
}

// Passes returns the registered passes in section order. Passes with a name
// outside the known sections keep their registration order after the rest.
func (r *Registry) Passes() []Pass {
	passes := make([]Pass, len(r.passes))
	copy(passes, r.passes)
	sort.SliceStable(passes, func(i, j int) bool {
		return rankOrLast(passes[i].Name()) < rankOrLast(passes[j].Name())
	})
	return passes
}

func rankOrLast(name string) int {
	if rank := sectionRank(name); rank >= 0 {
		return rank
	}
	return len(sectionOrder)
}
