package engine

import "github.com/apptlens/apptlens/internal/dataset"

// Assembler runs one filter pass and every aggregation over the same
// filtered subset, so a bundle is always causally consistent. Identical
// (store, spec) inputs produce structurally identical bundles.
type Assembler struct {
	store   *dataset.Store
	capDays int
}

// NewAssembler wraps a store. capDays bounds the waiting-time histogram;
// values <= 0 fall back to DefaultHistogramCapDays.
func NewAssembler(store *dataset.Store, capDays int) *Assembler {
	if capDays <= 0 {
		capDays = DefaultHistogramCapDays
	}
	return &Assembler{store: store, capDays: capDays}
}

// Store returns the underlying record store.
func (a *Assembler) Store() *dataset.Store { return a.store }

// Refresh produces the complete view bundle for one filter specification.
func (a *Assembler) Refresh(spec FilterSpec) *ViewBundle {
	indices := Filter(a.store, spec)
	return &ViewBundle{
		Filter:        spec.Summary(),
		FilteredCount: len(indices),
		Summary:       Summary(a.store, indices),
		Overall:       Overall(a.store, indices),
		Demographics:  Demographics(a.store, indices),
		Weekly:        Weekly(a.store, indices),
		WaitingTime:   WaitingDistribution(a.store, indices, a.capDays),
		Conditions:    Conditions(a.store, indices),
		Reminders:     Reminders(a.store, indices),
		Neighborhoods: Neighborhoods(a.store, indices),
	}
}
