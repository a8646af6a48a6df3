package engine

import (
	"fmt"
	"sort"

	"github.com/apptlens/apptlens/internal/dataset"
)

// FilterSpec is the immutable value object describing the active
// constraints of one refresh cycle. An empty set on a dimension means
// "no filtering on this dimension", never "exclude everything"; a nil
// waiting-day cap means the dimension is unconstrained.
//
// Specs are only built through NewFilterSpec / ParseFilterSpec so that an
// invalid specification is rejected before any aggregation runs.
type FilterSpec struct {
	ageBuckets     map[dataset.AgeBucket]struct{}
	genders        map[dataset.Gender]struct{}
	maxWaitingDays *int
}

// NewFilterSpec builds a spec from typed dimension values.
func NewFilterSpec(buckets []dataset.AgeBucket, genders []dataset.Gender, maxWaitingDays *int) (FilterSpec, error) {
	spec := FilterSpec{}
	if maxWaitingDays != nil {
		if *maxWaitingDays < 0 {
			return FilterSpec{}, fmt.Errorf("%w: negative waiting-day cap %d", ErrInvalidFilter, *maxWaitingDays)
		}
		days := *maxWaitingDays
		spec.maxWaitingDays = &days
	}
	if len(buckets) > 0 {
		spec.ageBuckets = make(map[dataset.AgeBucket]struct{}, len(buckets))
		for _, b := range buckets {
			if b > dataset.BucketSenior {
				return FilterSpec{}, fmt.Errorf("%w: unknown age bucket tag %d", ErrInvalidFilter, b)
			}
			spec.ageBuckets[b] = struct{}{}
		}
	}
	if len(genders) > 0 {
		spec.genders = make(map[dataset.Gender]struct{}, len(genders))
		for _, g := range genders {
			if g > dataset.GenderMale {
				return FilterSpec{}, fmt.Errorf("%w: unknown gender tag %d", ErrInvalidFilter, g)
			}
			spec.genders[g] = struct{}{}
		}
	}
	return spec, nil
}

// ParseFilterSpec builds a spec from the string tags a UI collaborator
// supplies.
func ParseFilterSpec(bucketTags, genderTags []string, maxWaitingDays *int) (FilterSpec, error) {
	var buckets []dataset.AgeBucket
	for _, tag := range bucketTags {
		b, err := dataset.ParseAgeBucket(tag)
		if err != nil {
			return FilterSpec{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		buckets = append(buckets, b)
	}
	var genders []dataset.Gender
	for _, tag := range genderTags {
		g, err := dataset.ParseGender(tag)
		if err != nil {
			return FilterSpec{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		genders = append(genders, g)
	}
	return NewFilterSpec(buckets, genders, maxWaitingDays)
}

// Matches reports whether a record satisfies every active constraint.
func (s FilterSpec) Matches(r dataset.Record) bool {
	if len(s.ageBuckets) > 0 {
		if _, ok := s.ageBuckets[r.AgeBucket]; !ok {
			return false
		}
	}
	if len(s.genders) > 0 {
		if _, ok := s.genders[r.Gender]; !ok {
			return false
		}
	}
	if s.maxWaitingDays != nil && r.WaitingDays > *s.maxWaitingDays {
		return false
	}
	return true
}

// FilterSummary is the serializable echo of a spec, used in bundles and
// published refresh summaries. Tag slices are sorted for determinism.
type FilterSummary struct {
	AgeBuckets     []string `json:"ageBuckets"`
	Genders        []string `json:"genders"`
	MaxWaitingDays *int     `json:"maxWaitingDays"`
}

// Summary returns the serializable form of the spec.
func (s FilterSpec) Summary() FilterSummary {
	sum := FilterSummary{
		AgeBuckets: make([]string, 0, len(s.ageBuckets)),
		Genders:    make([]string, 0, len(s.genders)),
	}
	for b := range s.ageBuckets {
		sum.AgeBuckets = append(sum.AgeBuckets, b.String())
	}
	for g := range s.genders {
		sum.Genders = append(sum.Genders, g.String())
	}
	sort.Strings(sum.AgeBuckets)
	sort.Strings(sum.Genders)
	if s.maxWaitingDays != nil {
		days := *s.maxWaitingDays
		sum.MaxWaitingDays = &days
	}
	return sum
}

// Filter evaluates the spec against every record and returns the indices
// of matching records in store order. An empty result is valid; downstream
// aggregations degrade to their zero forms.
func Filter(store *dataset.Store, spec FilterSpec) []int {
	indices := make([]int, 0, store.Len())
	for i, r := range store.Records() {
		if spec.Matches(r) {
			indices = append(indices, i)
		}
	}
	return indices
}
