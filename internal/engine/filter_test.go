package engine

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/apptlens/apptlens/internal/dataset"
)

// fixtureStore builds the four-record reference store:
// index 0: age 10, Female, wait 2, Showed
// index 1: age 40, Male, wait 10, NoShow
// index 2: age 60, Female, wait 0, Showed
// index 3: age 25, Male, wait 15, NoShow
func fixtureStore(t *testing.T) *dataset.Store {
	t.Helper()

	type rec struct {
		age     int
		gender  string
		wait    int
		outcome string
	}
	recs := []rec{
		{10, "F", 2, "No"},
		{40, "M", 10, "Yes"},
		{60, "F", 0, "No"},
		{25, "M", 15, "Yes"},
	}

	scheduled := time.Date(2016, 5, 2, 9, 0, 0, 0, time.UTC) // a Monday
	rows := make([]dataset.Row, 0, len(recs))
	for i, r := range recs {
		rows = append(rows, dataset.Row{
			PatientID:     "patient",
			AppointmentID: string(rune('a' + i)),
			Gender:        r.gender,
			ScheduledAt:   scheduled,
			AppointmentAt: scheduled.Truncate(24 * time.Hour).AddDate(0, 0, r.wait),
			Age:           r.age,
			Neighborhood:  "Centro",
			Outcome:       r.outcome,
		})
	}

	store, issues, err := dataset.Builder{}.Build(rows)
	if err != nil {
		t.Fatalf("fixture build: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("fixture issues: %v", issues)
	}
	return store
}

func mustSpec(t *testing.T, buckets []dataset.AgeBucket, genders []dataset.Gender, maxDays *int) FilterSpec {
	t.Helper()
	spec, err := NewFilterSpec(buckets, genders, maxDays)
	if err != nil {
		t.Fatalf("NewFilterSpec: %v", err)
	}
	return spec
}

func intPtr(v int) *int { return &v }

func TestFilterAllDimensionsUnset(t *testing.T) {
	store := fixtureStore(t)
	got := Filter(store, mustSpec(t, nil, nil, nil))
	if want := []int{0, 1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected all indices in order, got %v", got)
	}
}

func TestFilterConjunction(t *testing.T) {
	store := fixtureStore(t)

	tests := []struct {
		name    string
		buckets []dataset.AgeBucket
		genders []dataset.Gender
		maxDays *int
		want    []int
	}{
		{"male capped at 10 days", nil, []dataset.Gender{dataset.GenderMale}, intPtr(10), []int{1}},
		{"seniors only", []dataset.AgeBucket{dataset.BucketSenior}, nil, nil, []int{2}},
		{"cap 0 passes same-day only", nil, nil, intPtr(0), []int{2}},
		{"both genders listed", nil, []dataset.Gender{dataset.GenderFemale, dataset.GenderMale}, nil, []int{0, 1, 2, 3}},
		{"all excluded", []dataset.AgeBucket{dataset.BucketSenior}, []dataset.Gender{dataset.GenderMale}, nil, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(store, mustSpec(t, tt.buckets, tt.genders, tt.maxDays))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFilterMonotonicity(t *testing.T) {
	store := fixtureStore(t)

	all := len(Filter(store, mustSpec(t, nil, nil, nil)))
	males := len(Filter(store, mustSpec(t, nil, []dataset.Gender{dataset.GenderMale}, nil)))
	if males > all {
		t.Errorf("shrinking the gender set grew the subset: %d > %d", males, all)
	}

	prev := all
	for _, limit := range []int{15, 10, 2, 0} {
		n := len(Filter(store, mustSpec(t, nil, nil, intPtr(limit))))
		if n > prev {
			t.Errorf("lowering maxWaitingDays to %d grew the subset: %d > %d", limit, n, prev)
		}
		prev = n
	}
}

func TestInvalidFilterSpecs(t *testing.T) {
	if _, err := NewFilterSpec(nil, nil, intPtr(-1)); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter for negative cap, got %v", err)
	}
	if _, err := ParseFilterSpec([]string{"elder"}, nil, nil); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter for unknown bucket, got %v", err)
	}
	if _, err := ParseFilterSpec(nil, []string{"Z"}, nil); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter for unknown gender, got %v", err)
	}
}

func TestParseFilterSpec(t *testing.T) {
	store := fixtureStore(t)
	spec, err := ParseFilterSpec([]string{"senior"}, []string{"F"}, intPtr(30))
	if err != nil {
		t.Fatalf("ParseFilterSpec: %v", err)
	}
	if got := Filter(store, spec); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("expected [2], got %v", got)
	}

	sum := spec.Summary()
	if !reflect.DeepEqual(sum.AgeBuckets, []string{"senior"}) || !reflect.DeepEqual(sum.Genders, []string{"F"}) {
		t.Errorf("unexpected summary %+v", sum)
	}
	if sum.MaxWaitingDays == nil || *sum.MaxWaitingDays != 30 {
		t.Errorf("expected cap 30 in summary, got %v", sum.MaxWaitingDays)
	}
}
