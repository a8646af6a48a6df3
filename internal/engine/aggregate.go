package engine

import (
	"sort"

	"github.com/apptlens/apptlens/internal/dataset"
)

// NeighborhoodTopN is the fixed size of the neighborhood ranking.
const NeighborhoodTopN = 15

// DefaultHistogramCapDays bounds the waiting-time histogram when no cap is
// configured.
const DefaultHistogramCapDays = 30

// The aggregation library: pure functions from (store, filtered indices)
// to one named view. All of them share the same degenerate-case policy:
// a zero denominator yields rate 0, an empty subset yields the zero form
// of the view, and no function ever fails on valid inputs.

// ratio applies the shared zero-denominator policy: 0, never NaN.
func ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}

// Overall counts attendance outcomes over the subset.
func Overall(store *dataset.Store, indices []int) OverallRate {
	var v OverallRate
	for _, i := range indices {
		if store.Record(i).Outcome == dataset.OutcomeNoShow {
			v.NoShow++
		} else {
			v.Showed++
		}
	}
	v.Rate = ratio(v.NoShow, v.Showed+v.NoShow)
	return v
}

// Demographics groups by (age bucket, gender). Every cell of the fixed
// cross product is present, zero-filled where no data exists, so the
// grouped chart shape is stable across filters.
func Demographics(store *dataset.Store, indices []int) DemographicBreakdown {
	type key struct {
		bucket dataset.AgeBucket
		gender dataset.Gender
	}
	counts := make(map[key]*DemographicCell)

	cells := make([]DemographicCell, 0, len(dataset.AgeBuckets)*len(dataset.Genders))
	for _, b := range dataset.AgeBuckets {
		for _, g := range dataset.Genders {
			cells = append(cells, DemographicCell{AgeBucket: b.String(), Gender: g.String()})
			counts[key{b, g}] = &cells[len(cells)-1]
		}
	}

	for _, i := range indices {
		r := store.Record(i)
		cell := counts[key{r.AgeBucket, r.Gender}]
		cell.Count++
		if r.Outcome == dataset.OutcomeNoShow {
			cell.NoShow++
		}
	}
	for i := range cells {
		cells[i].Rate = ratio(cells[i].NoShow, cells[i].Count)
	}
	return DemographicBreakdown{Cells: cells}
}

// Weekly groups by appointment day of week, Monday..Sunday fixed.
func Weekly(store *dataset.Store, indices []int) WeeklyPattern {
	days := make([]WeekdayStat, 7)
	for d := dataset.Monday; d <= dataset.Sunday; d++ {
		days[d].Day = d.String()
	}
	for _, i := range indices {
		r := store.Record(i)
		days[r.Weekday].Appointments++
		if r.Outcome == dataset.OutcomeNoShow {
			days[r.Weekday].NoShow++
		}
	}
	for i := range days {
		days[i].Rate = ratio(days[i].NoShow, days[i].Appointments)
	}
	return WeeklyPattern{Days: days}
}

// WaitingDistribution builds the waiting-time histogram: one bin per day
// from 0 to capDays inclusive plus an overflow bin, each split by outcome.
// Bin edges are fixed by the cap, never by the data.
func WaitingDistribution(store *dataset.Store, indices []int, capDays int) WaitingTimeDistribution {
	if capDays <= 0 {
		capDays = DefaultHistogramCapDays
	}
	bins := make([]HistogramBin, capDays+2)
	for d := 0; d <= capDays; d++ {
		bins[d].Days = d
	}
	bins[capDays+1] = HistogramBin{Days: capDays + 1, Overflow: true}

	for _, i := range indices {
		r := store.Record(i)
		slot := r.WaitingDays
		if slot > capDays {
			slot = capDays + 1
		}
		if r.Outcome == dataset.OutcomeNoShow {
			bins[slot].NoShow++
		} else {
			bins[slot].Showed++
		}
	}
	return WaitingTimeDistribution{CapDays: capDays, Bins: bins}
}

// conditionFlags enumerates the tracked chronic conditions in report
// order. Handicap counts as "with" for any level above 0.
var conditionFlags = []struct {
	name string
	set  func(dataset.Record) bool
}{
	{"hypertension", func(r dataset.Record) bool { return r.Hypertension }},
	{"diabetes", func(r dataset.Record) bool { return r.Diabetes }},
	{"alcoholism", func(r dataset.Record) bool { return r.Alcoholism }},
	{"handicap", func(r dataset.Record) bool { return r.Handicap > 0 }},
}

// flagSplit computes with/without no-show rates for one predicate.
func flagSplit(store *dataset.Store, indices []int, set func(dataset.Record) bool) FlagSplit {
	var v FlagSplit
	for _, i := range indices {
		r := store.Record(i)
		noShow := r.Outcome == dataset.OutcomeNoShow
		if set(r) {
			v.WithCount++
			if noShow {
				v.WithNoShow++
			}
		} else {
			v.WithoutCount++
			if noShow {
				v.WithoutNoShow++
			}
		}
	}
	v.WithRate = ratio(v.WithNoShow, v.WithCount)
	v.WithoutRate = ratio(v.WithoutNoShow, v.WithoutCount)
	return v
}

// Conditions reports the no-show rate with vs without each chronic
// condition.
func Conditions(store *dataset.Store, indices []int) ConditionImpact {
	v := ConditionImpact{Conditions: make([]ConditionSplit, 0, len(conditionFlags))}
	for _, c := range conditionFlags {
		v.Conditions = append(v.Conditions, ConditionSplit{
			Condition: c.name,
			FlagSplit: flagSplit(store, indices, c.set),
		})
	}
	return v
}

// Reminders reports the no-show rate split by SMS reminder and, separately,
// by scholarship.
func Reminders(store *dataset.Store, indices []int) ReminderAndScholarshipImpact {
	return ReminderAndScholarshipImpact{
		SMS:         flagSplit(store, indices, func(r dataset.Record) bool { return r.SMSReceived }),
		Scholarship: flagSplit(store, indices, func(r dataset.Record) bool { return r.Scholarship }),
	}
}

// Neighborhoods ranks the top neighborhoods by appointment volume,
// volume descending with name-ascending tie-break for determinism.
func Neighborhoods(store *dataset.Store, indices []int) NeighborhoodRanking {
	byName := make(map[string]*NeighborhoodStat)
	for _, i := range indices {
		r := store.Record(i)
		stat, ok := byName[r.Neighborhood]
		if !ok {
			stat = &NeighborhoodStat{Name: r.Neighborhood}
			byName[r.Neighborhood] = stat
		}
		stat.Appointments++
		if r.Outcome == dataset.OutcomeNoShow {
			stat.NoShow++
		}
	}

	entries := make([]NeighborhoodStat, 0, len(byName))
	for _, stat := range byName {
		stat.Rate = ratio(stat.NoShow, stat.Appointments)
		entries = append(entries, *stat)
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].Appointments != entries[b].Appointments {
			return entries[a].Appointments > entries[b].Appointments
		}
		return entries[a].Name < entries[b].Name
	})
	if len(entries) > NeighborhoodTopN {
		entries = entries[:NeighborhoodTopN]
	}
	return NeighborhoodRanking{Entries: entries}
}

// Summary computes the headline figures over the subset.
func Summary(store *dataset.Store, indices []int) SummaryStats {
	var v SummaryStats
	var ageSum, waitSum int
	var noShow, hyper, diab, alco int
	for _, i := range indices {
		r := store.Record(i)
		v.Total++
		ageSum += r.Age
		waitSum += r.WaitingDays
		if r.Outcome == dataset.OutcomeNoShow {
			noShow++
		}
		if r.Gender == dataset.GenderFemale {
			v.Female++
		} else {
			v.Male++
		}
		if r.Hypertension {
			hyper++
		}
		if r.Diabetes {
			diab++
		}
		if r.Alcoholism {
			alco++
		}
	}
	if v.Total > 0 {
		v.MeanAge = float64(ageSum) / float64(v.Total)
		v.MeanWaitingDays = float64(waitSum) / float64(v.Total)
	}
	v.NoShowRate = ratio(noShow, v.Total)
	v.ShowRate = ratio(v.Total-noShow, v.Total)
	v.HypertensionRate = ratio(hyper, v.Total)
	v.DiabetesRate = ratio(diab, v.Total)
	v.AlcoholismRate = ratio(alco, v.Total)
	return v
}
