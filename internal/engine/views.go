package engine

// View result types. Each is an immutable snapshot consumed by a rendering
// collaborator; slices are in fixed, specified order so chart shapes stay
// stable across filter changes.

// OverallRate is the attendance split over the filtered subset.
type OverallRate struct {
	Showed int     `json:"showed"`
	NoShow int     `json:"noShow"`
	Rate   float64 `json:"rate"`
}

// DemographicCell is one (age bucket, gender) cell of the breakdown.
// Cells with no records report zero counts and rate 0 rather than being
// omitted.
type DemographicCell struct {
	AgeBucket string  `json:"ageBucket"`
	Gender    string  `json:"gender"`
	Count     int     `json:"count"`
	NoShow    int     `json:"noShow"`
	Rate      float64 `json:"rate"`
}

// DemographicBreakdown always holds the full bucket x gender cross
// product (bucket-major, Female before Male).
type DemographicBreakdown struct {
	Cells []DemographicCell `json:"cells"`
}

// WeekdayStat is one day of the weekly pattern.
type WeekdayStat struct {
	Day          string  `json:"day"`
	Appointments int     `json:"appointments"`
	NoShow       int     `json:"noShow"`
	Rate         float64 `json:"rate"`
}

// WeeklyPattern holds Monday..Sunday in fixed order.
type WeeklyPattern struct {
	Days []WeekdayStat `json:"days"`
}

// HistogramBin is one waiting-day bin, split by outcome. The final bin
// has Overflow set and collects everything beyond the cap.
type HistogramBin struct {
	Days     int  `json:"days"`
	Overflow bool `json:"overflow,omitempty"`
	Showed   int  `json:"showed"`
	NoShow   int  `json:"noShow"`
}

// WaitingTimeDistribution is a fixed-edge histogram: width-1 bins from 0
// to CapDays inclusive, plus one overflow bin.
type WaitingTimeDistribution struct {
	CapDays int            `json:"capDays"`
	Bins    []HistogramBin `json:"bins"`
}

// FlagSplit compares no-show rates between records with and without a
// boolean attribute.
type FlagSplit struct {
	WithCount     int     `json:"withCount"`
	WithNoShow    int     `json:"withNoShow"`
	WithRate      float64 `json:"withRate"`
	WithoutCount  int     `json:"withoutCount"`
	WithoutNoShow int     `json:"withoutNoShow"`
	WithoutRate   float64 `json:"withoutRate"`
}

// ConditionSplit is the flag split for one chronic condition.
type ConditionSplit struct {
	Condition string `json:"condition"`
	FlagSplit
}

// ConditionImpact reports flag splits for each tracked condition in fixed
// order: hypertension, diabetes, alcoholism, handicap.
type ConditionImpact struct {
	Conditions []ConditionSplit `json:"conditions"`
}

// ReminderAndScholarshipImpact reports raw conditional no-show rates by
// SMS reminder and, separately, by scholarship. No causal adjustment is
// applied.
type ReminderAndScholarshipImpact struct {
	SMS         FlagSplit `json:"sms"`
	Scholarship FlagSplit `json:"scholarship"`
}

// NeighborhoodStat is one ranked neighborhood.
type NeighborhoodStat struct {
	Name         string  `json:"name"`
	Appointments int     `json:"appointments"`
	NoShow       int     `json:"noShow"`
	Rate         float64 `json:"rate"`
}

// NeighborhoodRanking holds at most NeighborhoodTopN entries, ordered by
// volume descending then name ascending.
type NeighborhoodRanking struct {
	Entries []NeighborhoodStat `json:"entries"`
}

// SummaryStats are the headline figures of the filtered subset.
type SummaryStats struct {
	Total           int     `json:"total"`
	ShowRate        float64 `json:"showRate"`
	NoShowRate      float64 `json:"noShowRate"`
	MeanAge         float64 `json:"meanAge"`
	MeanWaitingDays float64 `json:"meanWaitingDays"`
	Female          int     `json:"female"`
	Male            int     `json:"male"`
	// Prevalence of each chronic condition, as a fraction of the subset.
	HypertensionRate float64 `json:"hypertensionRate"`
	DiabetesRate     float64 `json:"diabetesRate"`
	AlcoholismRate   float64 `json:"alcoholismRate"`
}

// ViewBundle is the causally consistent result of one refresh: every view
// computed against the same filtered subset. Rendering collaborators may
// read but never mutate it.
type ViewBundle struct {
	Generation    uint64                       `json:"generation"`
	Filter        FilterSummary                `json:"filter"`
	FilteredCount int                          `json:"filteredCount"`
	Summary       SummaryStats                 `json:"summary"`
	Overall       OverallRate                  `json:"overall"`
	Demographics  DemographicBreakdown         `json:"demographics"`
	Weekly        WeeklyPattern                `json:"weekly"`
	WaitingTime   WaitingTimeDistribution      `json:"waitingTime"`
	Conditions    ConditionImpact              `json:"conditions"`
	Reminders     ReminderAndScholarshipImpact `json:"reminders"`
	Neighborhoods NeighborhoodRanking          `json:"neighborhoods"`
}
