package dataset

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
)

const (
	// MaxAge is the upper bound for a plausible patient age.
	MaxAge = 130
	// MaxHandicap is the upper bound of the handicap level scale.
	MaxHandicap = 4
)

// Row is one raw appointment row as delivered by an ingestion collaborator,
// before validation and derivation.
type Row struct {
	PatientID     string
	AppointmentID string
	Gender        string
	ScheduledAt   time.Time
	AppointmentAt time.Time
	Age           int
	Neighborhood  string
	Scholarship   bool
	Hypertension  bool
	Diabetes      bool
	Alcoholism    bool
	Handicap      int
	SMSReceived   bool
	Outcome       string
}

// RowIssue describes why a single row was rejected, keyed by source row
// number and offending field so an operator can locate it.
type RowIssue struct {
	Row    int
	Field  string
	Reason string
}

func (i RowIssue) Error() string {
	return fmt.Sprintf("row %d: field %q: %s", i.Row, i.Field, i.Reason)
}

// ValidationError aggregates every row rejection found during a build.
type ValidationError struct {
	Issues []RowIssue
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("dataset validation failed: %d row(s) rejected", len(e.Issues))
}

// Unwrap exposes the individual issues as a combined error chain.
func (e *ValidationError) Unwrap() error {
	errs := make([]error, len(e.Issues))
	for i, issue := range e.Issues {
		errs[i] = issue
	}
	return multierr.Combine(errs...)
}

// Store is the immutable, normalized in-memory dataset. It is never
// mutated after Build returns, which is what makes concurrent read-only
// refreshes safe without locking.
type Store struct {
	records []Record
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Record returns the record at index i.
func (s *Store) Record(i int) Record { return s.records[i] }

// Records returns the underlying record sequence in insertion order.
// Callers must treat it as read-only.
func (s *Store) Records() []Record { return s.records }

// Builder validates raw rows and constructs a Store.
//
// With DropInvalid set, rows failing validation are dropped and reported
// through the returned issues; otherwise any issue fails the whole build
// with a *ValidationError carrying every rejection, not just the first.
type Builder struct {
	DropInvalid bool
}

// Build validates all rows, derives per-record fields, and produces the
// store. Issues are always returned in row order.
func (b Builder) Build(rows []Row) (*Store, []RowIssue, error) {
	records := make([]Record, 0, len(rows))
	var issues []RowIssue

	for n, row := range rows {
		rec, rowIssues := validateRow(n, row)
		if len(rowIssues) > 0 {
			issues = append(issues, rowIssues...)
			continue
		}
		records = append(records, rec)
	}

	if len(issues) > 0 && !b.DropInvalid {
		return nil, issues, &ValidationError{Issues: issues}
	}
	return &Store{records: records}, issues, nil
}

// validateRow checks one raw row against the data contract and derives
// waiting days, weekday and age bucket.
func validateRow(n int, row Row) (Record, []RowIssue) {
	var issues []RowIssue
	reject := func(field, reason string) {
		issues = append(issues, RowIssue{Row: n, Field: field, Reason: reason})
	}

	if row.PatientID == "" {
		reject("patientId", "missing patient identifier")
	}
	gender, err := ParseGender(row.Gender)
	if err != nil {
		reject("gender", err.Error())
	}
	outcome, err := ParseOutcome(row.Outcome)
	if err != nil {
		reject("outcome", err.Error())
	}
	if row.Age < 0 || row.Age > MaxAge {
		reject("age", fmt.Sprintf("age %d outside [0, %d]", row.Age, MaxAge))
	}
	if row.Handicap < 0 || row.Handicap > MaxHandicap {
		reject("handicap", fmt.Sprintf("handicap level %d outside [0, %d]", row.Handicap, MaxHandicap))
	}

	// Waiting time is a calendar-date difference: scheduling later in the
	// day of the appointment itself clamps to 0, but an appointment date
	// strictly before the scheduling date is a source-data violation.
	waiting := daysBetween(row.ScheduledAt, row.AppointmentAt)
	if waiting < 0 {
		reject("appointmentDay", fmt.Sprintf("appointment %d day(s) before scheduling", -waiting))
	}

	if len(issues) > 0 {
		return Record{}, issues
	}

	return Record{
		PatientID:     row.PatientID,
		AppointmentID: row.AppointmentID,
		Gender:        gender,
		ScheduledAt:   row.ScheduledAt,
		AppointmentAt: row.AppointmentAt,
		Age:           row.Age,
		Neighborhood:  row.Neighborhood,
		Scholarship:   row.Scholarship,
		Hypertension:  row.Hypertension,
		Diabetes:      row.Diabetes,
		Alcoholism:    row.Alcoholism,
		Handicap:      row.Handicap,
		SMSReceived:   row.SMSReceived,
		Outcome:       outcome,
		WaitingDays:   waiting,
		Weekday:       WeekdayOf(row.AppointmentAt),
		AgeBucket:     BucketForAge(row.Age),
	}, nil
}

// daysBetween counts whole calendar days from the scheduling date to the
// appointment date, ignoring the time of day on both ends.
func daysBetween(scheduled, appointment time.Time) int {
	sy, sm, sd := scheduled.Date()
	ay, am, ad := appointment.Date()
	s := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	a := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(s) / (24 * time.Hour))
}
