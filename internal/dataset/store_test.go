package dataset

import (
	"errors"
	"testing"
	"time"
)

func validRow() Row {
	return Row{
		PatientID:     "29872499824296",
		AppointmentID: "5642903",
		Gender:        "F",
		ScheduledAt:   time.Date(2016, 4, 29, 18, 38, 8, 0, time.UTC),
		AppointmentAt: time.Date(2016, 5, 2, 0, 0, 0, 0, time.UTC),
		Age:           62,
		Neighborhood:  "Jardim Da Penha",
		Outcome:       "No",
	}
}

func TestBuildDerivesFields(t *testing.T) {
	store, issues, err := Builder{}.Build([]Row{validRow()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", store.Len())
	}

	r := store.Record(0)
	if r.WaitingDays != 3 {
		t.Errorf("expected waiting days 3, got %d", r.WaitingDays)
	}
	if r.Weekday != Monday {
		t.Errorf("expected Monday, got %s", r.Weekday)
	}
	if r.AgeBucket != BucketSenior {
		t.Errorf("expected senior bucket, got %s", r.AgeBucket)
	}
	if r.Outcome != OutcomeShowed {
		t.Errorf("expected Showed, got %s", r.Outcome)
	}
}

func TestBuildClampsSameDayScheduling(t *testing.T) {
	// Scheduled late on the appointment day itself: the timestamp is after
	// midnight of the appointment date, but the calendar difference is 0.
	row := validRow()
	row.ScheduledAt = time.Date(2016, 4, 29, 18, 38, 8, 0, time.UTC)
	row.AppointmentAt = time.Date(2016, 4, 29, 0, 0, 0, 0, time.UTC)

	store, issues, err := Builder{}.Build([]Row{row})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
	if got := store.Record(0).WaitingDays; got != 0 {
		t.Errorf("expected waiting days 0, got %d", got)
	}
}

func TestBuildRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Row)
		field  string
	}{
		{"missing patient id", func(r *Row) { r.PatientID = "" }, "patientId"},
		{"unknown gender", func(r *Row) { r.Gender = "X" }, "gender"},
		{"unknown outcome", func(r *Row) { r.Outcome = "maybe" }, "outcome"},
		{"negative age", func(r *Row) { r.Age = -1 }, "age"},
		{"implausible age", func(r *Row) { r.Age = 131 }, "age"},
		{"handicap out of range", func(r *Row) { r.Handicap = 5 }, "handicap"},
		{"appointment before scheduling", func(r *Row) {
			r.AppointmentAt = r.ScheduledAt.AddDate(0, 0, -2)
		}, "appointmentDay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			tt.mutate(&row)

			_, issues, err := Builder{}.Build([]Row{row})
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(issues) == 0 {
				t.Fatal("expected at least one issue")
			}
			if issues[0].Field != tt.field {
				t.Errorf("expected issue on field %q, got %q (%s)", tt.field, issues[0].Field, issues[0].Reason)
			}
		})
	}
}

func TestBuildCollectsEveryIssue(t *testing.T) {
	bad1 := validRow()
	bad1.Age = 200
	bad2 := validRow()
	bad2.PatientID = ""

	_, issues, err := Builder{}.Build([]Row{validRow(), bad1, bad2})
	if err == nil {
		t.Fatal("expected error in strict mode")
	}
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %v", len(issues), issues)
	}
	if issues[0].Row != 1 || issues[1].Row != 2 {
		t.Errorf("expected issues on rows 1 and 2, got %d and %d", issues[0].Row, issues[1].Row)
	}
}

func TestBuildDropInvalidKeepsGoodRows(t *testing.T) {
	bad := validRow()
	bad.Age = 200

	store, issues, err := Builder{DropInvalid: true}.Build([]Row{validRow(), bad, validRow()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 records, got %d", store.Len())
	}
	if len(issues) != 1 {
		t.Errorf("expected 1 issue, got %d", len(issues))
	}
}

func TestBucketForAge(t *testing.T) {
	tests := []struct {
		age  int
		want AgeBucket
	}{
		{0, BucketChildren},
		{17, BucketChildren},
		{18, BucketYoungAdult},
		{35, BucketYoungAdult},
		{36, BucketMiddleAged},
		{55, BucketMiddleAged},
		{56, BucketSenior},
		{130, BucketSenior},
	}
	for _, tt := range tests {
		if got := BucketForAge(tt.age); got != tt.want {
			t.Errorf("BucketForAge(%d) = %s, want %s", tt.age, got, tt.want)
		}
	}
}

func TestWeekdayOf(t *testing.T) {
	// 2016-05-02 was a Monday, 2016-05-01 a Sunday.
	if got := WeekdayOf(time.Date(2016, 5, 2, 0, 0, 0, 0, time.UTC)); got != Monday {
		t.Errorf("expected Monday, got %s", got)
	}
	if got := WeekdayOf(time.Date(2016, 5, 1, 0, 0, 0, 0, time.UTC)); got != Sunday {
		t.Errorf("expected Sunday, got %s", got)
	}
}

func TestParseEnums(t *testing.T) {
	if _, err := ParseGender("X"); err == nil {
		t.Error("expected error for unknown gender")
	}
	if _, err := ParseOutcome("maybe"); err == nil {
		t.Error("expected error for unknown outcome")
	}
	if _, err := ParseAgeBucket("elder"); err == nil {
		t.Error("expected error for unknown bucket")
	}
	if b, err := ParseAgeBucket("YOUNGADULT"); err != nil || b != BucketYoungAdult {
		t.Errorf("expected case-insensitive bucket parse, got %v %v", b, err)
	}
	if o, err := ParseOutcome("Yes"); err != nil || o != OutcomeNoShow {
		t.Errorf("expected Yes to parse as NoShow, got %v %v", o, err)
	}
}
