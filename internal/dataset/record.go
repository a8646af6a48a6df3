package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Gender of the patient as recorded on the appointment.
type Gender uint8

const (
	GenderFemale Gender = iota
	GenderMale
)

// Genders lists all known genders in their canonical order.
var Genders = []Gender{GenderFemale, GenderMale}

func (g Gender) String() string {
	switch g {
	case GenderFemale:
		return "F"
	case GenderMale:
		return "M"
	}
	return fmt.Sprintf("Gender(%d)", uint8(g))
}

// ParseGender maps the dataset's single-letter gender codes.
func ParseGender(s string) (Gender, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "F":
		return GenderFemale, nil
	case "M":
		return GenderMale, nil
	}
	return 0, fmt.Errorf("unknown gender %q", s)
}

// Outcome is whether the patient attended the appointment.
type Outcome uint8

const (
	OutcomeShowed Outcome = iota
	OutcomeNoShow
)

func (o Outcome) String() string {
	switch o {
	case OutcomeShowed:
		return "Showed"
	case OutcomeNoShow:
		return "NoShow"
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

// ParseOutcome maps the source "No-show" column, where "Yes" means the
// patient did not attend.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no", "showed":
		return OutcomeShowed, nil
	case "yes", "noshow":
		return OutcomeNoShow, nil
	}
	return 0, fmt.Errorf("unknown outcome %q", s)
}

// AgeBucket is one of four fixed, non-overlapping age ranges.
type AgeBucket uint8

const (
	BucketChildren   AgeBucket = iota // 0-17
	BucketYoungAdult                  // 18-35
	BucketMiddleAged                  // 36-55
	BucketSenior                      // 56+
)

// AgeBuckets lists all buckets in ascending age order.
var AgeBuckets = []AgeBucket{BucketChildren, BucketYoungAdult, BucketMiddleAged, BucketSenior}

func (b AgeBucket) String() string {
	switch b {
	case BucketChildren:
		return "children"
	case BucketYoungAdult:
		return "youngAdult"
	case BucketMiddleAged:
		return "middleAged"
	case BucketSenior:
		return "senior"
	}
	return fmt.Sprintf("AgeBucket(%d)", uint8(b))
}

// Label returns the human-readable range label used on charts.
func (b AgeBucket) Label() string {
	switch b {
	case BucketChildren:
		return "Children (0-17)"
	case BucketYoungAdult:
		return "Young Adults (18-35)"
	case BucketMiddleAged:
		return "Middle-aged (36-55)"
	case BucketSenior:
		return "Seniors (56+)"
	}
	return b.String()
}

// ParseAgeBucket accepts the canonical bucket tags (case-insensitive).
func ParseAgeBucket(s string) (AgeBucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "children":
		return BucketChildren, nil
	case "youngadult":
		return BucketYoungAdult, nil
	case "middleaged":
		return BucketMiddleAged, nil
	case "senior":
		return BucketSenior, nil
	}
	return 0, fmt.Errorf("unknown age bucket %q", s)
}

// BucketForAge places an age into its bucket. Ages are validated to
// [0, MaxAge] before this is called.
func BucketForAge(age int) AgeBucket {
	switch {
	case age < 18:
		return BucketChildren
	case age < 36:
		return BucketYoungAdult
	case age < 56:
		return BucketMiddleAged
	default:
		return BucketSenior
	}
}

// Weekday is a Monday-first day of week, so that weekly groupings are
// intrinsically ordered Mon..Sun.
type Weekday uint8

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (d Weekday) String() string {
	if int(d) < len(weekdayNames) {
		return weekdayNames[d]
	}
	return fmt.Sprintf("Weekday(%d)", uint8(d))
}

// WeekdayOf converts from time.Weekday (Sunday-first) to the Monday-first
// representation.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// Record is one validated appointment event, including fields derived at
// build time. Records are immutable once the store is constructed.
type Record struct {
	PatientID     string
	AppointmentID string
	Gender        Gender
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
	Outcome       Outcome

	// Derived during Build.
	WaitingDays int
	Weekday     Weekday
	AgeBucket   AgeBucket
}
