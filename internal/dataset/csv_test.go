package dataset

import (
	"strings"
	"testing"
)

const csvHeader = "PatientId,AppointmentID,Gender,ScheduledDay,AppointmentDay,Age,Neighbourhood,Scholarship,Hipertension,Diabetes,Alcoholism,Handcap,SMS_received,No-show"

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		csvHeader,
		"29872499824296,5642903,F,2016-04-29T18:38:08Z,2016-05-02T00:00:00Z,62,JARDIM DA PENHA,0,1,0,0,0,0,No",
		"558997776694438,5642503,M,2016-04-27T08:36:51Z,2016-04-29T00:00:00Z,150,MATA DA PRAIA,0,0,0,0,0,1,Yes",
		"4262962299951,5642549,F,2016-04-29T16:07:23Z,2016-04-29T00:00:00Z,abc,PONTAL DE CAMBURI,0,0,0,0,0,0,No",
	}, "\n")

	store, issues, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 valid record, got %d", store.Len())
	}
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %v", len(issues), issues)
	}

	// Issues carry source file row numbers (header is row 1). Parse
	// failures surface before validation failures.
	if issues[0].Row != 4 || issues[0].Field != "Age" {
		t.Errorf("expected parse issue on row 4 field Age, got row %d field %q", issues[0].Row, issues[0].Field)
	}
	if issues[1].Row != 3 || issues[1].Field != "age" {
		t.Errorf("expected validation issue on row 3 field age, got row %d field %q", issues[1].Row, issues[1].Field)
	}

	r := store.Record(0)
	if r.Neighborhood != "Jardim Da Penha" {
		t.Errorf("expected title-cased neighborhood, got %q", r.Neighborhood)
	}
	if !r.Hypertension {
		t.Error("expected hypertension flag set")
	}
	if r.WaitingDays != 3 {
		t.Errorf("expected waiting days 3, got %d", r.WaitingDays)
	}
}

func TestReadCSVHandlesBOM(t *testing.T) {
	input := "\ufeff" + csvHeader + "\n" +
		"1234,1,M,2016-04-29T10:00:00Z,2016-04-30T00:00:00Z,30,CENTRO,0,0,0,0,0,0,No"

	store, issues, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", store.Len())
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	input := "PatientId,Gender\n1234,F"
	if _, _, err := ReadCSV(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for missing required column")
	}
}

func TestReadCSVColumnOrderIrrelevant(t *testing.T) {
	input := "No-show,PatientId,AppointmentID,Gender,ScheduledDay,AppointmentDay,Age,Neighbourhood,Scholarship,Hipertension,Diabetes,Alcoholism,Handcap,SMS_received\n" +
		"Yes,1234,1,F,2016-04-29T10:00:00Z,2016-05-04T00:00:00Z,25,CENTRO,0,0,0,0,0,1"

	store, _, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	r := store.Record(0)
	if r.Outcome != OutcomeNoShow {
		t.Errorf("expected NoShow, got %s", r.Outcome)
	}
	if !r.SMSReceived {
		t.Error("expected SMS flag set")
	}
	if r.WaitingDays != 5 {
		t.Errorf("expected waiting days 5, got %d", r.WaitingDays)
	}
}
