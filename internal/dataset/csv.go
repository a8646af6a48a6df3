package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Source column names of the appointments export. Order in the file is
// irrelevant; columns are resolved through the header row.
const (
	colPatientID     = "PatientId"
	colAppointmentID = "AppointmentID"
	colGender        = "Gender"
	colScheduledDay  = "ScheduledDay"
	colAppointment   = "AppointmentDay"
	colAge           = "Age"
	colNeighborhood  = "Neighbourhood"
	colScholarship   = "Scholarship"
	colHypertension  = "Hipertension"
	colDiabetes      = "Diabetes"
	colAlcoholism    = "Alcoholism"
	colHandicap      = "Handcap"
	colSMSReceived   = "SMS_received"
	colNoShow        = "No-show"
)

var requiredColumns = []string{
	colPatientID, colAppointmentID, colGender, colScheduledDay, colAppointment,
	colAge, colNeighborhood, colScholarship, colHypertension, colDiabetes,
	colAlcoholism, colHandicap, colSMSReceived, colNoShow,
}

// timestampFormats are tried in order when parsing date columns.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// LoadCSV reads an appointments CSV file, drops rows that fail parsing or
// validation, and builds the store from the remainder. Every rejection is
// returned as a RowIssue keyed by source file row so operators get a full
// summary rather than a first failure.
func LoadCSV(path string, logger *zap.Logger) (*Store, []RowIssue, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	store, issues, err := ReadCSV(file)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Dataset loaded",
		zap.String("path", path),
		zap.Int("records", store.Len()),
		zap.Int("rejected_rows", len(issues)),
	)
	for _, issue := range issues {
		logger.Warn("Rejected dataset row",
			zap.Int("row", issue.Row),
			zap.String("field", issue.Field),
			zap.String("reason", issue.Reason),
		)
	}
	return store, issues, nil
}

// ReadCSV parses appointment rows from r and builds a store in drop-invalid
// mode. Issue row numbers refer to file rows (header is row 1).
func ReadCSV(r io.Reader) (*Store, []RowIssue, error) {
	bufReader := bufio.NewReaderSize(r, 256*1024)

	// Skip UTF-8 BOM if present.
	if bom, err := bufReader.Peek(3); err == nil && len(bom) >= 3 &&
		bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = bufReader.Discard(3)
	}

	reader := csv.NewReader(bufReader)
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header row: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := colIdx[name]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", name)
		}
	}

	titler := cases.Title(language.Und)
	var (
		rows    []Row
		srcRows []int
		issues  []RowIssue
		fileRow = 1 // header
	)
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		fileRow++
		if err != nil {
			issues = append(issues, RowIssue{Row: fileRow, Field: "-", Reason: err.Error()})
			continue
		}

		row, parseIssues := parseRow(fields, colIdx, fileRow, titler)
		if len(parseIssues) > 0 {
			issues = append(issues, parseIssues...)
			continue
		}
		rows = append(rows, row)
		srcRows = append(srcRows, fileRow)
	}

	store, buildIssues, err := Builder{DropInvalid: true}.Build(rows)
	if err != nil {
		return nil, nil, err
	}
	// Build reports issues by slice position; remap to source file rows.
	for _, issue := range buildIssues {
		issue.Row = srcRows[issue.Row]
		issues = append(issues, issue)
	}
	return store, issues, nil
}

// parseRow converts one CSV record into a raw Row, collecting an issue per
// unparsable field.
func parseRow(fields []string, colIdx map[string]int, fileRow int, titler cases.Caser) (Row, []RowIssue) {
	var issues []RowIssue
	get := func(col string) string {
		i := colIdx[col]
		if i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}
	getInt := func(col string) int {
		v, err := strconv.Atoi(get(col))
		if err != nil {
			issues = append(issues, RowIssue{Row: fileRow, Field: col, Reason: fmt.Sprintf("not an integer: %q", get(col))})
		}
		return v
	}
	getFlag := func(col string) bool {
		v, err := strconv.ParseBool(get(col))
		if err != nil {
			issues = append(issues, RowIssue{Row: fileRow, Field: col, Reason: fmt.Sprintf("not a flag: %q", get(col))})
		}
		return v
	}
	getTime := func(col string) time.Time {
		raw := get(col)
		for _, format := range timestampFormats {
			if t, err := time.Parse(format, raw); err == nil {
				return t
			}
		}
		issues = append(issues, RowIssue{Row: fileRow, Field: col, Reason: fmt.Sprintf("not a timestamp: %q", raw)})
		return time.Time{}
	}

	row := Row{
		PatientID:     get(colPatientID),
		AppointmentID: get(colAppointmentID),
		Gender:        get(colGender),
		ScheduledAt:   getTime(colScheduledDay),
		AppointmentAt: getTime(colAppointment),
		Age:           getInt(colAge),
		Neighborhood:  titler.String(strings.ToLower(get(colNeighborhood))),
		Scholarship:   getFlag(colScholarship),
		Hypertension:  getFlag(colHypertension),
		Diabetes:      getFlag(colDiabetes),
		Alcoholism:    getFlag(colAlcoholism),
		Handicap:      getInt(colHandicap),
		SMSReceived:   getFlag(colSMSReceived),
		Outcome:       get(colNoShow),
	}
	return row, issues
}
