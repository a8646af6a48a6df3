package main

import (
	"encoding/csv"
	"flag"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"
)

var (
	outPath     = flag.String("out", "appointments.csv", "Output CSV path ('-' for stdout)")
	rowCount    = flag.Int("rows", 5000, "Number of rows to generate")
	seed        = flag.Int64("seed", 0, "Random seed (0 = time-based)")
	invalidFrac = flag.Float64("invalid", 0, "Fraction of deliberately invalid rows")
)

var header = []string{
	"PatientId", "AppointmentID", "Gender", "ScheduledDay", "AppointmentDay",
	"Age", "Neighbourhood", "Scholarship", "Hipertension", "Diabetes",
	"Alcoholism", "Handcap", "SMS_received", "No-show",
}

var neighborhoods = []string{
	"JARDIM CAMBURI", "MARIA ORTIZ", "RESISTENCIA", "JARDIM DA PENHA",
	"ITARARE", "CENTRO", "TABUAZEIRO", "SANTA MARTHA", "JESUS DE NAZARETH",
	"BONFIM", "SANTO ANTONIO", "CARATOIRA", "SAO PEDRO", "ILHA DO PRINCIPE",
	"ANDORINHAS", "DA PENHA", "ROMAO", "GURIGICA", "SAO CRISTOVAO", "MARUIPE",
}

func main() {
	flag.Parse()

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(s))

	out := os.Stdout
	if *outPath != "-" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("Error creating output file: %v", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Fatalf("Error closing output file: %v", err)
			}
		}()
		out = f
	}

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		log.Fatalf("Error writing header: %v", err)
	}
	for i := 0; i < *rowCount; i++ {
		row := generateRow(rng, i)
		if rng.Float64() < *invalidFrac {
			corruptRow(rng, row)
		}
		if err := w.Write(row); err != nil {
			log.Fatalf("Error writing row %d: %v", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("Error flushing output: %v", err)
	}
	log.Printf("Generated %d rows (seed %d) to %s", *rowCount, s, *outPath)
}

// generateRow produces one plausible appointment row in the source export
// layout.
func generateRow(rng *rand.Rand, n int) []string {
	gender := "F"
	if rng.Float64() < 0.35 {
		gender = "M"
	}
	age := rng.Intn(95)

	// Scheduling time somewhere in the first half of 2016, appointment a
	// skewed number of days later (most appointments are booked close in).
	scheduled := time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC).
		Add(time.Duration(rng.Intn(180*24)) * time.Hour)
	waiting := int(rng.ExpFloat64() * 8)
	if waiting > 90 {
		waiting = 90
	}
	appointment := scheduled.Truncate(24 * time.Hour).AddDate(0, 0, waiting)

	sms := waiting > 2 && rng.Float64() < 0.6

	// No-show probability rises with waiting time.
	noShowP := 0.12 + float64(waiting)*0.004
	noShow := "No"
	if rng.Float64() < noShowP {
		noShow = "Yes"
	}

	handicap := 0
	if rng.Float64() < 0.02 {
		handicap = 1 + rng.Intn(4)
	}

	return []string{
		strconv.FormatInt(10_000_000_000_000+rng.Int63n(90_000_000_000_000), 10),
		strconv.Itoa(5_000_000 + n),
		gender,
		scheduled.Format(time.RFC3339),
		appointment.Format(time.RFC3339),
		strconv.Itoa(age),
		neighborhoods[rng.Intn(len(neighborhoods))],
		flag01(rng.Float64() < 0.10),
		flag01(age > 40 && rng.Float64() < 0.35),
		flag01(age > 40 && rng.Float64() < 0.12),
		flag01(rng.Float64() < 0.03),
		strconv.Itoa(handicap),
		flag01(sms),
		noShow,
	}
}

// corruptRow injects one of the violations the ingestion layer is expected
// to reject.
func corruptRow(rng *rand.Rand, row []string) {
	switch rng.Intn(3) {
	case 0: // appointment before scheduling
		scheduled, _ := time.Parse(time.RFC3339, row[3])
		row[4] = scheduled.AddDate(0, 0, -1-rng.Intn(5)).Format(time.RFC3339)
	case 1: // implausible age
		row[5] = strconv.Itoa(131 + rng.Intn(100))
	case 2: // missing patient identifier
		row[0] = ""
	}
}

func flag01(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
