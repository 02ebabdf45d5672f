// Command genmock writes a mock dam-levels CSV in the clerks' sheet
// layout, for local development and test fixtures. Serve the file with
// any static HTTP server and point DAMLEVELS_SHEET_URL at it. The
// generated table is run back through the actual domain package so the
// fixture is guaranteed to normalize and derive cleanly.
//
// Usage:
//
//	go run ./cmd/genmock -out testdata/dam_levels.csv -days 7 -seed 1
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/reservoirwatch/dam-levels/internal/domain"
)

var baseDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// header mirrors the clerks' column layout, punctuation and all.
var header = []string{
	"SR. No", "Name Of Dam", "Top of Dam FT", "H.F.L Ft", "D.S.L Ft",
	"N.P.L Ft", "P.P.L Ft", "Spill_Diff", "Total Live Storage", "Status", "Date",
}

var damNames = []string{
	"Khari", "Misriot", "Jabba", "Bhalwal", "Dhok Tahlian",
	"Dungi", "Khokhar Zer", "Surla", "Jamal", "Ratta Kass",
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the mock CSV")
	days := flag.Int("days", 7, "number of consecutive days to generate")
	dams := flag.Int("dams", len(damNames), "number of dams per day")
	seed := flag.Int64("seed", 1, "random seed, fixed for reproducible fixtures")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *dams > len(damNames) {
		return fmt.Errorf("at most %d dams available, got -dams %d", len(damNames), *dams)
	}

	rng := rand.New(rand.NewSource(*seed))
	records := [][]string{header}
	for day := 0; day < *days; day++ {
		date := baseDate.AddDate(0, 0, day)
		for i := 0; i < *dams; i++ {
			records = append(records, mockRow(rng, i+1, damNames[i], date))
		}
	}

	// Round-trip through the real pipeline stages so a fixture the
	// service would reject never ships.
	table := tableFromRecords(records)
	normalized, err := domain.NormalizeTable(table)
	if err != nil {
		return fmt.Errorf("generated table failed normalization: %w", err)
	}
	readings, stats := domain.DeriveReadings(normalized)
	if stats.BadDates > 0 {
		return fmt.Errorf("generated table has %d unparseable dates", stats.BadDates)
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}

	log.Printf("wrote %s: %d readings over %d days, %d degraded cells",
		*out, len(readings), *days, stats.Total())
	return nil
}

// mockRow fabricates one dam's report for one day. Roughly one dam in
// eight is dead, and one in ten stands above its spillway.
func mockRow(rng *rand.Rand, srNo int, dam string, date time.Time) []string {
	top := 900 + rng.Float64()*300
	hfl := top - 5
	dsl := top - 40 - rng.Float64()*20
	npl := top - 10
	ppl := dsl + rng.Float64()*(npl-dsl)

	spill := npl - ppl
	if rng.Intn(10) == 0 {
		spill = -(rng.Float64() * 3)
	}

	status := "Dead"
	liveStorage := 0.0
	if rng.Intn(8) != 0 {
		depth := ppl - dsl
		status = fmt.Sprintf("%.2f Ft Live", depth)
		liveStorage = depth * (50 + rng.Float64()*150)
	}

	return []string{
		fmt.Sprintf("%d", srNo),
		dam,
		fmt.Sprintf("%.2f", top),
		fmt.Sprintf("%.2f", hfl),
		fmt.Sprintf("%.2f", dsl),
		fmt.Sprintf("%.2f", npl),
		fmt.Sprintf("%.2f", ppl),
		fmt.Sprintf("%.2f", spill),
		fmt.Sprintf("%.2f", liveStorage),
		status,
		date.Format("02/01/06"),
	}
}

func tableFromRecords(records [][]string) domain.RawTable {
	columns := records[0]
	rows := make([]domain.RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(domain.RawRow, len(columns))
		for i, label := range columns {
			if i < len(record) {
				row[label] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return domain.RawTable{Columns: columns, Rows: rows}
}
