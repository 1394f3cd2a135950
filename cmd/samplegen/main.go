// Command samplegen writes a deterministic synthetic sales dataset for
// demos and local testing. The generator is seeded, so identical flags
// produce identical files.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var productLine = []struct {
	name       string
	basePrice  float64
	baseVolume int
}{
	{"Apex 3", 42000, 850},
	{"Apex 5", 55000, 620},
	{"Apex 7", 88000, 180},
	{"Crossway X1", 38000, 480},
	{"Crossway X3", 45000, 920},
	{"Crossway X5", 62000, 720},
	{"Volt e4", 58000, 320},
	{"Volt eX", 85000, 210},
	{"Sport M3", 72000, 150},
	{"Sport M5", 105000, 95},
}

func main() {
	months := flag.Int("months", 24, "number of months of data to generate")
	seed := flag.Int64("seed", 42, "random seed")
	output := flag.String("out", filepath.Join("data", "raw", "sales_data.csv"), "output CSV path")
	flag.Parse()

	if err := generate(*months, *seed, *output); err != nil {
		slog.Error("Failed to generate sample data", "error", err)
		os.Exit(1)
	}
}

func generate(months int, seed int64, output string) error {
	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"date", "model", "units_sold", "avg_price"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rows := 0
	for m := 0; m < months; m++ {
		date := start.AddDate(0, m, 0)
		trend := 1 + float64(m)*0.01
		seasonal := 1 + 0.2*math.Sin(2*math.Pi*float64(m)/12)

		for _, p := range productLine {
			units := int64(float64(p.baseVolume) * trend * seasonal * uniform(rng, 0.85, 1.15))
			price := p.basePrice * uniform(rng, 0.95, 1.05)

			err := writer.Write([]string{
				date.Format("2006-01-02"),
				p.name,
				strconv.FormatInt(units, 10),
				strconv.FormatFloat(price, 'f', 2, 64),
			})
			if err != nil {
				return fmt.Errorf("write row: %w", err)
			}
			rows++
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	slog.Info("Generated sample sales data",
		"path", output,
		"rows", rows,
		"months", months)
	return nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
