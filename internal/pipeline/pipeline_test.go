package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/config"
	"salespulse/internal/dataset"
)

const sampleCSV = `date,model,units_sold,avg_price
2022-01-05,Apex,100,30000
2022-01-12,Volt,60,45000
2022-02-05,Apex,110,31000
2022-02-12,Volt,48,50000
2022-02-12,Volt,48,50000
2022-03-05,Apex,not-a-number,31000
2022-03-12,Volt,50,0
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()

	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ProcessedDir = filepath.Join(base, "data", "processed")
	cfg.Paths.ReportsDir = filepath.Join(base, "reports")
	cfg.Paths.TablesDir = filepath.Join(base, "reports", "tables")
	cfg.Paths.LogsDir = filepath.Join(base, "logs")

	input := filepath.Join(base, "sales.csv")
	require.NoError(t, os.WriteFile(input, []byte(sampleCSV), 0o644))
	cfg.Data.InputFile = input
	return &cfg
}

func fixedNow() time.Time {
	now, _ := time.Parse("2006-01-02", "2022-07-01")
	return now
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	runner := NewRunner(cfg, nil, fixedNow)

	result, err := runner.Run(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.RunID)

	// 7 raw rows: one duplicate, one unparseable unit count, one zero price.
	assert.Equal(t, 4, result.Summary.TotalRows)
	assert.Equal(t, 2, result.Summary.ProductCount)

	require.NotNil(t, result.Metrics)
	assert.False(t, result.Metrics.IsEmpty())
	assert.Len(t, result.Metrics.Trends.Monthly, 2)

	require.Len(t, result.Artifacts, 5)
	for _, path := range result.Artifacts {
		_, err := os.Stat(path)
		assert.NoError(t, err, "artifact %s must exist", path)
	}

	assert.Equal(t, filepath.Join(cfg.Paths.ReportsDir, "executive_report_20220701.md"), result.ReportPath)
	_, err = os.Stat(result.ReportPath)
	assert.NoError(t, err)
}

func TestRunDeterministic(t *testing.T) {
	cfg := testConfig(t)
	runner := NewRunner(cfg, nil, fixedNow)

	first, err := runner.Run(context.Background(), "")
	require.NoError(t, err)
	second, err := runner.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Metrics, second.Metrics)
	assert.Equal(t, first.Steps, second.Steps)
}

func TestRunMissingColumnsFails(t *testing.T) {
	cfg := testConfig(t)
	input := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(input, []byte("date,units_sold\n2022-01-05,100\n"), 0o644))

	runner := NewRunner(cfg, nil, fixedNow)
	_, err := runner.Run(context.Background(), input)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestRunUnreadableSource(t *testing.T) {
	cfg := testConfig(t)
	runner := NewRunner(cfg, nil, fixedNow)

	_, err := runner.Run(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrUnreadableSource)
}

func TestRunCustomColumnNames(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.ProductColumn = "vehicle"

	input := filepath.Join(t.TempDir(), "renamed.csv")
	csv := "date,vehicle,units_sold,avg_price\n2022-01-05,Apex,100,30000\n2022-02-05,Apex,110,31000\n"
	require.NoError(t, os.WriteFile(input, []byte(csv), 0o644))

	runner := NewRunner(cfg, nil, fixedNow)
	result, err := runner.Run(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Summary.TotalRows)
	assert.Equal(t, "Apex", result.Metrics.Performance.Leaders.BestSelling)
}

func TestCleanOnly(t *testing.T) {
	cfg := testConfig(t)
	runner := NewRunner(cfg, nil, fixedNow)

	cleaned, err := runner.Clean(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 7, cleaned.Input)
	assert.Equal(t, 4, cleaned.Kept)
	assert.Len(t, cleaned.Dataset, 4)

	assert.Equal(t, 1, cleaned.DroppedByStep(dataset.StepDuplicates))
	assert.Equal(t, 1, cleaned.DroppedByStep(dataset.StepCoerceNumerics))
	assert.Equal(t, 1, cleaned.DroppedByStep(dataset.StepNonPositive))
}
