package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoaderCSV(t *testing.T) {
	path := writeTempCSV(t, "date,model,units_sold,avg_price\n2022-01-05,A,100,10.5\n2022-01-06,B,50,20\n")

	loader := NewLoader("", nil)
	table, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "model", "units_sold", "avg_price"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"2022-01-05", "A", "100", "10.5"}, table.Rows[0])
}

func TestLoaderMissingFile(t *testing.T) {
	loader := NewLoader("", nil)
	_, err := loader.Load(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadableSource)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		columns  []string
		wantOK   bool
		wantErrs int
	}{
		{
			name:    "all required columns present",
			columns: []string{"date", "model", "units_sold", "avg_price"},
			wantOK:  true,
		},
		{
			name:    "extra columns allowed",
			columns: []string{"date", "region", "model", "units_sold", "avg_price"},
			wantOK:  true,
		},
		{
			name:     "one missing column",
			columns:  []string{"date", "model", "units_sold"},
			wantOK:   false,
			wantErrs: 1,
		},
		{
			name:     "all columns missing are each reported",
			columns:  []string{"foo", "bar"},
			wantOK:   false,
			wantErrs: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, errs := Validate(&RawTable{Columns: tt.columns}, DefaultSchema())
			assert.Equal(t, tt.wantOK, ok)
			assert.Len(t, errs, tt.wantErrs)
		})
	}
}

func TestSchemaParseDate(t *testing.T) {
	schema := DefaultSchema()

	tests := []struct {
		value   string
		wantErr bool
	}{
		{"2022-01-05", false},
		{"2022/01/05", false},
		{"2022-01", false},
		{"2022-01-05 13:45:00", false},
		{"05.01.2022", true},
		{"", true},
		{"garbage", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			_, err := schema.ParseDate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
