package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnreadableSource marks a fatal load failure: the input file cannot be
// opened or parsed at all. Callers abort the run on this class of error.
var ErrUnreadableSource = errors.New("unreadable input source")

// Loader reads raw sales data from a tabular source into a RawTable.
// CSV and Excel (xlsx) sources are supported; the format is chosen by file
// extension.
type Loader struct {
	sheetName string
	logger    *slog.Logger
}

// NewLoader creates a loader. sheetName selects the Excel sheet to read and
// is ignored for CSV sources; empty means the first sheet.
func NewLoader(sheetName string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{sheetName: sheetName, logger: logger}
}

// Load reads the file at path into a RawTable. The first non-empty row is
// taken as the header. Row-level defects are not judged here; that is the
// cleaner's job.
func (l *Loader) Load(path string) (*RawTable, error) {
	l.logger.Info("loading raw sales data", slog.String("path", path))

	var (
		table *RawTable
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		table, err = l.loadExcel(path)
	default:
		table, err = l.loadCSV(path)
	}
	if err != nil {
		return nil, err
	}

	l.logger.Info("loaded raw sales data",
		slog.String("path", path),
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", len(table.Rows)))
	return table, nil
}

func (l *Loader) loadCSV(path string) (*RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnreadableSource, path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrUnreadableSource, err)
	}

	table := &RawTable{Columns: header}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read row: %v", ErrUnreadableSource, err)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func (l *Loader) loadExcel(path string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnreadableSource, path, err)
	}
	defer f.Close()

	sheet := l.sheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableSource)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %v", ErrUnreadableSource, sheet, err)
	}

	// Skip leading blank rows before the header.
	start := 0
	for start < len(rows) && rowEmpty(rows[start]) {
		start++
	}
	if start >= len(rows) {
		return nil, fmt.Errorf("%w: sheet %s is empty", ErrUnreadableSource, sheet)
	}

	table := &RawTable{Columns: rows[start]}
	for _, row := range rows[start+1:] {
		if rowEmpty(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Validate checks that every required column of the schema is present in the
// table header. It fails closed: all missing columns are reported and any
// missing column fails validation. Row-level validity is the cleaner's job.
func Validate(table *RawTable, schema Schema) (bool, []string) {
	var errs []string
	present := make(map[string]struct{}, len(table.Columns))
	for _, col := range table.Columns {
		present[strings.TrimSpace(col)] = struct{}{}
	}
	for _, required := range schema.RequiredColumns() {
		if _, ok := present[required]; !ok {
			errs = append(errs, fmt.Sprintf("missing required column: %s", required))
		}
	}
	return len(errs) == 0, errs
}
