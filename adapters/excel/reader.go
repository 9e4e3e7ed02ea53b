// Package excel ingests uploaded CSV and Excel files into typed datasets.
package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"datascout/domain/dataset"
	"datascout/internal/errors"
)

// DataReader handles reading Excel and CSV files into typed datasets.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	maxRows  int    // data rows beyond this are dropped, 0 means no cap
}

// NewDataReader creates a reader for the given file. The extension decides
// the format; anything that is not .csv is treated as xlsx.
func NewDataReader(filePath string, maxRows int) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, maxRows: maxRows}
}

// Read implements ports.DatasetReader.
func (r *DataReader) Read(path string) (*dataset.Dataset, error) {
	reader := NewDataReader(path, r.maxRows)
	return reader.ReadData()
}

// ReadData reads the file into a typed dataset.
func (r *DataReader) ReadData() (*dataset.Dataset, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.IngestFailed(fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath))
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, errors.IngestFailed(fmt.Errorf("unsupported file type: %s", r.fileType))
	}
	if err != nil {
		return nil, errors.IngestFailed(err)
	}

	if len(rows) < 2 {
		return nil, errors.IngestFailed(fmt.Errorf("file must have at least a header row and one data row"))
	}

	ds, err := r.processRows(rows)
	if err != nil {
		return nil, errors.IngestFailed(err)
	}
	return ds, nil
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	log.Printf("[DataReader] Excel file opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)

	sheet := f.GetSheetName(0)
	if sheet == "" {
		sheet = "Sheet1"
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	log.Printf("[DataReader] Sheet %s read (%d rows)", sheet, len(rows))
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV file read (%d rows)", len(rows))
	return rows, nil
}

// processRows turns header plus data rows into typed columns. Data rows
// beyond the cap are dropped, never sampled, so analyses stay reproducible.
func (r *DataReader) processRows(rows [][]string) (*dataset.Dataset, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		h := strings.TrimSpace(header)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		headers[i] = h
	}

	dataRows := rows[1:]
	if r.maxRows > 0 && len(dataRows) > r.maxRows {
		log.Printf("[DataReader] Capping %d data rows to %d", len(dataRows), r.maxRows)
		dataRows = dataRows[:r.maxRows]
	}

	columns := make([]dataset.Column, len(headers))
	for c, name := range headers {
		cells := make([]dataset.Cell, len(dataRows))
		for i, row := range dataRows {
			raw := ""
			if c < len(row) {
				raw = strings.TrimSpace(row[c])
			}
			if isNullMarker(raw) {
				cells[i] = dataset.Cell{Null: true}
			} else {
				cells[i] = dataset.Cell{Raw: raw}
			}
		}
		columns[c] = dataset.Column{
			Name:  name,
			DType: inferDType(cells),
			Cells: cells,
		}
	}

	name := strings.TrimSuffix(filepath.Base(r.filePath), filepath.Ext(r.filePath))
	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(columns), len(dataRows))

	return &dataset.Dataset{Name: name, Columns: columns}, nil
}

func isNullMarker(raw string) bool {
	switch strings.ToLower(raw) {
	case "", "na", "n/a", "null", "nan", "none":
		return true
	}
	return false
}

// inferDType classifies a column from its non-null cells: all integers is
// int64, all numeric with a fraction is float64, all true/false is bool,
// everything else is object. Columns with no non-null cells are object.
func inferDType(cells []dataset.Cell) dataset.DType {
	sawValue := false
	allInt := true
	allFloat := true
	allBool := true

	for _, cell := range cells {
		if cell.Null {
			continue
		}
		sawValue = true
		v := cell.Raw

		if allBool {
			switch strings.ToLower(v) {
			case "true", "false":
			default:
				allBool = false
			}
		}
		if allFloat {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || math.IsInf(f, 0) {
				allFloat = false
				allInt = false
			} else if allInt {
				if _, err := strconv.ParseInt(v, 10, 64); err != nil {
					allInt = false
				}
			}
		}
	}

	switch {
	case !sawValue:
		return dataset.DTypeObject
	case allBool:
		return dataset.DTypeBool
	case allInt:
		return dataset.DTypeInt64
	case allFloat:
		return dataset.DTypeFloat64
	default:
		return dataset.DTypeObject
	}
}
