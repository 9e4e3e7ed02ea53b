package dataset

import (
	"strconv"
	"strings"
)

// DType is the storage type inferred for a column at ingestion time.
type DType string

const (
	DTypeInt64   DType = "int64"
	DTypeFloat64 DType = "float64"
	DTypeBool    DType = "bool"
	DTypeObject  DType = "object"
)

// IsNumeric reports whether the dtype participates in numeric profiling.
func (d DType) IsNumeric() bool {
	return d == DTypeInt64 || d == DTypeFloat64
}

// IsCategorical reports whether the dtype participates in categorical
// profiling and consistency checks. Bool columns are deliberately neither.
func (d DType) IsCategorical() bool {
	return d == DTypeObject
}

// Cell is a single nullable value. Raw keeps the ingested text form so
// duplicate detection and categorical folding see exactly what was uploaded.
type Cell struct {
	Raw  string
	Null bool
}

// Column is an ordered sequence of typed, nullable cells.
type Column struct {
	Name  string
	DType DType
	Cells []Cell
}

// NullCount returns the number of null cells.
func (c *Column) NullCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.Null {
			n++
		}
	}
	return n
}

// NonNullStrings returns the raw values of all non-null cells in order.
func (c *Column) NonNullStrings() []string {
	out := make([]string, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if !cell.Null {
			out = append(out, cell.Raw)
		}
	}
	return out
}

// NonNullFloats parses all non-null cells as float64 in order.
// Cells that fail to parse are skipped; ingestion type inference makes
// that rare for numeric columns.
func (c *Column) NonNullFloats() []float64 {
	out := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if cell.Null {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell.Raw), 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// UniqueCount returns the number of distinct non-null raw values.
func (c *Column) UniqueCount() int {
	seen := make(map[string]struct{})
	for _, cell := range c.Cells {
		if !cell.Null {
			seen[cell.Raw] = struct{}{}
		}
	}
	return len(seen)
}

// SampleValues returns up to n non-null raw values in encounter order.
func (c *Column) SampleValues(n int) []string {
	out := make([]string, 0, n)
	for _, cell := range c.Cells {
		if cell.Null {
			continue
		}
		out = append(out, cell.Raw)
		if len(out) >= n {
			break
		}
	}
	return out
}

// Dataset is an immutable tabular dataset: an ordered sequence of named
// columns of equal length.
type Dataset struct {
	Name    string
	Columns []Column
}

// Rows returns the row count (all columns share it).
func (d *Dataset) Rows() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Cells)
}

// Column returns the named column, or nil if absent.
func (d *Dataset) Column(name string) *Column {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i]
		}
	}
	return nil
}

// ApproxMemoryBytes estimates in-memory size: raw bytes plus fixed
// per-cell overhead. Matches how the ingestion layer reports dataset size.
func (d *Dataset) ApproxMemoryBytes() int64 {
	const cellOverhead = 16
	var total int64
	for _, col := range d.Columns {
		for _, cell := range col.Cells {
			total += int64(len(cell.Raw)) + cellOverhead
		}
	}
	return total
}

// MemoryUsageMB returns the estimated memory footprint in megabytes.
func (d *Dataset) MemoryUsageMB() float64 {
	return float64(d.ApproxMemoryBytes()) / (1024 * 1024)
}
