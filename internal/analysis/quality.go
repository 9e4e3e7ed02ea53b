package analysis

import (
	"sort"
	"strings"

	"datascout/domain/analysis"
	"datascout/domain/dataset"
)

// MissingReport describes the null cells of one column.
type MissingReport struct {
	Count      int
	Percentage float64
}

// Missing counts null cells against total rows. Returns false when the
// column has no nulls.
func Missing(col *dataset.Column) (MissingReport, bool) {
	total := len(col.Cells)
	if total == 0 {
		return MissingReport{}, false
	}
	n := col.NullCount()
	if n == 0 {
		return MissingReport{}, false
	}
	return MissingReport{
		Count:      n,
		Percentage: float64(n) / float64(total) * 100,
	}, true
}

// MissingSeverity grades a missing-value percentage. Comparisons use the
// unrounded percentage.
func MissingSeverity(pct float64) analysis.Severity {
	switch {
	case pct > 50:
		return analysis.SeverityCritical
	case pct > 20:
		return analysis.SeverityWarnings
	default:
		return analysis.SeverityInfo
	}
}

// DuplicateRows counts rows that are exact repeats of an earlier row.
// Null cells compare equal to each other and never equal to a value.
func DuplicateRows(ds *dataset.Dataset) int {
	rows := ds.Rows()
	if rows == 0 || len(ds.Columns) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, rows)
	dups := 0
	var b strings.Builder
	for i := 0; i < rows; i++ {
		b.Reset()
		for c := range ds.Columns {
			cell := ds.Columns[c].Cells[i]
			if cell.Null {
				b.WriteString("\x00N")
			} else {
				b.WriteString("\x00V")
				b.WriteString(cell.Raw)
			}
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			dups++
		} else {
			seen[key] = struct{}{}
		}
	}
	return dups
}

// DuplicateSeverity grades a duplicate-row percentage.
func DuplicateSeverity(pct float64) analysis.Severity {
	if pct > 5 {
		return analysis.SeverityWarnings
	}
	return analysis.SeverityInfo
}

// OutlierReport describes the values of one numeric column outside the
// Tukey fences.
type OutlierReport struct {
	Count      int
	Percentage float64
	LowerBound float64
	UpperBound float64
}

// Outliers applies 1.5 IQR fences to the non-null values of a numeric
// column. The percentage counts against total rows, the same base as
// Missing, so null cells do not inflate it. Returns false when no value
// lies outside the fences or the column has no parseable values.
func Outliers(col *dataset.Column) (OutlierReport, bool) {
	data := col.NonNullFloats()
	if len(data) == 0 {
		return OutlierReport{}, false
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	count := 0
	for _, v := range data {
		if v < lower || v > upper {
			count++
		}
	}
	if count == 0 {
		return OutlierReport{}, false
	}
	return OutlierReport{
		Count:      count,
		Percentage: float64(count) / float64(len(col.Cells)) * 100,
		LowerBound: lower,
		UpperBound: upper,
	}, true
}

// OutlierSeverity grades an outlier percentage.
func OutlierSeverity(pct float64) analysis.Severity {
	if pct > 10 {
		return analysis.SeverityWarnings
	}
	return analysis.SeverityInfo
}

// InconsistentCategories counts raw category spellings that collapse onto
// another spelling after lowercasing and trimming whitespace. Columns with
// a single distinct value or 100 or more are skipped: the former cannot be
// inconsistent and the latter are treated as free text. Returns false when
// nothing collapses.
func InconsistentCategories(col *dataset.Column) (int, bool) {
	distinct := make(map[string]struct{})
	for _, cell := range col.Cells {
		if !cell.Null {
			distinct[cell.Raw] = struct{}{}
		}
	}
	if len(distinct) <= 1 || len(distinct) >= 100 {
		return 0, false
	}

	folded := make(map[string]int, len(distinct))
	for raw := range distinct {
		folded[strings.ToLower(strings.TrimSpace(raw))]++
	}

	inconsistent := 0
	for _, n := range folded {
		if n > 1 {
			inconsistent += n - 1
		}
	}
	if inconsistent == 0 {
		return 0, false
	}
	return inconsistent, true
}
