// Package analysis computes the deterministic statistics the agents feed
// into generation: numeric summaries, categorical frequency tables, and
// the data quality checks.
package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"datascout/domain/analysis"
	"datascout/domain/dataset"
)

// Pattern labels derived from skewness.
const (
	PatternNormal      = "normal distribution"
	PatternRightSkewed = "right skewed"
	PatternLeftSkewed  = "left skewed"
)

// NumericSummary holds the deterministic part of a numeric column profile.
type NumericSummary struct {
	Mean     float64
	Median   float64
	Std      float64
	Min      float64
	Max      float64
	Q25      float64
	Q75      float64
	Skewness float64
	IsNormal bool
	Pattern  string
}

// DescribeNumeric computes summary statistics over the non-null values of
// a numeric column. Returns false when the column has no parseable values.
func DescribeNumeric(col *dataset.Column) (NumericSummary, bool) {
	data := col.NonNullFloats()
	if len(data) == 0 {
		return NumericSummary{}, false
	}

	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	std, _ := stats.StandardDeviation(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	q25 := Quantile(sorted, 0.25)
	q75 := Quantile(sorted, 0.75)

	skew := Skewness(data, mean, std)
	isNormal, _ := TestNormality(data, mean, std)

	return NumericSummary{
		Mean:     mean,
		Median:   median,
		Std:      std,
		Min:      min,
		Max:      max,
		Q25:      q25,
		Q75:      q75,
		Skewness: skew,
		IsNormal: isNormal,
		Pattern:  skewnessPattern(skew),
	}, true
}

func skewnessPattern(skew float64) string {
	switch {
	case math.Abs(skew) < 0.5:
		return PatternNormal
	case skew > 0.5:
		return PatternRightSkewed
	default:
		return PatternLeftSkewed
	}
}

// Quantile returns the q-th quantile of sorted data using linear
// interpolation between closest ranks (type 7). For [1,2,3,4,5,100] the
// quartiles come out as 2.25 and 4.75, matching the rest of the pipeline's
// outlier bounds.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Skewness computes the adjusted Fisher-Pearson coefficient. Columns with
// fewer than three values or zero variance report 0 so their pattern reads
// as normal.
func Skewness(data []float64, mean, std float64) float64 {
	if len(data) < 3 || std == 0 {
		return 0
	}
	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / std
		sum += d * d * d
	}
	skew := sum / n
	skew *= math.Sqrt(n*(n-1)) / (n - 2)
	return skew
}

// CategoricalSummary holds the deterministic part of a categorical column
// profile.
type CategoricalSummary struct {
	Cardinality  int
	TopValue     string
	TopFrequency int
	Top5         []analysis.ValueCount
}

// DescribeCategorical computes the frequency table of a categorical
// column's non-null values. Ties break by first encounter order, so the
// result is stable across runs. Returns false for columns with no non-null
// values.
func DescribeCategorical(col *dataset.Column) (CategoricalSummary, bool) {
	values := col.NonNullStrings()
	if len(values) == 0 {
		return CategoricalSummary{}, false
	}

	counts := make(map[string]int, len(values))
	order := make([]string, 0, len(values))
	for _, v := range values {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	// Stable sort keeps encounter order among equal counts.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	top := make([]analysis.ValueCount, 0, 5)
	for _, v := range order {
		top = append(top, analysis.ValueCount{Value: v, Count: counts[v]})
		if len(top) == 5 {
			break
		}
	}

	return CategoricalSummary{
		Cardinality:  len(counts),
		TopValue:     top[0].Value,
		TopFrequency: top[0].Count,
		Top5:         top,
	}, true
}

// RoundPercent rounds a percentage to two decimal places for reporting.
// Threshold comparisons use the unrounded value.
func RoundPercent(p float64) float64 {
	return math.Round(p*100) / 100
}
