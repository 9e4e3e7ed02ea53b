package analysis

import (
	"math"
	"sort"
	"testing"

	"datascout/domain/dataset"
)

func numericColumn(name string, values ...string) *dataset.Column {
	col := &dataset.Column{Name: name, DType: dataset.DTypeFloat64}
	for _, v := range values {
		if v == "" {
			col.Cells = append(col.Cells, dataset.Cell{Null: true})
		} else {
			col.Cells = append(col.Cells, dataset.Cell{Raw: v})
		}
	}
	return col
}

func objectColumn(name string, values ...string) *dataset.Column {
	col := &dataset.Column{Name: name, DType: dataset.DTypeObject}
	for _, v := range values {
		if v == "" {
			col.Cells = append(col.Cells, dataset.Cell{Null: true})
		} else {
			col.Cells = append(col.Cells, dataset.Cell{Raw: v})
		}
	}
	return col
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestQuantileLinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 100}
	if q1 := Quantile(sorted, 0.25); !almostEqual(q1, 2.25) {
		t.Errorf("Q1 = %v, want 2.25", q1)
	}
	if q3 := Quantile(sorted, 0.75); !almostEqual(q3, 4.75) {
		t.Errorf("Q3 = %v, want 4.75", q3)
	}
	if med := Quantile(sorted, 0.5); !almostEqual(med, 3.5) {
		t.Errorf("median = %v, want 3.5", med)
	}
}

func TestQuantileEdgeCases(t *testing.T) {
	if !math.IsNaN(Quantile(nil, 0.5)) {
		t.Error("empty slice should give NaN")
	}
	if got := Quantile([]float64{7}, 0.25); got != 7 {
		t.Errorf("single value quantile = %v, want 7", got)
	}
	if got := Quantile([]float64{1, 3}, 0.5); !almostEqual(got, 2) {
		t.Errorf("two value median = %v, want 2", got)
	}
}

func TestSkewnessZeroVariance(t *testing.T) {
	data := []float64{5, 5, 5, 5}
	if s := Skewness(data, 5, 0); s != 0 {
		t.Errorf("zero variance skewness = %v, want 0", s)
	}
}

func TestSkewnessSymmetric(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	sum, sq := 0.0, 0.0
	for _, v := range data {
		sum += v
	}
	mean := sum / float64(len(data))
	for _, v := range data {
		sq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sq / float64(len(data)-1))
	if s := Skewness(data, mean, std); !almostEqual(s, 0) {
		t.Errorf("symmetric skewness = %v, want 0", s)
	}
}

func TestDescribeNumeric(t *testing.T) {
	col := numericColumn("amount", "1", "2", "3", "4", "5", "100")
	sum, ok := DescribeNumeric(col)
	if !ok {
		t.Fatal("expected a summary")
	}
	if !almostEqual(sum.Mean, 115.0/6) {
		t.Errorf("mean = %v", sum.Mean)
	}
	if !almostEqual(sum.Median, 3.5) {
		t.Errorf("median = %v", sum.Median)
	}
	if sum.Min != 1 || sum.Max != 100 {
		t.Errorf("min/max = %v/%v", sum.Min, sum.Max)
	}
	if !almostEqual(sum.Q25, 2.25) || !almostEqual(sum.Q75, 4.75) {
		t.Errorf("quartiles = %v/%v, want 2.25/4.75", sum.Q25, sum.Q75)
	}
	if sum.Pattern != PatternRightSkewed {
		t.Errorf("pattern = %q, want right skewed", sum.Pattern)
	}
	if sum.Skewness <= 0.5 {
		t.Errorf("skewness = %v, want > 0.5", sum.Skewness)
	}
}

func TestDescribeNumericSkipsNulls(t *testing.T) {
	col := numericColumn("x", "10", "", "20", "")
	sum, ok := DescribeNumeric(col)
	if !ok {
		t.Fatal("expected a summary")
	}
	if !almostEqual(sum.Mean, 15) {
		t.Errorf("mean = %v, want 15", sum.Mean)
	}
}

func TestDescribeNumericAllNull(t *testing.T) {
	col := numericColumn("x", "", "", "")
	if _, ok := DescribeNumeric(col); ok {
		t.Fatal("all-null column should not produce a summary")
	}
}

func TestDescribeNumericConstant(t *testing.T) {
	col := numericColumn("x", "5", "5", "5", "5")
	sum, ok := DescribeNumeric(col)
	if !ok {
		t.Fatal("expected a summary")
	}
	if sum.Skewness != 0 {
		t.Errorf("constant column skewness = %v, want 0", sum.Skewness)
	}
	if sum.Pattern != PatternNormal {
		t.Errorf("constant column pattern = %q, want normal", sum.Pattern)
	}
	if sum.Std != 0 {
		t.Errorf("constant column std = %v, want 0", sum.Std)
	}
}

func TestDescribeCategorical(t *testing.T) {
	col := objectColumn("status", "active", "inactive", "active", "pending", "active", "inactive")
	sum, ok := DescribeCategorical(col)
	if !ok {
		t.Fatal("expected a summary")
	}
	if sum.Cardinality != 3 {
		t.Errorf("cardinality = %d, want 3", sum.Cardinality)
	}
	if sum.TopValue != "active" || sum.TopFrequency != 3 {
		t.Errorf("top = %q/%d, want active/3", sum.TopValue, sum.TopFrequency)
	}
	if len(sum.Top5) != 3 {
		t.Fatalf("top5 length = %d, want 3", len(sum.Top5))
	}
	// Tie between inactive(2) and nothing; second entry must be inactive.
	if sum.Top5[1].Value != "inactive" || sum.Top5[1].Count != 2 {
		t.Errorf("second = %+v", sum.Top5[1])
	}
}

func TestDescribeCategoricalTieBreaksByEncounterOrder(t *testing.T) {
	col := objectColumn("c", "b", "a", "b", "a", "c", "c")
	sum, ok := DescribeCategorical(col)
	if !ok {
		t.Fatal("expected a summary")
	}
	// All three values appear twice; encounter order is b, a, c.
	want := []string{"b", "a", "c"}
	for i, w := range want {
		if sum.Top5[i].Value != w {
			t.Errorf("top5[%d] = %q, want %q", i, sum.Top5[i].Value, w)
		}
	}
}

func TestDescribeCategoricalCapsAtFive(t *testing.T) {
	col := objectColumn("c", "a", "b", "c", "d", "e", "f", "g")
	sum, ok := DescribeCategorical(col)
	if !ok {
		t.Fatal("expected a summary")
	}
	if sum.Cardinality != 7 {
		t.Errorf("cardinality = %d, want 7", sum.Cardinality)
	}
	if len(sum.Top5) != 5 {
		t.Errorf("top5 length = %d, want 5", len(sum.Top5))
	}
}

func TestRoundPercent(t *testing.T) {
	if got := RoundPercent(1.0 / 3 * 100); !almostEqual(got, 33.33) {
		t.Errorf("RoundPercent = %v, want 33.33", got)
	}
	if got := RoundPercent(1.2389); !almostEqual(got, 1.24) {
		t.Errorf("RoundPercent(1.2389) = %v, want 1.24", got)
	}
}
