package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// TestNormality runs a Jarque-Bera style test combining skewness and
// excess kurtosis into a chi-squared statistic with two degrees of
// freedom. Samples under eight values never pass.
func TestNormality(data []float64, mean, std float64) (isNormal bool, pValue float64) {
	n := float64(len(data))
	if n < 8 || std == 0 || math.IsNaN(std) || math.IsInf(std, 0) {
		return false, 1.0
	}

	skew := Skewness(data, mean, std)
	excess := kurtosis(data, mean, std) - 3

	jb := (n / 6) * (skew*skew + (excess*excess)/4)

	chi := distuv.ChiSquared{K: 2}
	pValue = 1 - chi.CDF(jb)
	return pValue > 0.05, pValue
}

func kurtosis(data []float64, mean, std float64) float64 {
	if len(data) < 4 || std == 0 {
		return 3.0
	}
	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / std
		sum += d * d * d * d
	}
	k := sum / n
	if n > 3 {
		correction := (n - 1) / ((n - 2) * (n - 3))
		k = k*correction + 6/(n+1)
	}
	return k + 3
}
