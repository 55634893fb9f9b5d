package analytics

import (
	"math"
	"sort"

	"statdash/domain/core/entities"
	"statdash/domain/core/valueobjects"
)

// SummarizeNumbers computes the descriptive statistics of values.
// It returns false for an empty series, which callers must omit.
func SummarizeNumbers(values []float64) (NumericPropertyStats, bool) {
	if len(values) == 0 {
		return NumericPropertyStats{}, false
	}

	stats := NumericPropertyStats{
		Count: len(values),
		Min:   values[0],
		Max:   values[0],
	}
	for _, v := range values {
		stats.Sum += v
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	stats.Average = stats.Sum / float64(stats.Count)
	stats.Median = Median(values)
	stats.StandardDeviation = StandardDeviation(values)

	return stats, true
}

// Median returns the middle value of a sorted copy of values, or the mean of
// the two middle values for an even count. values is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	middle := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[middle-1] + sorted[middle]) / 2
	}
	return sorted[middle]
}

// StandardDeviation returns the population standard deviation of values
func StandardDeviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var squared float64
	for _, v := range values {
		d := v - mean
		squared += d * d
	}
	return math.Sqrt(squared / float64(len(values)))
}

// AnalyzeNumericProperties gathers every NumberValue per property name across
// objects and summarises each series. Non-numeric values are skipped.
func AnalyzeNumericProperties(objects []entities.DomainObject) map[string]NumericPropertyStats {
	series := make(map[string][]float64)
	for _, obj := range objects {
		for key, value := range obj.Properties {
			if n, ok := value.(valueobjects.NumberValue); ok {
				series[key] = append(series[key], float64(n))
			}
		}
	}

	analysis := make(map[string]NumericPropertyStats, len(series))
	for key, values := range series {
		if stats, ok := SummarizeNumbers(values); ok {
			analysis[key] = stats
		}
	}
	return analysis
}
