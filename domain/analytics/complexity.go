package analytics

import (
	"math"

	"statdash/domain/core/entities"
)

const (
	minComplexity = 1
	maxComplexity = 10
)

// RandomSource yields uniformly distributed values in [0, 1).
// *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// structureMultipliers is the expected object volume of built-in structures
var structureMultipliers = map[string]int{
	"RootPage":         50,
	"RootTag":          100,
	"MediaImage":       200,
	"MediaPDF":         30,
	"MediaFile":        80,
	"RootAIChat":       25,
	"RootQuery":        15,
	"RootSimpleTable":  20,
	"RootDailyNote":    365,
	"MediaAudio":       40,
	"MediaWebResource": 60,
}

// Complexity scores a structure's schema on a 1-10 scale
func Complexity(s entities.Structure) int {
	score := 1.0
	score += float64(s.PropertyCount()) * 0.5
	score += float64(s.ComplexPropertyCount()) * 1.5
	score += float64(s.RequiredPropertyCount()) * 0.3
	score += float64(s.CollectionCount()) * 2

	rounded := int(math.Round(score))
	if rounded < minComplexity {
		return minComplexity
	}
	if rounded > maxComplexity {
		return maxComplexity
	}
	return rounded
}

// BaseObjectEstimate is the deterministic part of EstimateObjectCount
func BaseObjectEstimate(s entities.Structure) int {
	base, known := structureMultipliers[s.ID]
	if !known {
		base = Complexity(s)*10 + 5
	}
	factor := 1 + 0.3*float64(s.CollectionCount()) + 0.2*float64(s.PropertyCount())
	return int(math.Floor(float64(base) * factor))
}

// EstimateObjectCount approximates the object volume of a structure whose
// real count is unavailable. The result lies within jitter (a ratio, 0.15 by
// default) of BaseObjectEstimate and is never negative. A nil rng disables
// jitter.
func EstimateObjectCount(s entities.Structure, rng RandomSource, jitter float64) int {
	final := float64(BaseObjectEstimate(s))

	variation := 0.0
	if rng != nil && jitter > 0 {
		variation = math.Floor(rng.Float64()*final*2*jitter) - final*jitter
	}

	estimate := math.Floor(final + variation)
	if estimate < 0 {
		return 0
	}
	return int(estimate)
}

// KnownMultiplier reports the fixed volume multiplier of a built-in structure
func KnownMultiplier(structureID string) (int, bool) {
	m, ok := structureMultipliers[structureID]
	return m, ok
}
