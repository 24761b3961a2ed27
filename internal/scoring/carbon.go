// Package scoring maps disposal categories to their environmental reward.
package scoring

// DefaultCarbonReduction is granted for categories without a table entry.
const DefaultCarbonReduction = 0.0

// carbonReductions holds the CO₂-equivalent reduction in kilograms credited
// for recycling one item of each category.
var carbonReductions = map[string]float64{
	"캔류":   0.105,
	"고철류":  8.100,
	"페트병":  0.036,
	"플라스틱": 0.060,
	"스티로폼": 0.010,
	"비닐류":  0.006,
	"유리병류": 0.090,
	"종이류":  0.500,
	"의류":   1.000,
	"전자제품": 3.500,
	"형광등":  0.150,
}

// CarbonReduction returns the CO₂-equivalent reduction for a category in
// kilograms. Unknown categories get DefaultCarbonReduction; the scorer
// never fails.
func CarbonReduction(category string) float64 {
	if reduction, ok := carbonReductions[category]; ok {
		return reduction
	}
	return DefaultCarbonReduction
}

// AllCarbonReductions returns a copy of the full category table.
func AllCarbonReductions() map[string]float64 {
	out := make(map[string]float64, len(carbonReductions))
	for category, reduction := range carbonReductions {
		out[category] = reduction
	}
	return out
}

// IsScoredCategory reports whether the category has its own table entry.
func IsScoredCategory(category string) bool {
	_, ok := carbonReductions[category]
	return ok
}
