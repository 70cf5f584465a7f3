package food

import "strings"

// Unit describes how a reference row's amount is measured.
type Unit struct {
	Token string  `json:"token"` // trailing name token, e.g. "100g"
	Label string  `json:"label"` // human-readable label, e.g. "grams (g)"
	Base  float64 `json:"base"`  // amount the reference macros are expressed per
}

// unitRules are matched in order against the trailing token of a food name.
var unitRules = []struct {
	match string
	label string
	base  float64
}{
	{"100g", "grams (g)", 100},
	{"katori", "katori(s)", 1},
	{"tbsp", "tablespoon(s)", 1},
	{"scoop", "scoop(s)", 1},
	{"slice", "slice(s)", 1},
	{"medium", "item(s)", 1},
}

const defaultUnitLabel = "unit(s)"

// UnitFor derives the unit from a raw food name such as "oats_100g".
// Unrecognized tokens measure in single units.
func UnitFor(foodName string) Unit {
	token := foodName
	if i := strings.LastIndex(foodName, "_"); i >= 0 {
		token = foodName[i+1:]
	}
	token = strings.ToLower(strings.TrimSpace(token))

	for _, rule := range unitRules {
		if strings.Contains(token, rule.match) {
			return Unit{Token: token, Label: rule.label, Base: rule.base}
		}
	}
	return Unit{Token: token, Label: defaultUnitLabel, Base: 1}
}

// Scale converts a per-base reference value to the value for amount.
func Scale(perBase, amount, base float64) float64 {
	return perBase * (amount / base)
}
