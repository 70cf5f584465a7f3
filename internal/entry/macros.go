package entry

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidMacros is returned when a macro value is negative or not finite.
var ErrInvalidMacros = errors.New("invalid macros")

// Macros holds the four tracked nutrient values.
// Calories are kcal; protein, carbs and fat are grams.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add returns the field-wise sum of m and other.
func (m Macros) Add(other Macros) Macros {
	return Macros{
		Calories: m.Calories + other.Calories,
		Protein:  m.Protein + other.Protein,
		Carbs:    m.Carbs + other.Carbs,
		Fat:      m.Fat + other.Fat,
	}
}

// Scale returns every field of m multiplied by factor.
func (m Macros) Scale(factor float64) Macros {
	return Macros{
		Calories: m.Calories * factor,
		Protein:  m.Protein * factor,
		Carbs:    m.Carbs * factor,
		Fat:      m.Fat * factor,
	}
}

// Validate checks that every field is finite and non-negative.
func (m Macros) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"calories", m.Calories},
		{"protein", m.Protein},
		{"carbs", m.Carbs},
		{"fat", m.Fat},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidMacros, f.name, f.value)
		}
	}
	return nil
}
