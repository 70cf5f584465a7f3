package food

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/macrolog/internal/entry"
)

// ErrInvalidAmount is returned when a logged amount is not a positive number.
var ErrInvalidAmount = errors.New("invalid amount")

// Item is one reference row: macros per base amount of a food.
type Item struct {
	Name string       `json:"food_name"` // raw name with unit token, e.g. "chicken_breast_100g"
	Per  entry.Macros `json:"per"`
}

// DisplayName returns the title-cased name with underscores as spaces.
func (it Item) DisplayName() string {
	spaced := strings.Join(strings.Fields(strings.ReplaceAll(it.Name, "_", " ")), " ")
	return cases.Title(language.English).String(spaced)
}

// Unit returns the unit implied by the item's name token.
func (it Item) Unit() Unit {
	return UnitFor(it.Name)
}

// MacrosFor scales the reference macros to amount, measured in Unit().
func (it Item) MacrosFor(amount float64) (entry.Macros, error) {
	if err := checkAmount(amount); err != nil {
		return entry.Macros{}, err
	}
	base := it.Unit().Base
	return entry.Macros{
		Calories: Scale(it.Per.Calories, amount, base),
		Protein:  Scale(it.Per.Protein, amount, base),
		Carbs:    Scale(it.Per.Carbs, amount, base),
		Fat:      Scale(it.Per.Fat, amount, base),
	}, nil
}

// Log builds the LogEntry for eating amount of the item on day.
// The entry has no ID until it is appended to a store.
func (it Item) Log(amount float64, day entry.Day) (entry.LogEntry, error) {
	m, err := it.MacrosFor(amount)
	if err != nil {
		return entry.LogEntry{}, fmt.Errorf("log %s: %w", it.Name, err)
	}
	return entry.New(day, it.DisplayName(), FormatAmount(amount, it.Unit()), m), nil
}

// FormatAmount renders an amount with its unit label, e.g. "250 grams (g)".
func FormatAmount(amount float64, u Unit) string {
	return strconv.FormatFloat(amount, 'f', -1, 64) + " " + u.Label
}

func checkAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	return nil
}
