// Package food reads the static food reference table and converts a
// requested amount of a food into logged macros.
//
// Reference rows are per base amount: 100 grams for foods whose name ends
// in a "_100g" token, one unit for every other token ("_tbsp", "_scoop",
// "_slice", "_katori", "_medium", ...). The table is read-only input; a
// table missing any required column is rejected at load time.
package food
