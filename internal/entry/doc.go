// Package entry defines the records kept in a macro log.
//
// This package contains value types only. Every other internal package
// imports entry; entry imports nothing internal.
//
// Key constraints:
//   - Day carries no time-of-day; all comparisons are calendar comparisons
//   - All four macro fields are always present and default to zero
//   - Every persisted LogEntry has a stable ID assigned at append time
//   - Names are NFC normalized so visually identical names compare equal
package entry
