// Package view derives per-day subsets, totals and trend series from log
// entries. Everything here is a pure function of its inputs; callers
// recompute the view after every mutation of the log.
package view
