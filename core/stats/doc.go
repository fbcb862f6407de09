// Package stats derives the statistics shown for a vehicle from its charging
// sessions: counts and sums grouped by location or calendar week, rolling
// weekly series, totals, averages and efficiency.
//
// Every function is pure. Callers pass a snapshot already filtered to one
// vehicle; the input slice is never modified and no storage is touched, so
// the same snapshot can be shared between goroutines. Amounts are expected to
// be finite and non-negative (see model.ChargingSession.Validate); other
// values yield meaningless but non-panicking results.
//
// Group keys are compared as exact strings. "Tesla" and "tesla " are two
// different locations.
package stats
