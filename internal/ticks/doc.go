// Package ticks owns wraparound arithmetic for the baseband timer.
//
// Ownership boundary:
// - canonicalizing tick values into [0, B]
// - future-delta computation across the timer boundary
//
// Callers keep values within ±(B+1)/2 of the canonical range.
package ticks
