// Package radio owns the physical radio backend contract.
//
// Ownership boundary:
// - generic enable/disable of the radio
// - per-protocol framing selection
// - simulated backends for tests and bbsim
//
// The baseband scheduler calls a Backend; it never implements one.
package radio
