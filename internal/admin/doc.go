// Package admin owns the bbsim HTTP admin surface.
//
// Ownership boundary:
// - liveness/readiness
// - scheduler status snapshots
// - prometheus exposition
package admin
