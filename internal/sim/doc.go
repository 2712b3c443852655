// Package sim owns the operation queue above the baseband scheduler.
//
// Ownership boundary:
// - due-ordered operation queue across timer wraparound
// - completion handling and next-operation selection
// - simulated end-of-event interrupts
//
// The Runner is the single logical priority level the scheduler requires.
// Every scheduler call except completion goes through its lock, protocol
// holds included, so Status may be read concurrently.
package sim
