// Package baseband owns arbitration of the single physical radio among
// protocol layers.
//
// Ownership boundary:
// - protocol registration table and start reference counts
// - radio power arbitration (Start/Stop)
// - operation lifecycle (Execute/Cancel/RequestTermination/Terminate)
//
// A Scheduler provides no internal mutual exclusion. Every entry point except
// RequestTermination must be called from a single logical priority level;
// RequestTermination may be called from any goroutine.
package baseband
