// Package observability owns the prometheus collectors.
//
// Ownership boundary:
// - baseband lifecycle metrics via Recorder
// - admin HTTP request metrics
package observability
