// Package config owns bbsim run-time configuration.
//
// Ownership boundary:
// - TOML decoding with per-key overrides of defaults
// - cross-field validation
// - template rendering
package config
