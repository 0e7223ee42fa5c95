// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The mapper's fallback path, the validator, the transformer and the
// rich-text compiler are pure functions over their inputs: no I/O, no
// shared mutable state, safe to invoke concurrently across rows.
package services
