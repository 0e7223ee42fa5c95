// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for an import to run:
//
//   - TableReader: Produces headers and rows from a tabular source
//   - SchemaProvider: Supplies field definitions for a content type
//   - RecordStore: Record persistence and the point query used during
//     reference resolution
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - MappingOracle: External mapping suggestions. Without it, suggestion
//     uses the deterministic fallback matcher.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
