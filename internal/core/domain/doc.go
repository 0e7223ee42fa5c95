// Package domain defines the core business entities for tablecast.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CellValue / ContentRow: Typed scalar cells read from a tabular source
//   - FieldDefinition: A typed field of a target content type
//   - FieldMapping: A source-column to target-field correspondence
//   - Record: A transformed row ready for persistence
//   - RichTextDocument: Structured rich text compiled from markup
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
