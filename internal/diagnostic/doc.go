// Package diagnostic provides structured errors, warnings and notes
// produced while validating a composition schema.
//
// Key capabilities:
//   - Unknown type and field references with suggestions
//   - Duplicate declarations and base cycles
//   - Conflicting default declarations
//   - Combined error reporting for the CLI
package diagnostic
