// Package diagnostic provides structured errors and warnings for policy files.
//
// Key capabilities:
//   - Unknown type and field errors with "did you mean" suggestions
//   - Warnings for policies that have no effect at run time
//   - Record key collisions within a type
package diagnostic
