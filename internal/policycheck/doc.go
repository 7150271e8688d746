// Package policycheck validates policy files against statically analyzed
// types and scaffolds new policy files from them.
package policycheck
