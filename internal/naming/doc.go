// Package naming tokenizes Go identifiers, renders them in record key
// conventions, and suggests close names for misspelled identifiers.
package naming
