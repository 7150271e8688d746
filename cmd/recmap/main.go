// Package main provides the recmap CLI.
//
// recmap inspects Go structs the way the record mapper sees them:
//   - describe lists mappable fields, their kinds and record keys
//   - scaffold writes a starting YAML policy file
//   - check validates a policy file against the analyzed packages
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
