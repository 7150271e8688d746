// Package policy holds per-type customization of record mapping.
//
// A Policy names fields to skip when populating objects, fields to skip when
// extracting records, record keys that differ from field names, and element
// types for []any fields that should be rebuilt as typed objects.
//
// A type gets its policy from, in order of precedence:
//  1. a Registry entry (for types the caller does not own, or loaded from YAML)
//  2. its own FieldPolicy method (the Provider capability)
//  3. the empty default: no exclusions, no overrides, no element types
//
// # YAML policy files
//
//	version: "1"
//	policies:
//	  - type: catalog.Item
//	    exclude: [Internal]
//	    exclude_extract: Secret
//	    keys:
//	      ID: id
//	      Toppings: topping
//	    elements:
//	      Toppings: catalog.Topping
//
// Type names in a file are resolved through Registry.RegisterType, so every
// type a file mentions must be registered before File.Apply.
package policy
