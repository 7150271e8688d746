package policycheck

import (
	"record-mapper/internal/analyze"
	"record-mapper/internal/naming"
	"record-mapper/policy"
)

// Scaffold builds a policy file for roots and every struct reachable through
// their fields. Keys are set where the convention renders a field name
// differently from its default record key; fields keyed by struct tag keep
// their tag.
func Scaffold(roots []*analyze.TypeInfo, tag string, convention naming.Convention) *policy.File {
	f := &policy.File{Version: "1"}

	for _, info := range analyze.Reachable(roots, tag) {
		tp := policy.TypePolicy{Type: info.ID.Short()}

		for _, field := range analyze.MappableFields(info, tag) {
			if field.Key != field.Name {
				continue
			}

			if key := convention.Apply(field.Name); key != field.Key {
				if tp.Keys == nil {
					tp.Keys = make(map[string]string)
				}

				tp.Keys[field.Name] = key
			}
		}

		f.Policies = append(f.Policies, tp)
	}

	return f
}
