package policycheck

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"record-mapper/descriptor"
	"record-mapper/internal/analyze"
	"record-mapper/internal/diagnostic"
	"record-mapper/internal/naming"
	"record-mapper/policy"
)

const maxSuggestions = 3

// Checker validates policies against a type graph.
type Checker struct {
	graph *analyze.TypeGraph
	tag   string
}

// NewChecker creates a Checker reading record keys from struct tag tag.
func NewChecker(graph *analyze.TypeGraph, tag string) *Checker {
	if tag == "" {
		tag = descriptor.TagName
	}

	return &Checker{graph: graph, tag: tag}
}

// Check validates every policy of f.
func (c *Checker) Check(f *policy.File) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	seen := make(map[string]bool)

	for _, tp := range f.Policies {
		if seen[tp.Type] {
			diags.AddWarning(diagnostic.CodeDuplicatePolicy,
				"type listed more than once; the last entry wins", tp.Type, "")
		}

		seen[tp.Type] = true

		diags.Merge(c.checkPolicy(tp))
	}

	return diags
}

func (c *Checker) checkPolicy(tp policy.TypePolicy) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	info, ok := c.resolve(tp.Type, tp.Type, "", &diags)
	if !ok {
		return diags
	}

	if info.Kind != analyze.TypeKindStruct {
		diags.AddError(diagnostic.CodeUnknownType, fmt.Sprintf("%s is not a struct", tp.Type), tp.Type, "")
		return diags
	}

	fields := analyze.MappableFields(info, c.tag)
	if len(fields) == 0 {
		diags.AddWarning(diagnostic.CodeNoMappableFields, "type has no mappable fields", tp.Type, "")
		return diags
	}

	byName := make(map[string]analyze.MappableField, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	names := slices.Sorted(maps.Keys(byName))

	checkNames := func(section string, list []string) {
		for _, name := range list {
			if _, ok := byName[name]; ok {
				continue
			}

			diags.AddErrorWithSuggestions(diagnostic.CodeUnknownField,
				fmt.Sprintf("%s: no mappable field %s", section, name), tp.Type, name,
				naming.Suggest(name, names, naming.DefaultThreshold, maxSuggestions))
		}
	}

	checkNames("exclude", tp.Exclude)
	checkNames("exclude_extract", tp.ExcludeExtract)
	checkNames("keys", slices.Sorted(maps.Keys(tp.Keys)))
	checkNames("elements", slices.Sorted(maps.Keys(tp.Elements)))

	c.checkElements(tp, byName, &diags)
	checkKeys(tp, fields, &diags)

	return diags
}

func (c *Checker) checkElements(tp policy.TypePolicy, byName map[string]analyze.MappableField, diags *diagnostic.Diagnostics) {
	for _, name := range slices.Sorted(maps.Keys(tp.Elements)) {
		f, ok := byName[name]
		if !ok {
			continue
		}

		if f.Kind != descriptor.KindArrayUnknown {
			diags.AddWarning(diagnostic.CodeElementOnScalar,
				fmt.Sprintf("element type is only used for []any fields, %s is %s", name, f.Kind), tp.Type, name)
		}

		elem, ok := c.resolve(strings.TrimPrefix(tp.Elements[name], "*"), tp.Type, name, diags)
		if ok && elem.Kind != analyze.TypeKindStruct {
			diags.AddWarning(diagnostic.CodeElementNotStruct,
				fmt.Sprintf("element type %s is not a struct; elements pass through", tp.Elements[name]), tp.Type, name)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(byName)) {
		f := byName[name]
		if f.Kind != descriptor.KindArrayUnknown {
			continue
		}

		if _, ok := tp.Elements[f.Name]; ok || slices.Contains(tp.Exclude, f.Name) {
			continue
		}

		diags.AddInfo(diagnostic.CodeArrayWithoutElems,
			"no element type; elements pass through unchanged", tp.Type, f.Name)
	}
}

// checkKeys reports fields that end up reading the same record key, and key
// overrides that can never be used.
func checkKeys(tp policy.TypePolicy, fields []analyze.MappableField, diags *diagnostic.Diagnostics) {
	owners := make(map[string][]string)

	for _, f := range fields {
		excluded := slices.Contains(tp.Exclude, f.Name)
		excludedExtract := slices.Contains(tp.ExcludeExtract, f.Name)

		key := f.Key
		if override, ok := tp.Keys[f.Name]; ok {
			key = override

			if excluded && excludedExtract {
				diags.AddWarning(diagnostic.CodeExcludedAndKeyed,
					"key override on a field excluded in both directions", tp.Type, f.Name)
			}
		}

		if !excluded {
			owners[key] = append(owners[key], f.Name)
		}
	}

	for _, key := range slices.Sorted(maps.Keys(owners)) {
		if fieldNames := owners[key]; len(fieldNames) > 1 {
			diags.AddWarning(diagnostic.CodeKeyCollision,
				fmt.Sprintf("fields %s all read key %q", strings.Join(fieldNames, ", "), key), tp.Type, fieldNames[0])
		}
	}
}

// resolve finds the struct named by a policy file name. Diagnostics are
// attributed to typeName and field.
func (c *Checker) resolve(name, typeName, field string, diags *diagnostic.Diagnostics) (*analyze.TypeInfo, bool) {
	found := c.graph.FindShort(name)

	switch len(found) {
	case 1:
		return found[0], true
	case 0:
		diags.AddErrorWithSuggestions(diagnostic.CodeUnknownType,
			fmt.Sprintf("unknown type %s", name), typeName, field,
			naming.Suggest(name, c.shortNames(), naming.DefaultThreshold, maxSuggestions))
	default:
		diags.AddError(diagnostic.CodeAmbiguousType,
			fmt.Sprintf("%s matches %d types in different packages", name, len(found)), typeName, field)
	}

	return nil, false
}

func (c *Checker) shortNames() []string {
	names := make([]string, 0, len(c.graph.Types))
	for id := range c.graph.Types {
		names = append(names, id.Short())
	}

	slices.Sort(names)

	return names
}
