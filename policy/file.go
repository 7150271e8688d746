package policy

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"reflect"
	"slices"

	"gopkg.in/yaml.v3"

	"record-mapper/internal/common"
)

// File is the YAML representation of a set of policies.
type File struct {
	Version  string       `yaml:"version"`
	Policies []TypePolicy `yaml:"policies"`
}

// TypePolicy is the YAML form of a Policy for one named type.
type TypePolicy struct {
	Type           string            `yaml:"type"`
	Exclude        StringOrArray     `yaml:"exclude,omitempty"`
	ExcludeExtract StringOrArray     `yaml:"exclude_extract,omitempty"`
	Keys           map[string]string `yaml:"keys,omitempty"`
	Elements       map[string]string `yaml:"elements,omitempty"`
}

// StringOrArray accepts either a single string or a list of strings.
type StringOrArray []string

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		if err := node.Decode(&str); err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if common.IsSingle(s) {
		return s[0], nil
	}

	return []string(s), nil
}

// LoadFile loads and parses a YAML policy file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse policy YAML: %w", err)
	}

	if f.Version == "" {
		f.Version = "1"
	}

	for i, tp := range f.Policies {
		if tp.Type == "" {
			return nil, fmt.Errorf("policy #%d: missing type", i+1)
		}
	}

	return &f, nil
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal policy file: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write policy file %s: %w", path, err)
	}

	return nil
}

// Apply resolves every policy in the file against the names registered in reg
// and registers the results. Nothing is registered when any name is unknown.
func (f *File) Apply(reg *Registry) error {
	resolved := make(map[reflect.Type]*Policy, len(f.Policies))

	var errs []error

	for _, tp := range f.Policies {
		t, p, err := tp.Resolve(reg)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		resolved[t] = p
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	for t, p := range resolved {
		reg.Register(t, p)
	}

	return nil
}

// Resolve builds the Policy described by tp and returns it with its type.
func (tp TypePolicy) Resolve(reg *Registry) (reflect.Type, *Policy, error) {
	t, err := reg.TypeByName(tp.Type)
	if err != nil {
		return nil, nil, fmt.Errorf("policy for %s: %w", tp.Type, err)
	}

	p := New().Exclude(tp.Exclude...).ExcludeFromExtraction(tp.ExcludeExtract...)

	for field, key := range tp.Keys {
		p.MapKey(field, key)
	}

	for _, field := range slices.Sorted(maps.Keys(tp.Elements)) {
		elem, err := reg.TypeByName(tp.Elements[field])
		if err != nil {
			return nil, nil, fmt.Errorf("policy for %s, elements of %s: %w", tp.Type, field, err)
		}

		p.ElementType(field, elem)
	}

	return t, p, nil
}

// FromPolicy converts p into its YAML form under typeName. Element types are
// written with TypeName.
func FromPolicy(typeName string, p *Policy) TypePolicy {
	tp := TypePolicy{
		Type:           typeName,
		Exclude:        p.ExcludedProperties(),
		ExcludeExtract: p.ExcludedPropertiesForPersistence(),
	}

	if keys := p.DataKeyOverrides(); len(keys) > 0 {
		tp.Keys = keys
	}

	if p != nil && len(p.Elements) > 0 {
		tp.Elements = make(map[string]string, len(p.Elements))
		for field, t := range p.Elements {
			tp.Elements[field] = TypeName(t)
		}
	}

	return tp
}
