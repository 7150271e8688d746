package naming

import (
	"fmt"
	"strings"
)

// Convention renders a Go field name as a record key.
type Convention string

const (
	ConventionField Convention = "field" // the Go field name verbatim
	ConventionSnake Convention = "snake" // order_id
	ConventionCamel Convention = "camel" // orderId
	ConventionLower Convention = "lower" // orderid
)

// Conventions lists every supported convention.
var Conventions = []Convention{ConventionField, ConventionSnake, ConventionCamel, ConventionLower}

// ParseConvention validates a convention name. An empty name means
// ConventionField.
func ParseConvention(s string) (Convention, error) {
	if s == "" {
		return ConventionField, nil
	}

	for _, c := range Conventions {
		if string(c) == strings.ToLower(s) {
			return c, nil
		}
	}

	return "", fmt.Errorf("unknown naming convention %q (want one of %v)", s, Conventions)
}

// Apply renders name in the convention.
func (c Convention) Apply(name string) string {
	switch c {
	case ConventionSnake:
		return strings.Join(Tokenize(name), "_")

	case ConventionCamel:
		tokens := Tokenize(name)
		for i := 1; i < len(tokens); i++ {
			tokens[i] = strings.ToUpper(tokens[i][:1]) + tokens[i][1:]
		}

		return strings.Join(tokens, "")

	case ConventionLower:
		return Normalize(name)

	default:
		return name
	}
}
