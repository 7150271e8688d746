package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"OrderID", "orderid"},
		{"order_id", "orderid"},
		{"order-id", "orderid"},
		{"orderId", "orderid"},
		{"XMLParser", "xmlparser"},
		{"Price_Cents", "pricecents"},
		{"", ""},
		{"ID", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"order", "id"}, Tokenize("OrderID"))
	assert.Equal(t, []string{"get", "http", "response"}, Tokenize("getHTTPResponse"))
	assert.Equal(t, []string{"price", "cents"}, Tokenize("price_cents"))
	assert.Nil(t, Tokenize(""))
}

func TestConvention_Apply(t *testing.T) {
	tests := []struct {
		name       string
		convention Convention
		input      string
		expected   string
	}{
		{"field keeps name", ConventionField, "OrderID", "OrderID"},
		{"snake", ConventionSnake, "OrderID", "order_id"},
		{"snake acronym", ConventionSnake, "HTTPStatus", "http_status"},
		{"camel", ConventionCamel, "OrderID", "orderId"},
		{"camel single", ConventionCamel, "Name", "name"},
		{"lower", ConventionLower, "PPU", "ppu"},
		{"lower mixed", ConventionLower, "UpdatedAt", "updatedat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.convention.Apply(tt.input))
		})
	}
}

func TestParseConvention(t *testing.T) {
	c, err := ParseConvention("")
	require.NoError(t, err)
	assert.Equal(t, ConventionField, c)

	c, err = ParseConvention("SNAKE")
	require.NoError(t, err)
	assert.Equal(t, ConventionSnake, c)

	_, err = ParseConvention("kebab")
	assert.Error(t, err)
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"ab", "abc", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Hello", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.expected, Levenshtein(tt.b, tt.a), "symmetric")
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("OrderID", "order_id"), 1e-9)
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.Less(t, Similarity("Name", "Topping"), DefaultThreshold)
}

func TestSuggest(t *testing.T) {
	candidates := []string{"Topping", "Toppings", "Type", "Name", "Batters"}

	assert.Equal(t, []string{"Topping", "Toppings"}, Suggest("Toping", candidates, DefaultThreshold, 3))
	assert.Equal(t, []string{"Topping"}, Suggest("Toping", candidates, DefaultThreshold, 1))
	assert.Empty(t, Suggest("Zzz", candidates, DefaultThreshold, 3))
	assert.Empty(t, Suggest("Name", []string{"Name"}, DefaultThreshold, 3), "exact names are not suggestions")
}
