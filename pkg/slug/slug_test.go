package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_BasicASCII(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"foo bar baz", "foo-bar-baz"},
		{"Simple", "simple"},
		{"ALL UPPER CASE", "all-upper-case"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Generate(tt.input))
		})
	}
}

func TestGenerate_CatalogCategories(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"electronics", "electronics"},
		{"jewelery", "jewelery"},
		{"men's clothing", "mens-clothing"},
		{"women's clothing", "womens-clothing"},
		{"Women’s Clothing", "womens-clothing"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Generate(tt.input))
		})
	}
}

func TestGenerate_AccentedLatin(t *testing.T) {
	assert.Equal(t, "creme-brulee", Generate("Crème Brûlée"))
	assert.Equal(t, "strasse", Generate("Straße"))
	assert.Equal(t, "cocuk-urunleri", Generate("çocuk ürünleri"))
}

func TestGenerate_SpecialCharacters(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello!!! World???", "hello-world"},
		{"foo@bar#baz", "foo-bar-baz"},
		{"price: $100", "price-100"},
		{"one & two", "one-two"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Generate(tt.input))
		})
	}
}

func TestGenerate_WhitespaceHandling(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"leading spaces", "   hello world   ", "hello-world"},
		{"multiple spaces", "hello   world", "hello-world"},
		{"tabs and spaces", "hello\t\tworld", "hello-world"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Generate(tt.input))
		})
	}
}

func TestGenerate_EdgeCases(t *testing.T) {
	assert.Equal(t, "", Generate(""))
	assert.Equal(t, "", Generate("   "))
	assert.Equal(t, "", Generate("!!!"))
	assert.Equal(t, "a", Generate("a"))
	assert.Equal(t, "123", Generate("123"))
}

func TestGenerate_ConsecutiveHyphens(t *testing.T) {
	assert.Equal(t, "a-b", Generate("a---b"))
	assert.Equal(t, "a-b", Generate("a - - b"))
}

func TestGenerate_NoLeadingTrailingHyphens(t *testing.T) {
	assert.Equal(t, "hello", Generate("-hello-"))
	assert.Equal(t, "hello", Generate("!hello!"))
}

func TestGenerate_NonLatinScriptsYieldEmpty(t *testing.T) {
	assert.Equal(t, "", Generate("台北市"))
}

func TestResolve(t *testing.T) {
	categories := []string{"electronics", "jewelery", "men's clothing", "women's clothing"}

	tests := []struct {
		key   string
		want  string
		found bool
	}{
		{"electronics", "electronics", true},
		{"Electronics", "electronics", true},
		{"men's clothing", "men's clothing", true},
		{"mens-clothing", "men's clothing", true},
		{"womens-clothing", "women's clothing", true},
		{"shoes", "", false},
		{"", "", false},
		{"!!!", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := Resolve(tt.key, categories)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
