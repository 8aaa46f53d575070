package claim

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unmarshal the way the decoder does, so shapes match real replies.
func jsonValue(t *testing.T, raw string) any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"products":`+raw+`}`), &m))
	return m["products"]
}

func TestNormalizeProducts(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{"array of strings", `["Laptop","Monitor"]`, []string{"Laptop", "Monitor"}},
		{"array with blanks dropped", `["Laptop","","  "]`, []string{"Laptop"}},
		{"stringified object placeholder dropped", `["Laptop","[object Object]"]`, []string{"Laptop"}},
		{"objects with product_name", `[{"product_name":"Laptop"},{"product_name":"Monitor"}]`, []string{"Laptop", "Monitor"}},
		{"objects with name", `[{"name":"Laptop"}]`, []string{"Laptop"}},
		{"objects with productName", `[{"productName":"Laptop"}]`, []string{"Laptop"}},
		{"objects with title", `[{"title":"Laptop"}]`, []string{"Laptop"}},
		{"objects with item", `[{"item":"Laptop"}]`, []string{"Laptop"}},
		{"objects with description", `[{"description":"Laptop"}]`, []string{"Laptop"}},
		{"name key priority", `[{"description":"wrong","name":"Laptop"}]`, []string{"Laptop"}},
		{"object with no name keys dropped", `[{"sku":123}]`, nil},
		{"mixed array", `["Laptop",{"name":"Monitor"},null]`, []string{"Laptop", "Monitor"}},
		{"comma joined string", `"Laptop, Monitor,Keyboard"`, []string{"Laptop", "Monitor", "Keyboard"}},
		{"string with empty segments", `"Laptop,, ,"`, []string{"Laptop"}},
		{"empty array", `[]`, nil},
		{"empty string", `""`, nil},
		{"unexpected shape", `42`, nil},
		{"absent", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeProducts(jsonValue(t, tt.raw)))
		})
	}
}

func TestNormalizeProducts_NumericEntries(t *testing.T) {
	// Non-string scalars stringify rather than vanish.
	got := NormalizeProducts(jsonValue(t, `[12.5]`))
	assert.Equal(t, []string{"12.5"}, got)
}

func TestDefaultCatalog_NeverEmpty(t *testing.T) {
	catalog := DefaultCatalog()
	assert.NotEmpty(t, catalog)
	for _, name := range catalog {
		assert.NotEmpty(t, name)
	}
}
