package claim

import (
	"fmt"
	"strings"
)

// DefaultCatalog is the fixed fallback product set shown when the workflow
// does not supply a usable one.
func DefaultCatalog() []string {
	return []string{
		"MacBook Pro",
		"iPhone 15",
		"iPad Air",
		"Apple Watch",
		"AirPods Pro",
		"iMac",
		"Mac Mini",
		"Apple TV",
		"HomePod",
		"Magic Keyboard",
	}
}

// Keys an object-shaped product entry may carry its display name under,
// in priority order.
var productNameKeys = []string{
	"product_name", "name", "productName", "title", "item", "description",
}

// NormalizeProducts turns whatever shape the workflow returned for the
// products field into a flat list of display names. Three shapes occur in
// the wild: an array of strings, an array of objects with assorted name
// keys, and a single comma-joined string. Entries that stringify to nothing
// useful are dropped. Returns nil when no usable names were found.
func NormalizeProducts(v any) []string {
	var names []string

	switch val := v.(type) {
	case []any:
		for _, entry := range val {
			if name := productName(entry); name != "" {
				names = append(names, name)
			}
		}
	case string:
		for _, part := range strings.Split(val, ",") {
			if part = strings.TrimSpace(part); part != "" {
				names = append(names, part)
			}
		}
	}

	return names
}

func productName(entry any) string {
	switch e := entry.(type) {
	case string:
		s := strings.TrimSpace(e)
		// Upstream sometimes stringifies objects it failed to unpack.
		if s == "[object Object]" {
			return ""
		}
		return s
	case map[string]any:
		for _, key := range productNameKeys {
			if s, ok := e[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		return ""
	case nil:
		return ""
	default:
		s := strings.TrimSpace(fmt.Sprint(e))
		if s == "" || s == "<nil>" {
			return ""
		}
		return s
	}
}
