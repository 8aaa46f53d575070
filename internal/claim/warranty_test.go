package claim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyWarranty(t *testing.T) {
	tests := []struct {
		status   string
		expected Warranty
	}{
		{"available", WarrantyAvailable},
		{"warranty available until 2027", WarrantyAvailable},
		{"expired", WarrantyExpired},
		{"unknown", WarrantyExpired},
		{"invalid", WarrantyInvalid},
		{"invalid invoice format", WarrantyInvalid},
		{"invoice not found", WarrantyInvalid},
		{"", WarrantyAvailable},
		{"   ", WarrantyAvailable},
		{"active", WarrantyAvailable}, // unrecognized defaults to available
	}

	for _, tt := range tests {
		t.Run("status "+tt.status, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyWarranty(tt.status))
		})
	}
}

func TestClassifyWarranty_CaseInsensitive(t *testing.T) {
	for _, status := range []string{"available", "expired", "unknown", "invalid", "not found"} {
		lower := ClassifyWarranty(status)
		assert.Equal(t, lower, ClassifyWarranty(strings.ToUpper(status)), status)
	}
	assert.Equal(t, ClassifyWarranty("expired"), ClassifyWarranty("Expired"))
	assert.Equal(t, ClassifyWarranty("not found"), ClassifyWarranty("Not Found"))
}
