package claim

import "strings"

// ClassifyWarranty maps the workflow's free-form warrantyStatus string onto
// a Warranty outcome. Matching is case-insensitive. An empty or
// unrecognized status defaults to Available: network success with missing
// business data must never block the user.
func ClassifyWarranty(status string) Warranty {
	s := strings.ToLower(strings.TrimSpace(status))

	switch {
	case s == "":
		return WarrantyAvailable
	case strings.Contains(s, "invalid"), strings.Contains(s, "not found"):
		return WarrantyInvalid
	case s == "expired", s == "unknown":
		return WarrantyExpired
	case strings.Contains(s, "available"):
		return WarrantyAvailable
	default:
		return WarrantyAvailable
	}
}
