package workflow

import "strings"

// Decision is the accept/reject polarity inferred from a free-text workflow
// narrative. Display sugar only: submission never depends on it.
type Decision string

const (
	DecisionPending Decision = "Pending"
	DecisionAccept  Decision = "Accept"
	DecisionReject  Decision = "Reject"
)

// Explicit markers the workflow emits when it commits to a verdict.
const (
	acceptMarker = "**Evaluation Result: Accept**"
	rejectMarker = "**Evaluation Result: Reject**"
)

// Closed phrase vocabularies for the fallback polarity count. Narratives
// outside this vocabulary stay Pending.
var (
	positivePhrases = []string{
		"strong candidate",
		"good fit",
		"recommend proceeding",
		"approved",
		"eligible for",
		"meets the requirements",
		"covered under warranty",
	}
	negativePhrases = []string{
		"not a fit",
		"rejected",
		"declined",
		"not eligible",
		"does not meet",
		"cannot be processed",
		"unfortunately",
	}
)

// ExtractDecision infers a decision from narrative text. An explicit
// evaluation marker wins outright; otherwise the positive and negative
// vocabularies are counted and a strict majority sets the polarity.
func ExtractDecision(text string) Decision {
	if strings.Contains(text, acceptMarker) {
		return DecisionAccept
	}
	if strings.Contains(text, rejectMarker) {
		return DecisionReject
	}

	lower := strings.ToLower(text)
	var pos, neg int
	for _, p := range positivePhrases {
		pos += strings.Count(lower, p)
	}
	for _, p := range negativePhrases {
		neg += strings.Count(lower, p)
	}

	switch {
	case pos > neg:
		return DecisionAccept
	case neg > pos:
		return DecisionReject
	default:
		return DecisionPending
	}
}

// StripMarker removes the explicit evaluation marker from narrative text so
// the verdict is not rendered twice.
func StripMarker(text string) string {
	text = strings.ReplaceAll(text, acceptMarker, "")
	text = strings.ReplaceAll(text, rejectMarker, "")
	return strings.TrimSpace(text)
}
