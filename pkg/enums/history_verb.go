package enums

import "fmt"

// HistoryVerb tags an asset history entry. Entries carry a structured
// verb/qualifier pair so classification never depends on parsing free text.
type HistoryVerb string

const (
	HistoryVerbCreated        HistoryVerb = "created"
	HistoryVerbCollected      HistoryVerb = "collected"
	HistoryVerbReturned       HistoryVerb = "returned"
	HistoryVerbReportedFaulty HistoryVerb = "reported_faulty"
	HistoryVerbDisposed       HistoryVerb = "disposed"
)

var validHistoryVerbs = []HistoryVerb{
	HistoryVerbCreated,
	HistoryVerbCollected,
	HistoryVerbReturned,
	HistoryVerbReportedFaulty,
	HistoryVerbDisposed,
}

// String implements fmt.Stringer.
func (v HistoryVerb) String() string {
	return string(v)
}

// IsValid reports whether the value is a known HistoryVerb.
func (v HistoryVerb) IsValid() bool {
	for _, candidate := range validHistoryVerbs {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseHistoryVerb converts raw input into a HistoryVerb.
func ParseHistoryVerb(value string) (HistoryVerb, error) {
	for _, candidate := range validHistoryVerbs {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid history verb %q", value)
}
