package model

// SchedulingResult is the outcome of one campaign scan. Date is nil when no
// usable day was found. Missing lists the roster members not accepted on the
// chosen day, ordered by identifier; it is empty exactly when the day is a
// full match.
type SchedulingResult struct {
	Campaign Campaign
	Date     *Day
	Missing  []Participant
}

// SuggestionTier is the three-valued classification of a scheduling result.
type SuggestionTier int

const (
	// NotPossible means no usable day was found in the horizon.
	NotPossible SuggestionTier = iota
	// MaybePossible means a day was found but responses are still missing.
	MaybePossible
	// Possible means every roster member accepted the chosen day.
	Possible
)

// String returns the report label for the tier.
func (t SuggestionTier) String() string {
	switch t {
	case Possible:
		return "possible"
	case MaybePossible:
		return "maybe possible"
	default:
		return "not possible"
	}
}

// Tier classifies the result. It is a pure function of (Date, Missing).
func (r SchedulingResult) Tier() SuggestionTier {
	switch {
	case r.Date == nil:
		return NotPossible
	case len(r.Missing) == 0:
		return Possible
	default:
		return MaybePossible
	}
}
