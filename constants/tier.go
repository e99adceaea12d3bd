package constants

// Tier is the confidence bucket assigned to an hour-matching rule.
// Lower ordinal means higher confidence.
type Tier int

const (
	TierCritical Tier = iota // explicit "work hours" labels
	TierHigh                 // generic "total"/"sum" labels
	TierMedium               // "actual"/"net" worked-hours labels
	TierLow                  // bare number + hour unit marker
	TierLowest               // unlabeled H:MM pair
)

// TierOrder lists tiers from the highest confidence down. Selection
// walks this slice in order.
var TierOrder = []Tier{TierCritical, TierHigh, TierMedium, TierLow, TierLowest}

var tierNames = map[Tier]string{
	TierCritical: "CRITICAL",
	TierHigh:     "HIGH",
	TierMedium:   "MEDIUM",
	TierLow:      "LOW",
	TierLowest:   "LOWEST",
}

func (t Tier) String() string {
	if s, ok := tierNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseTier maps the stable rule-pack strings back to a Tier.
func ParseTier(s string) (Tier, bool) {
	for t, name := range tierNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}
