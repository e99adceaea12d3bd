package extract

import (
	"math"
	"sort"

	"github.com/kintai-tools/timesheet-tracker/constants"
)

// maxSelection triggers the overflow tie-break: strictly more than
// three surviving values collapses the selection to the two largest.
const maxSelection = 3

// selectHours turns tiered candidates into the final hour selection:
// unique (to 2 decimals), ascending, possibly empty. An empty selection
// means "not detected", never zero hours.
func selectHours(cands []CandidateMatch, tr *Trace) []float64 {
	byTier := make(map[constants.Tier][]float64, len(constants.TierOrder))
	for _, c := range cands {
		byTier[c.Tier] = append(byTier[c.Tier], c.Value)
	}

	var selected []float64
	for _, tier := range constants.TierOrder {
		vals := uniqueRounded(byTier[tier])
		if len(vals) == 0 {
			continue
		}
		selected = append(selected, vals...)
		// An explicitly labeled total dominates noisier low-confidence
		// matches: stop before the lower tiers ever contribute.
		if tier == constants.TierCritical || tier == constants.TierHigh {
			tr.Logf("early stop after %s tier with %d value(s)", tier, len(vals))
			break
		}
	}

	selected = uniqueRounded(selected)
	sort.Float64s(selected)

	if len(selected) > maxSelection {
		tr.Logf("overflow tie-break: %d values, keeping two largest", len(selected))
		selected = selected[len(selected)-2:]
	}
	tr.Logf("final selection: %v", selected)
	return selected
}

// uniqueRounded deduplicates by value rounded to 2 decimals, keeping
// the first occurrence per unique value.
func uniqueRounded(vals []float64) []float64 {
	seen := make(map[float64]struct{}, len(vals))
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		key := round2(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SumHours is the reported total for a selection, nil when empty.
func SumHours(sel []float64) *float64 {
	if len(sel) == 0 {
		return nil
	}
	var sum float64
	for _, v := range sel {
		sum += v
	}
	sum = round2(sum)
	return &sum
}
