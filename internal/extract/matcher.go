package extract

import (
	"strconv"

	"github.com/kintai-tools/timesheet-tracker/constants"
	"github.com/kintai-tools/timesheet-tracker/internal/rules"
)

// CandidateMatch is one hour-rule hit that survived the plausibility
// filter. Transient: produced during matching, consumed by selection.
type CandidateMatch struct {
	Value         float64
	Tier          constants.Tier
	RuleLabel     string
	SourcePattern string
}

// hourCandidates runs every hour rule against the text and returns the
// in-range candidates in rule order. A rule that faults is skipped; a
// captured token that does not parse as a number is silently dropped.
func (e *Engine) hourCandidates(text string, tr *Trace) []CandidateMatch {
	var out []CandidateMatch
	for _, hr := range e.pack.HourRules {
		matches := e.matchRule(hr, text, tr)
		bound := e.pack.HourRange(hr.Tier, hr.Pair)
		for _, m := range matches {
			v, ok := ruleValue(hr, m)
			if !ok {
				tr.Logf("rule %q: dropped unparseable token %q", hr.Label, m[0])
				continue
			}
			if !bound.Contains(v) {
				tr.Logf("rule %q [%s]: rejected %.2f (outside %.0f..%.0f)", hr.Label, hr.Tier, v, bound.Min, bound.Max)
				continue
			}
			tr.Logf("rule %q [%s]: accepted %.2f from %q", hr.Label, hr.Tier, v, m[0])
			out = append(out, CandidateMatch{
				Value:         v,
				Tier:          hr.Tier,
				RuleLabel:     hr.Label,
				SourcePattern: hr.Pattern.String(),
			})
		}
	}
	return out
}

// matchRule isolates one rule evaluation so a faulting pattern cannot
// abort the document: the fault is traced and the rule skipped.
func (e *Engine) matchRule(hr rules.HourRule, text string, tr *Trace) (matches [][]string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("hour rule evaluation fault", "rule", hr.Label, "panic", r)
			tr.Logf("rule %q: evaluation fault, skipped: %v", hr.Label, r)
			matches = nil
		}
	}()
	return hr.Pattern.FindAllStringSubmatch(text, -1)
}

// ruleValue converts a rule hit to decimal hours. Pair rules convert an
// (hour, minute) capture as hours + minutes/60.
func ruleValue(hr rules.HourRule, m []string) (float64, bool) {
	if hr.Pair {
		if len(m) < 3 {
			return 0, false
		}
		h, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		min, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, false
		}
		return h + min/60, true
	}
	if len(m) < 2 {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
