// Package rules loads and compiles the extraction rule pack from the
// embedded rules.json. Patterns are data, not code: the matcher walks
// the compiled tables without knowing which locale or tier it is in.
package rules

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/kintai-tools/timesheet-tracker/constants"
)

//go:embed rules.json
var embedded []byte

type rawHourRule struct {
	Tier    string `json:"tier"`
	Label   string `json:"label"`
	Pattern string `json:"pattern"`
	Pair    bool   `json:"pair"`
}

type rawNameRule struct {
	Label   string `json:"label"`
	Pattern string `json:"pattern"`
}

type rawTableRule struct {
	Family  string `json:"family"`
	Pattern string `json:"pattern"`
}

type rawRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type rawPack struct {
	Version      int                 `json:"version"`
	HourRules    []rawHourRule       `json:"hour_rules"`
	NameRules    []rawNameRule       `json:"name_rules"`
	TableRules   []rawTableRule      `json:"table_rules"`
	NameStoplist []string            `json:"name_stoplist"`
	Ranges       map[string]rawRange `json:"ranges"`
}

// HourRule is one compiled hour-matching rule. Pair rules capture an
// (hour, minute) token pair; the rest capture a single number.
type HourRule struct {
	Tier    constants.Tier
	Label   string
	Pair    bool
	Pattern *regexp.Regexp
}

// NameRule is one compiled labeled-name rule.
type NameRule struct {
	Label   string
	Pattern *regexp.Regexp
}

// TableRule is one compiled table-row rule. Every pattern captures a
// name cell and an hours cell, in that order.
type TableRule struct {
	Family  constants.Family
	Pattern *regexp.Regexp
}

// Range is an inclusive plausibility bound for matched hour values.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v falls inside the inclusive bound.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Pack is the compiled rule pack consumed by the extraction engine.
type Pack struct {
	Version    int
	HourRules  []HourRule
	NameRules  []NameRule
	TableRules []TableRule
	Stoplist   map[string]struct{}

	pairRange  Range
	highRange  Range // CRITICAL and HIGH bare numbers
	lowRange   Range // MEDIUM and LOW bare numbers
	tableRange Range
}

// HourRange returns the plausibility bound for a candidate of the given
// tier. Pair candidates share a single bound regardless of tier.
func (p *Pack) HourRange(tier constants.Tier, pair bool) Range {
	if pair {
		return p.pairRange
	}
	switch tier {
	case constants.TierCritical, constants.TierHigh:
		return p.highRange
	default:
		return p.lowRange
	}
}

// TableRange returns the plausibility bound for table-row hour cells.
func (p *Pack) TableRange() Range { return p.tableRange }

// Load validates the embedded rules.json against its schema and compiles
// every pattern. A pattern that fails to compile fails the load; that is
// a programmer error, not document noise.
func Load() (*Pack, error) {
	return LoadBytes(embedded)
}

// LoadBytes compiles a rule pack from raw JSON. Exposed so operators can
// ship a replacement pack without rebuilding.
func LoadBytes(data []byte) (*Pack, error) {
	if err := validatePack(data); err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}

	var rp rawPack
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, fmt.Errorf("rules: parse rules.json: %w", err)
	}

	p := &Pack{
		Version:  rp.Version,
		Stoplist: make(map[string]struct{}, len(rp.NameStoplist)),
	}

	for _, hr := range rp.HourRules {
		tier, ok := constants.ParseTier(hr.Tier)
		if !ok {
			return nil, fmt.Errorf("rules: unknown tier %q in rule %q", hr.Tier, hr.Label)
		}
		re, err := compileRule(hr.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rules: hour rule %q: %w", hr.Label, err)
		}
		want := 1
		if hr.Pair {
			want = 2
		}
		if re.NumSubexp() != want {
			return nil, fmt.Errorf("rules: hour rule %q: expected %d capture groups, got %d", hr.Label, want, re.NumSubexp())
		}
		p.HourRules = append(p.HourRules, HourRule{Tier: tier, Label: hr.Label, Pair: hr.Pair, Pattern: re})
	}

	for _, nr := range rp.NameRules {
		re, err := compileRule(nr.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rules: name rule %q: %w", nr.Label, err)
		}
		p.NameRules = append(p.NameRules, NameRule{Label: nr.Label, Pattern: re})
	}

	for _, tr := range rp.TableRules {
		re, err := compileRule(tr.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rules: table rule %q: %w", tr.Family, err)
		}
		if re.NumSubexp() != 2 {
			return nil, fmt.Errorf("rules: table rule %q: expected name+hours capture groups", tr.Family)
		}
		p.TableRules = append(p.TableRules, TableRule{Family: constants.Family(tr.Family), Pattern: re})
	}

	for _, w := range rp.NameStoplist {
		p.Stoplist[w] = struct{}{}
	}

	var ok bool
	if p.pairRange, ok = toRange(rp.Ranges, "pair"); !ok {
		return nil, fmt.Errorf("rules: missing range %q", "pair")
	}
	if p.highRange, ok = toRange(rp.Ranges, "critical_high"); !ok {
		return nil, fmt.Errorf("rules: missing range %q", "critical_high")
	}
	if p.lowRange, ok = toRange(rp.Ranges, "medium_low"); !ok {
		return nil, fmt.Errorf("rules: missing range %q", "medium_low")
	}
	if p.tableRange, ok = toRange(rp.Ranges, "table"); !ok {
		return nil, fmt.Errorf("rules: missing range %q", "table")
	}

	return p, nil
}

// compileRule compiles a pack pattern case-insensitively. Japanese text
// is unaffected; the flag exists for the English label synonyms.
func compileRule(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}

func toRange(m map[string]rawRange, key string) (Range, bool) {
	r, ok := m[key]
	if !ok {
		return Range{}, false
	}
	return Range{Min: r.Min, Max: r.Max}, true
}
