package extract

import (
	"strings"
	"unicode"

	"github.com/kintai-tools/timesheet-tracker/constants"
)

// nameResidue is the label/punctuation residue stripped from either end
// of a captured name token.
const nameResidue = ":：;,.、。・|│┃*\"'()（） \t-"

// extractName returns the single-subject employee name, or the 不明
// sentinel when no name rule produces an acceptable token. Rules are
// scanned in pack order; every match of a rule is considered before the
// next rule.
func (e *Engine) extractName(text string, tr *Trace) string {
	for _, nr := range e.pack.NameRules {
		for _, m := range nr.Pattern.FindAllStringSubmatch(text, -1) {
			if len(m) < 2 {
				continue
			}
			name := strings.Trim(strings.TrimSpace(m[1]), nameResidue)
			if len([]rune(name)) < 2 {
				tr.Logf("name rule %q: rejected %q (too short)", nr.Label, name)
				continue
			}
			if allDigits(name) {
				tr.Logf("name rule %q: rejected %q (digits only)", nr.Label, name)
				continue
			}
			tr.Logf("name rule %q: accepted %q", nr.Label, name)
			return name
		}
	}
	tr.Logf("no name rule matched, using %q", constants.UnknownName)
	return constants.UnknownName
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
