package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/kintai-tools/timesheet-tracker/constants"
)

const (
	minNameRunes = 2
	maxNameRunes = 20
)

var (
	reDateToken = regexp.MustCompile(`\d{4}[/年]\d{1,2}[/月]\d{1,2}日?|\d{1,2}月\d{1,2}日|\d{1,2}/\d{1,2}`)
	reFieldWord = regexp.MustCompile(`(?i)勤務|労働|時間|合計|実働|work|hours?|total|actual`)
	reDelimiter = regexp.MustCompile("[|│┃\t]")
)

// tableRecords reconstructs (name, hours) rows from tabular, list and
// paired-label layouts. Rows are validated, then deduplicated across
// pattern families; a tabular hit wins over any other family for the
// same cleaned name, otherwise first-seen wins.
func (e *Engine) tableRecords(text string, tr *Trace) []EmployeeRecord {
	bound := e.pack.TableRange()

	var records []EmployeeRecord
	index := make(map[string]int)

	for _, rule := range e.pack.TableRules {
		for _, m := range rule.Pattern.FindAllStringSubmatch(text, -1) {
			if len(m) < 3 {
				continue
			}
			hours, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			if !bound.Contains(hours) {
				tr.Logf("table %s: rejected hours %.2f for %q (outside %.0f..%.0f)", rule.Family, hours, m[1], bound.Min, bound.Max)
				continue
			}
			name := cleanTableName(m[1])
			if !e.validName(name) {
				tr.Logf("table %s: rejected name %q", rule.Family, name)
				continue
			}

			if i, ok := index[name]; ok {
				// Tabular layout is the most structurally reliable
				// signal, so it displaces an earlier non-tabular hit.
				if rule.Family == constants.FamilyTabular && records[i].Origin != constants.FamilyTabular {
					tr.Logf("table %s: %q overrides %s row", rule.Family, name, records[i].Origin)
					records[i] = EmployeeRecord{Name: name, Hours: []float64{hours}, Origin: rule.Family}
				}
				continue
			}
			tr.Logf("table %s: row %q = %.2f", rule.Family, name, hours)
			index[name] = len(records)
			records = append(records, EmployeeRecord{Name: name, Hours: []float64{hours}, Origin: rule.Family})
		}
	}
	return records
}

// cleanTableName strips table delimiters, edge punctuation, embedded
// date tokens and field-label words, then collapses whitespace.
func cleanTableName(s string) string {
	s = reDelimiter.ReplaceAllString(s, " ")
	s = reDateToken.ReplaceAllString(s, " ")
	s = reFieldWord.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, nameResidue)
}

// validName applies the table-row acceptance rules: 2..20 runes, not
// purely numeric, not a field-label word, and composed entirely of
// Japanese name scripts or entirely of Latin letters and spaces.
func (e *Engine) validName(name string) bool {
	n := len([]rune(name))
	if n < minNameRunes || n > maxNameRunes {
		return false
	}
	if allDigits(name) {
		return false
	}
	if _, stopped := e.pack.Stoplist[strings.ToLower(name)]; stopped {
		return false
	}
	return japaneseName(name) || latinName(name)
}

func japaneseName(s string) bool {
	seen := false
	for _, r := range s {
		if r == ' ' || r == '　' {
			continue
		}
		if !unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana) && r != 'ー' && r != '々' {
			return false
		}
		seen = true
	}
	return seen
}

func latinName(s string) bool {
	seen := false
	for _, r := range s {
		if r == ' ' {
			continue
		}
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')) {
			return false
		}
		seen = true
	}
	return seen
}
