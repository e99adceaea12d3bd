package ocr

import (
	"regexp"
	"strings"
)

var (
	reHourMark  = regexp.MustCompile(`時間|hours?|\d{1,2}:\d{2}`)
	reNameLabel = regexp.MustCompile(`氏名|名前|社員|name|employee`)
	reTableMark = regexp.MustCompile(`[|│┃\t]`)
)

// naive heuristic confidence based on decoded text characteristics
func heuristicConfidence(txt string) float32 {
	// very simple: boost if we see common timesheet artifacts
	// (hour-ish, name-label-ish, table-ish). Each adds ~0.15.
	txtL := strings.ToLower(txt)
	score := float32(0.2) // base
	if reHourMark.MatchString(txtL) {
		score += 0.2
	}
	if reNameLabel.MatchString(txtL) {
		score += 0.15
	}
	if reTableMark.MatchString(txtL) {
		score += 0.15
	}
	if len(txt) > 120 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}
