package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kintai-tools/timesheet-tracker/constants"
)

func TestTabularRows(t *testing.T) {
	e := testEngine(t)

	text := "│田中太郎│176.5│\n│鈴木花子│160.0│"
	recs := e.tableRecords(Normalize(text), nil)
	require.Len(t, recs, 2)
	assert.Equal(t, "田中太郎", recs[0].Name)
	assert.Equal(t, []float64{176.5}, recs[0].Hours)
	assert.Equal(t, constants.FamilyTabular, recs[0].Origin)
	assert.Equal(t, "鈴木花子", recs[1].Name)
	assert.Equal(t, []float64{160}, recs[1].Hours)
}

func TestListRows(t *testing.T) {
	e := testEngine(t)

	text := "田中太郎 176.5時間\n鈴木花子 160h"
	recs := e.tableRecords(Normalize(text), nil)
	require.Len(t, recs, 2)
	assert.Equal(t, constants.FamilyList, recs[0].Origin)
	assert.Equal(t, constants.FamilyList, recs[1].Origin)
}

func TestPairedRows(t *testing.T) {
	e := testEngine(t)

	text := "氏名：田中太郎\n勤務時間：176.5\n氏名：鈴木花子\n勤務時間：160.0"
	recs := e.tableRecords(Normalize(text), nil)
	require.Len(t, recs, 2)
	assert.Equal(t, constants.FamilyPaired, recs[0].Origin)
	assert.Equal(t, "田中太郎", recs[0].Name)
	assert.Equal(t, []float64{176.5}, recs[0].Hours)
}

func TestCrossFamilyDedupPrefersTabular(t *testing.T) {
	e := testEngine(t)

	// The same employee seen by the list family first and the tabular
	// family later resolves to the tabular row.
	text := "田中太郎 150時間\n│田中太郎│176.5│"
	recs := e.tableRecords(Normalize(text), nil)
	require.Len(t, recs, 1)
	assert.Equal(t, constants.FamilyTabular, recs[0].Origin)
	assert.Equal(t, []float64{176.5}, recs[0].Hours)
}

func TestTableHoursRange(t *testing.T) {
	e := testEngine(t)

	// 8.0 is a daily figure, below the 10..500 table bound.
	recs := e.tableRecords(Normalize("│田中太郎│8.0│"), nil)
	assert.Empty(t, recs)

	recs = e.tableRecords(Normalize("│田中太郎│600│"), nil)
	assert.Empty(t, recs)
}

func TestValidNameBoundaries(t *testing.T) {
	e := testEngine(t)

	assert.False(t, e.validName("12345"), "digits only")
	assert.False(t, e.validName("田"), "single rune")
	assert.False(t, e.validName(strings.Repeat("a", 21)), "21 runes")
	assert.False(t, e.validName("合計"), "stoplisted field label")
	assert.False(t, e.validName("Total"), "stoplisted field label, english")
	assert.False(t, e.validName("田中Smith"), "mixed scripts")

	assert.True(t, e.validName("田中"), "two-rune japanese")
	assert.True(t, e.validName("やまだ"), "hiragana")
	assert.True(t, e.validName("スズキ"), "katakana")
	assert.True(t, e.validName("John Smith"), "latin with space")
	assert.True(t, e.validName(strings.Repeat("a", 20)), "20 runes")
}

func TestCleanTableName(t *testing.T) {
	assert.Equal(t, "田中太郎", cleanTableName("│田中太郎│"))
	assert.Equal(t, "田中太郎", cleanTableName("4月1日 田中太郎"))
	assert.Equal(t, "田中太郎", cleanTableName("田中太郎 勤務時間"))
	assert.Equal(t, "John Smith", cleanTableName("  John   Smith  "))
}
