package constants

// ResultKind says whether a document resolved to one employee or a table.
type ResultKind string

const (
	ResultSingle ResultKind = "SINGLE"
	ResultMulti  ResultKind = "MULTI"
)

// Family tags which table-row pattern family produced a record.
type Family string

const (
	FamilyTabular Family = "TABULAR" // pipe/tab delimited cells
	FamilyList    Family = "LIST"    // name then hours on one line
	FamilyPaired  Family = "PAIRED"  // name label ... hours label
	FamilySingle  Family = "SINGLE"  // single-subject pipeline, not a table row
)

// UnknownName is the sentinel employee name when no name rule matched.
const UnknownName = "不明"

// NotDetected is the display value for an empty hour selection.
// An empty selection means "not detected", never zero hours.
const NotDetected = "未検出"
