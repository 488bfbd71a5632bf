package model

// DocumentKind names a numbered document family. Each kind has its own counter per scope and year.
type DocumentKind string

const (
	DocumentFir  DocumentKind = "FIR"
	DocumentCase DocumentKind = "CASE"
)

// DocumentScope is the unit a sequence is allocated in. Code is the scope segment rendered
// into the document number (station code for FIRs, court code for cases), so two stations
// or courts that render the same segment share one counter.
type DocumentScope struct {
	Kind DocumentKind
	Code string
	Year int
}
