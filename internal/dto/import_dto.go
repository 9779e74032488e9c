package dto

// MarkImportRowError describes why one spreadsheet row was rejected.
type MarkImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// MarkImportResult summarizes a bulk mark import.
type MarkImportResult struct {
	Imported int                  `json:"imported"`
	Errors   []MarkImportRowError `json:"errors"`
}
