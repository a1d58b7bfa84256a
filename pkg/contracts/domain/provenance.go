package domain

import "time"

// Provenance records where a table came from, for display and audit.
// It is attached at load or generation time and copied unchanged onto
// every derived (filtered) view of the same table.
type Provenance struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	RowCount int       `json:"row_count"`
	LoadedAt time.Time `json:"loaded_at"`
}

// GeneratedSource is the Provenance.Source value used for synthetic tables
// that were never persisted.
const GeneratedSource = "generated"
