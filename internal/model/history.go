package model

import "time"

// HistoryRecord is one confirmed analysis in a user's history. Records are
// immutable once written: Guide and CarbonReduced are snapshots taken at
// append time and are never re-resolved, so deleting a record always refunds
// exactly what was granted.
type HistoryRecord struct {
	CreatedAt     time.Time `json:"created_at"`
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ImageURL      string    `json:"image_url"`
	Category      string    `json:"category"`
	SubDetail     string    `json:"sub_detail"`
	Guide         []string  `json:"guide"`
	CarbonReduced float64   `json:"carbon_reduced"`
}

// PendingAnalysis is an assembled analysis result awaiting user
// confirmation. Confirming it turns it into a HistoryRecord; discarding it
// deletes the uploaded image.
type PendingAnalysis struct {
	ImageURL      string   `json:"image_url"`
	Category      string   `json:"category"`
	SubDetail     string   `json:"sub_detail"`
	Guide         []string `json:"guide"`
	CarbonReduced float64  `json:"carbon_reduced"`
}
