package models

import "time"

// EntryDTO is the wire shape of one entry in create/update payloads.
type EntryDTO struct {
	Date   string `json:"date" binding:"required"`
	Amount int64  `json:"amount"`
}

// CreateItemRequest is the passthrough payload for creating a budget line.
type CreateItemRequest struct {
	ItemTypeID  string     `json:"item_type_id" binding:"required"`
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	AssigneeID  *string    `json:"assignee_id"`
	Entries     []EntryDTO `json:"entries"`
}

// SetCellRequest mutates a single draft cell. Value carries the raw input
// text; parsing rules live in the edit session.
type SetCellRequest struct {
	ItemIndex int    `json:"item_index"`
	MonthKey  string `json:"month_key" binding:"required"`
	Value     string `json:"value"`
}

// PasteRequest applies a tab-separated clipboard block anchored at a cell.
type PasteRequest struct {
	ItemIndex  int    `json:"item_index"`
	MonthIndex int    `json:"month_index"`
	Text       string `json:"text" binding:"required"`
}

// ItemSaveError reports one item whose entry replacement failed.
type ItemSaveError struct {
	ItemID string `json:"item_id"`
	Error  string `json:"error"`
}

// SaveResult summarizes a save attempt across all draft items.
type SaveResult struct {
	Saved  int             `json:"saved"`
	Failed []ItemSaveError `json:"failed,omitempty"`
}

// Complete reports whether every item was persisted.
func (r SaveResult) Complete() bool {
	return len(r.Failed) == 0
}

// SaveAudit is the Mongo record written once per save attempt.
type SaveAudit struct {
	ProjectID   string    `bson:"project_id" json:"project_id"`
	JobID       string    `bson:"job_id" json:"job_id"`
	ItemCount   int       `bson:"item_count" json:"item_count"`
	FailedItems []string  `bson:"failed_items,omitempty" json:"failed_items,omitempty"`
	Duration    int64     `bson:"duration_ms" json:"duration_ms"`
	SavedAt     time.Time `bson:"saved_at" json:"saved_at"`
}
