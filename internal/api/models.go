package api

import (
	"github.com/phrazzld/tarot-api/internal/domain"
	"github.com/phrazzld/tarot-api/internal/domain/tarot"
)

// Common request/response structures

// DrawReadingRequest defines the payload for drawing a new reading.
type DrawReadingRequest struct {
	SpreadID string `json:"spread_id" validate:"required"`
	Question string `json:"question"  validate:"max=500"`
}

// UpdateReadingRequest defines the payload for annotating a reading.
// Absent fields are left untouched.
type UpdateReadingRequest struct {
	Notes      *string `json:"notes"       validate:"omitempty,max=5000"`
	IsFavorite *bool   `json:"is_favorite"`
}

// toUpdate converts the request into the domain update.
func (r UpdateReadingRequest) toUpdate() domain.ReadingUpdate {
	return domain.ReadingUpdate{Notes: r.Notes, IsFavorite: r.IsFavorite}
}

// CreateJournalEntryRequest defines the payload for a new journal entry.
type CreateJournalEntryRequest struct {
	Title   string `json:"title"   validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=10000"`
	Level   string `json:"level"   validate:"omitempty,oneof=INFO WARNING ERROR"`
}

// ReadingListResponse wraps a page of readings.
type ReadingListResponse struct {
	Readings []*domain.Reading `json:"readings"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// FortuneResponse is the result of the daily fortune workflow.
type FortuneResponse struct {
	Reading *domain.Reading `json:"reading"`
	// State is "fresh" when this request drew the fortune and "existing"
	// when it had already been drawn today.
	State string      `json:"state"`
	Date  domain.Date `json:"date"`
}

// JournalListResponse wraps a page of journal entries with the caller's totals.
type JournalListResponse struct {
	Entries []*domain.JournalEntry `json:"entries"`
	Stats   domain.JournalStats    `json:"stats"`
}

// CardsResponse lists the catalog.
type CardsResponse struct {
	Cards    []tarot.Card `json:"cards"`
	Fallback string       `json:"fallback"`
}

// SpreadsResponse lists the built-in spreads.
type SpreadsResponse struct {
	Spreads []tarot.Spread `json:"spreads"`
}
