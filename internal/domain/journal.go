package domain

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// JournalLevel tags the weight of a journal entry.
type JournalLevel string

// Possible journal levels
const (
	JournalLevelInfo    JournalLevel = "INFO"
	JournalLevelWarning JournalLevel = "WARNING"
	JournalLevelError   JournalLevel = "ERROR"
)

// JournalLevels lists every valid level in display order.
var JournalLevels = []JournalLevel{JournalLevelInfo, JournalLevelWarning, JournalLevelError}

// Field limits for journal entries.
const (
	MaxJournalTitleLength   = 200
	MaxJournalContentLength = 10000
)

// Common validation errors for JournalEntry
var (
	ErrEmptyJournalID      = errors.New("journal entry ID cannot be empty")
	ErrEmptyJournalUserID  = errors.New("journal entry user ID cannot be empty")
	ErrEmptyJournalTitle   = errors.New("journal entry title cannot be empty")
	ErrEmptyJournalContent = errors.New("journal entry content cannot be empty")
	ErrJournalTitleTooLong = errors.New("journal entry title is too long")
	ErrJournalTooLong      = errors.New("journal entry content is too long")
	ErrInvalidJournalLevel = errors.New("invalid journal level")
)

// JournalEntry is a free-form reflection a user writes about their readings.
type JournalEntry struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Level     JournalLevel `json:"level"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewJournalEntry creates a new JournalEntry owned by userID.
// An empty level defaults to INFO.
func NewJournalEntry(userID uuid.UUID, title, content string, level JournalLevel) (*JournalEntry, error) {
	if level == "" {
		level = JournalLevelInfo
	}

	entry := &JournalEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		Level:     level,
		CreatedAt: time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the JournalEntry has valid data.
func (e *JournalEntry) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyJournalID
	}

	if e.UserID == uuid.Nil {
		return ErrEmptyJournalUserID
	}

	if e.Title == "" {
		return ErrEmptyJournalTitle
	}

	if utf8.RuneCountInString(e.Title) > MaxJournalTitleLength {
		return ErrJournalTitleTooLong
	}

	if e.Content == "" {
		return ErrEmptyJournalContent
	}

	if utf8.RuneCountInString(e.Content) > MaxJournalContentLength {
		return ErrJournalTooLong
	}

	if !IsValidJournalLevel(e.Level) {
		return ErrInvalidJournalLevel
	}

	return nil
}

// IsValidJournalLevel checks if the given level is a valid JournalLevel.
func IsValidJournalLevel(level JournalLevel) bool {
	switch level {
	case JournalLevelInfo, JournalLevelWarning, JournalLevelError:
		return true
	default:
		return false
	}
}

// JournalStats summarizes a user's journal.
type JournalStats struct {
	Total   int                  `json:"total"`
	ByLevel map[JournalLevel]int `json:"by_level"`
}

// NewJournalStats returns stats with every level present and zeroed.
func NewJournalStats() JournalStats {
	byLevel := make(map[JournalLevel]int, len(JournalLevels))
	for _, level := range JournalLevels {
		byLevel[level] = 0
	}
	return JournalStats{ByLevel: byLevel}
}

// UserStats aggregates the counters shown on a user's profile.
type UserStats struct {
	ReadingsCount  int `json:"readings_count"`
	FavoritesCount int `json:"favorites_count"`
	JournalCount   int `json:"journal_count"`
}
