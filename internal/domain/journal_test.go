package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewJournalEntry(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	entry, err := NewJournalEntry(userID, "今日塔罗感悟", "抽到了正位星星牌", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if entry.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if entry.Level != JournalLevelInfo {
		t.Errorf("Expected default level %s, got %s", JournalLevelInfo, entry.Level)
	}

	_, err = NewJournalEntry(userID, "title", "content", "DEBUG")
	if err != ErrInvalidJournalLevel {
		t.Errorf("Expected error %v, got %v", ErrInvalidJournalLevel, err)
	}

	_, err = NewJournalEntry(userID, "", "content", JournalLevelWarning)
	if err != ErrEmptyJournalTitle {
		t.Errorf("Expected error %v, got %v", ErrEmptyJournalTitle, err)
	}

	_, err = NewJournalEntry(userID, "title", "", JournalLevelWarning)
	if err != ErrEmptyJournalContent {
		t.Errorf("Expected error %v, got %v", ErrEmptyJournalContent, err)
	}

	_, err = NewJournalEntry(userID, strings.Repeat("t", MaxJournalTitleLength+1), "c", JournalLevelError)
	if err != ErrJournalTitleTooLong {
		t.Errorf("Expected error %v, got %v", ErrJournalTitleTooLong, err)
	}

	_, err = NewJournalEntry(uuid.Nil, "title", "content", JournalLevelError)
	if err != ErrEmptyJournalUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyJournalUserID, err)
	}
}

func TestNewJournalStats(t *testing.T) {
	t.Parallel()
	stats := NewJournalStats()

	if stats.Total != 0 {
		t.Errorf("Expected zero total, got %d", stats.Total)
	}
	for _, level := range JournalLevels {
		count, ok := stats.ByLevel[level]
		if !ok || count != 0 {
			t.Errorf("Expected level %s present and zero, got %d (present=%v)", level, count, ok)
		}
	}
}
