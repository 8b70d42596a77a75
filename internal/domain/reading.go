package domain

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ReadingKind distinguishes the once-a-day fortune from ad hoc spreads.
type ReadingKind string

// Possible reading kinds
const (
	ReadingKindDaily  ReadingKind = "daily"
	ReadingKindSpread ReadingKind = "reading"
)

// Field limits for user-supplied reading text.
const (
	MaxQuestionLength = 500
	MaxNotesLength    = 5000
)

// Common validation errors for Reading
var (
	ErrEmptyReadingUserID     = errors.New("reading user ID cannot be empty")
	ErrInvalidReadingKind     = errors.New("invalid reading kind")
	ErrEmptySpreadID          = errors.New("reading spread ID cannot be empty")
	ErrNoDrawnCards           = errors.New("reading must contain at least one card")
	ErrEmptyCardName          = errors.New("drawn card name cannot be empty")
	ErrInterpretationMismatch = errors.New("interpretation card count does not match drawn cards")
	ErrMissingFortuneDate     = errors.New("daily reading requires a fortune date")
	ErrUnexpectedFortuneDate  = errors.New("only daily readings carry a fortune date")
	ErrMissingFortune         = errors.New("daily reading requires fortune details")
	ErrQuestionTooLong        = errors.New("question is too long")
	ErrNotesTooLong           = errors.New("notes are too long")
	ErrEmptyReadingUpdate     = errors.New("update must change notes or favorite")
	ErrInvalidLuckyNumber     = errors.New("lucky number must be between 1 and 9")
)

// DrawnCard is one card of a draw, with its orientation and the spread
// position it landed in.
type DrawnCard struct {
	Name       string `json:"name"`
	IsReversed bool   `json:"is_reversed"`
	Position   string `json:"position,omitempty"`
}

// CardMeaning is the generated text for one drawn card.
type CardMeaning struct {
	Position string `json:"position"`
	Meaning  string `json:"meaning"`
}

// Interpretation is the text derived from a draw. It is always stored
// together with the Reading it was generated for.
type Interpretation struct {
	General string        `json:"general"`
	Cards   []CardMeaning `json:"cards"`
}

// Fortune holds the per-aspect text and lucky values of a daily reading.
type Fortune struct {
	General     string `json:"general"`
	Love        string `json:"love"`
	Career      string `json:"career"`
	Health      string `json:"health"`
	LuckyColor  string `json:"lucky_color"`
	LuckyNumber int    `json:"lucky_number"`
}

// Reading is the persisted record of one divination: the cards drawn,
// the interpretation generated for them, and the owner's annotations.
// Cards and Interpretation never change after creation; only Notes and
// IsFavorite are mutable.
type Reading struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	Kind           ReadingKind    `json:"kind"`
	SpreadID       string         `json:"spread_id"`
	Question       string         `json:"question,omitempty"`
	Cards          []DrawnCard    `json:"cards"`
	Interpretation Interpretation `json:"interpretation"`
	Fortune        *Fortune       `json:"fortune,omitempty"`
	FortuneDate    *Date          `json:"fortune_date,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	IsFavorite     bool           `json:"is_favorite"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NewReading creates an ad hoc spread reading for the given user.
// Returns an error if validation fails.
func NewReading(
	userID uuid.UUID,
	spreadID string,
	question string,
	cards []DrawnCard,
	interpretation Interpretation,
) (*Reading, error) {
	now := time.Now().UTC()
	reading := &Reading{
		ID:             uuid.New(),
		UserID:         userID,
		Kind:           ReadingKindSpread,
		SpreadID:       spreadID,
		Question:       question,
		Cards:          cards,
		Interpretation: interpretation,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := reading.Validate(); err != nil {
		return nil, err
	}

	return reading, nil
}

// NewDailyReading creates the daily fortune reading for userID on date.
func NewDailyReading(
	userID uuid.UUID,
	spreadID string,
	date Date,
	cards []DrawnCard,
	interpretation Interpretation,
	fortune Fortune,
) (*Reading, error) {
	now := time.Now().UTC()
	reading := &Reading{
		ID:             uuid.New(),
		UserID:         userID,
		Kind:           ReadingKindDaily,
		SpreadID:       spreadID,
		Cards:          cards,
		Interpretation: interpretation,
		Fortune:        &fortune,
		FortuneDate:    &date,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := reading.Validate(); err != nil {
		return nil, err
	}

	return reading, nil
}

// Validate checks if the Reading has valid data.
// Spread-specific card counts are checked by the tarot package, which
// owns the spread definitions.
func (r *Reading) Validate() error {
	if r.UserID == uuid.Nil {
		return ErrEmptyReadingUserID
	}

	if !isValidReadingKind(r.Kind) {
		return ErrInvalidReadingKind
	}

	if r.SpreadID == "" {
		return ErrEmptySpreadID
	}

	if len(r.Cards) == 0 {
		return ErrNoDrawnCards
	}

	for _, c := range r.Cards {
		if c.Name == "" {
			return ErrEmptyCardName
		}
	}

	if len(r.Interpretation.Cards) != len(r.Cards) {
		return ErrInterpretationMismatch
	}

	if utf8.RuneCountInString(r.Question) > MaxQuestionLength {
		return ErrQuestionTooLong
	}

	if utf8.RuneCountInString(r.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}

	if r.Kind == ReadingKindDaily {
		if r.FortuneDate == nil || r.FortuneDate.IsZero() {
			return ErrMissingFortuneDate
		}
		if r.Fortune == nil {
			return ErrMissingFortune
		}
		if r.Fortune.LuckyNumber < 1 || r.Fortune.LuckyNumber > 9 {
			return ErrInvalidLuckyNumber
		}
	} else if r.FortuneDate != nil {
		return ErrUnexpectedFortuneDate
	}

	return nil
}

// ReadingUpdate carries the only fields of a Reading that may change
// after creation. Nil fields are left untouched.
type ReadingUpdate struct {
	Notes      *string `json:"notes,omitempty"`
	IsFavorite *bool   `json:"is_favorite,omitempty"`
}

// Validate checks that the update changes something and respects field limits.
func (u ReadingUpdate) Validate() error {
	if u.Notes == nil && u.IsFavorite == nil {
		return ErrEmptyReadingUpdate
	}
	if u.Notes != nil && utf8.RuneCountInString(*u.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}

// ApplyTo copies the set fields of u onto r and bumps UpdatedAt.
func (u ReadingUpdate) ApplyTo(r *Reading, now time.Time) {
	if u.Notes != nil {
		r.Notes = *u.Notes
	}
	if u.IsFavorite != nil {
		r.IsFavorite = *u.IsFavorite
	}
	r.UpdatedAt = now.UTC()
}

// isValidReadingKind checks if the given kind is a valid ReadingKind.
func isValidReadingKind(kind ReadingKind) bool {
	switch kind {
	case ReadingKindDaily, ReadingKindSpread:
		return true
	default:
		return false
	}
}
