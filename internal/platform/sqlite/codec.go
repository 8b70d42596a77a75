package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/phrazzld/tarot-api/internal/domain"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// readingPayload holds the JSON-encoded columns of a reading.
type readingPayload struct {
	cards          string
	interpretation string
	fortune        sql.NullString
	fortuneDate    sql.NullString
}

func encodeReading(r *domain.Reading) (readingPayload, error) {
	var p readingPayload

	cards, err := json.Marshal(r.Cards)
	if err != nil {
		return p, fmt.Errorf("encode cards: %w", err)
	}
	p.cards = string(cards)

	interp, err := json.Marshal(r.Interpretation)
	if err != nil {
		return p, fmt.Errorf("encode interpretation: %w", err)
	}
	p.interpretation = string(interp)

	if r.Fortune != nil {
		fortune, err := json.Marshal(r.Fortune)
		if err != nil {
			return p, fmt.Errorf("encode fortune: %w", err)
		}
		p.fortune = sql.NullString{String: string(fortune), Valid: true}
	}

	if r.FortuneDate != nil {
		p.fortuneDate = sql.NullString{String: r.FortuneDate.String(), Valid: true}
	}

	return p, nil
}

const readingColumns = `id, user_id, kind, spread_id, question, cards, interpretation,
	fortune, fortune_date, notes, is_favorite, created_at, updated_at`

func scanReading(row rowScanner) (*domain.Reading, error) {
	var (
		r           domain.Reading
		kind        string
		p           readingPayload
		createdAt   int64
		updatedAt   int64
		fortuneDate sql.Null[domain.Date]
	)

	err := row.Scan(
		&r.ID,
		&r.UserID,
		&kind,
		&r.SpreadID,
		&r.Question,
		&p.cards,
		&p.interpretation,
		&p.fortune,
		&fortuneDate,
		&r.Notes,
		&r.IsFavorite,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Kind = domain.ReadingKind(kind)
	r.CreatedAt = fromMillis(createdAt)
	r.UpdatedAt = fromMillis(updatedAt)

	if err := json.Unmarshal([]byte(p.cards), &r.Cards); err != nil {
		return nil, fmt.Errorf("decode cards: %w", err)
	}
	if err := json.Unmarshal([]byte(p.interpretation), &r.Interpretation); err != nil {
		return nil, fmt.Errorf("decode interpretation: %w", err)
	}
	if p.fortune.Valid {
		var fortune domain.Fortune
		if err := json.Unmarshal([]byte(p.fortune.String), &fortune); err != nil {
			return nil, fmt.Errorf("decode fortune: %w", err)
		}
		r.Fortune = &fortune
	}
	if fortuneDate.Valid {
		date := fortuneDate.V
		r.FortuneDate = &date
	}

	return &r, nil
}

const journalColumns = `id, user_id, title, content, level, created_at`

func scanJournalEntry(row rowScanner) (*domain.JournalEntry, error) {
	var (
		e         domain.JournalEntry
		level     string
		createdAt int64
	)

	if err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &level, &createdAt); err != nil {
		return nil, err
	}

	e.Level = domain.JournalLevel(level)
	e.CreatedAt = fromMillis(createdAt)
	return &e, nil
}
