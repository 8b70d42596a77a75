package tarot

import (
	"errors"
	"fmt"
)

// ErrInvalidSpread is returned when a spread ID is unknown, when a spread's
// card count cannot be satisfied, or when a draw does not match the size
// of its spread. It indicates a programming error and is not retryable.
var ErrInvalidSpread = errors.New("invalid spread")

// Spread IDs
const (
	SpreadSingle       = "single"
	SpreadThree        = "three"
	SpreadCeltic       = "celtic"
	SpreadRelationship = "relationship"
	SpreadDaily        = "daily"
)

// Spread is a named layout: how many cards are drawn and what each
// position stands for.
type Spread struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CardCount   int      `json:"card_count"`
	Positions   []string `json:"positions"`
}

// Validate checks that the spread is internally consistent.
func (s Spread) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: empty spread ID", ErrInvalidSpread)
	}
	if s.CardCount <= 0 {
		return fmt.Errorf("%w: %s has card count %d", ErrInvalidSpread, s.ID, s.CardCount)
	}
	if len(s.Positions) != s.CardCount {
		return fmt.Errorf("%w: %s has %d positions for %d cards",
			ErrInvalidSpread, s.ID, len(s.Positions), s.CardCount)
	}
	return nil
}

var spreads = []Spread{
	{
		ID:          SpreadSingle,
		Name:        "单张牌阵",
		Description: "简单直接的指引",
		CardCount:   1,
		Positions:   []string{"主要指引"},
	},
	{
		ID:          SpreadThree,
		Name:        "三张牌阵",
		Description: "过去、现在与未来",
		CardCount:   3,
		Positions:   []string{"过去", "现在", "未来"},
	},
	{
		ID:          SpreadCeltic,
		Name:        "凯尔特十字",
		Description: "深入全面的解读",
		CardCount:   10,
		Positions: []string{
			"当前处境", "面临挑战", "潜在可能", "过去基础",
			"当前想法", "近期发展", "自我认知", "外在影响",
			"希望恐惧", "最终结果",
		},
	},
	{
		ID:          SpreadRelationship,
		Name:        "关系牌阵",
		Description: "探索两人关系",
		CardCount:   6,
		Positions: []string{
			"A的想法/态度", "B的想法/态度",
			"A对B的感受", "B对A的感受",
			"关系现状", "关系建议",
		},
	},
	{
		ID:          SpreadDaily,
		Name:        "今日运势",
		Description: "每日一张的运势指引",
		CardCount:   1,
		Positions:   []string{"今日运势"},
	},
}

// Spreads returns every built-in spread in display order.
func Spreads() []Spread {
	out := make([]Spread, len(spreads))
	for i, s := range spreads {
		out[i] = s
		out[i].Positions = append([]string(nil), s.Positions...)
	}
	return out
}

// SpreadByID looks up a built-in spread.
func SpreadByID(id string) (Spread, error) {
	for _, s := range spreads {
		if s.ID == id {
			s.Positions = append([]string(nil), s.Positions...)
			return s, nil
		}
	}
	return Spread{}, fmt.Errorf("%w: unknown spread %q", ErrInvalidSpread, id)
}
