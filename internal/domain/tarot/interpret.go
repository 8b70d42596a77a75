package tarot

import (
	"fmt"
	"strings"

	"github.com/phrazzld/tarot-api/internal/domain"
)

// GenericSummary is the general text for every spread except relationship.
const GenericSummary = "塔罗牌显示这是一个适合内省和个人成长的时期。请留意周围的征兆，相信自己的直觉。"

const relationshipIntro = "这个关系牌阵揭示了双方当前的状态和互动模式。"

// relationshipClauses maps each relationship position to its summary
// clause, upright first and reversed second:
//
//	0: A's attitude
//	1: B's attitude
//	2: A's feeling toward B
//	3: B's feeling toward A
//	4: relationship status
//	5: advice
var relationshipClauses = [6][2]string{
	{"A方态度较为积极开放。", "A方可能有些犹豫或顾虑。"},
	{"B方展现出正面的态度。", "B方似乎存在一些保留。"},
	{"A对B怀有真诚的好感。", "A对B的感受中夹杂着疑虑。"},
	{"B对A给予温暖的回应。", "B对A的感受略显疏离。"},
	{"两人之间的互动基本保持良好。", "两人之间的互动可能需要更多沟通和理解。"},
	{"建议保持当前的发展方向。", "建议先解决当前的一些障碍。"},
}

// RelationshipClause returns the summary clause for a relationship
// position index and orientation.
func RelationshipClause(index int, reversed bool) string {
	if index < 0 || index >= len(relationshipClauses) {
		return ""
	}
	if reversed {
		return relationshipClauses[index][1]
	}
	return relationshipClauses[index][0]
}

// OrientationLabel returns the display label of an orientation.
func OrientationLabel(reversed bool) string {
	if reversed {
		return "逆位"
	}
	return "正位"
}

// Interpreter turns a draw into text using the catalog's templates.
// It holds no mutable state; the same input always yields the same output.
type Interpreter struct {
	catalog *Catalog
}

// NewInterpreter creates an Interpreter backed by catalog.
func NewInterpreter(catalog *Catalog) *Interpreter {
	return &Interpreter{catalog: catalog}
}

// Interpret generates the general summary and the per-position meanings
// for cards drawn with the given spread.
func (in *Interpreter) Interpret(cards []domain.DrawnCard, spreadID string) (domain.Interpretation, error) {
	spread, err := SpreadByID(spreadID)
	if err != nil {
		return domain.Interpretation{}, err
	}
	if len(cards) != spread.CardCount {
		return domain.Interpretation{}, fmt.Errorf("%w: %s expects %d cards, got %d",
			ErrInvalidSpread, spreadID, spread.CardCount, len(cards))
	}

	meanings := make([]domain.CardMeaning, len(cards))
	for i, card := range cards {
		position := spread.Positions[i]
		meanings[i] = domain.CardMeaning{
			Position: position,
			Meaning:  in.CardMeaning(card, position),
		}
	}

	general := GenericSummary
	if spreadID == SpreadRelationship {
		general = relationshipSummary(cards)
	}

	return domain.Interpretation{General: general, Cards: meanings}, nil
}

// CardMeaning renders the sentence for one card at one position.
func (in *Interpreter) CardMeaning(card domain.DrawnCard, position string) string {
	aspects := in.catalog.TemplateFor(card.Name).For(card.IsReversed)
	return fmt.Sprintf("%s %s - 在%s位置，反映了%s的状态。%s。",
		card.Name, OrientationLabel(card.IsReversed), position, positionContext(position), aspects.General)
}

// positionContext names the party a position speaks about. Relationship
// positions are labelled with A or B; everything else reads as the whole.
func positionContext(position string) string {
	switch {
	case strings.Contains(position, "A"):
		return "第一方"
	case strings.Contains(position, "B"):
		return "第二方"
	default:
		return "整体关系"
	}
}

func relationshipSummary(cards []domain.DrawnCard) string {
	var b strings.Builder
	b.WriteString(relationshipIntro)
	for i, card := range cards {
		b.WriteString(RelationshipClause(i, card.IsReversed))
	}
	return b.String()
}
