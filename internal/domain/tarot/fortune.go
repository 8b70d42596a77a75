package tarot

import "github.com/phrazzld/tarot-api/internal/domain"

// LuckyColors is the palette a daily fortune's lucky colour is picked from.
var LuckyColors = []string{"紫色", "蓝色", "绿色", "金色", "白色", "红色"}

// MaxLuckyNumber bounds the lucky number; values run from 1 to MaxLuckyNumber.
const MaxLuckyNumber = 9

// Fortune composes the daily fortune detail for card. Aspect text comes
// from the card's template for its orientation. The lucky colour and then
// the lucky number are each taken from one rng.IntN call.
func (in *Interpreter) Fortune(card domain.DrawnCard, rng Rand) domain.Fortune {
	aspects := in.catalog.TemplateFor(card.Name).For(card.IsReversed)
	return domain.Fortune{
		General:     aspects.General,
		Love:        aspects.Love,
		Career:      aspects.Career,
		Health:      aspects.Health,
		LuckyColor:  LuckyColors[rng.IntN(len(LuckyColors))],
		LuckyNumber: rng.IntN(MaxLuckyNumber) + 1,
	}
}
