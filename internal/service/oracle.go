package service

import (
	"errors"
	"sync"

	"github.com/phrazzld/tarot-api/internal/domain"
	"github.com/phrazzld/tarot-api/internal/domain/tarot"
)

// Oracle draws cards and derives their text for the services.
// Each call consumes a contiguous run of the Rand sequence, so a seeded
// Rand gives reproducible readings even under concurrent callers.
type Oracle struct {
	drawer      *tarot.Drawer
	interpreter *tarot.Interpreter

	mu  sync.Mutex
	rng tarot.Rand
}

// NewOracle creates an Oracle. A nil rng means tarot.SystemRand.
func NewOracle(drawer *tarot.Drawer, interpreter *tarot.Interpreter, rng tarot.Rand) (*Oracle, error) {
	if drawer == nil {
		return nil, errors.New("drawer cannot be nil")
	}
	if interpreter == nil {
		return nil, errors.New("interpreter cannot be nil")
	}
	if rng == nil {
		rng = tarot.SystemRand
	}
	return &Oracle{drawer: drawer, interpreter: interpreter, rng: rng}, nil
}

// Read draws the spread and interprets the result.
func (o *Oracle) Read(spreadID string) ([]domain.DrawnCard, domain.Interpretation, error) {
	spread, err := tarot.SpreadByID(spreadID)
	if err != nil {
		return nil, domain.Interpretation{}, err
	}

	o.mu.Lock()
	cards, err := o.drawer.Draw(spread, o.rng)
	o.mu.Unlock()
	if err != nil {
		return nil, domain.Interpretation{}, err
	}

	interp, err := o.interpreter.Interpret(cards, spread.ID)
	if err != nil {
		return nil, domain.Interpretation{}, err
	}
	return cards, interp, nil
}

// DailyFortune draws the single daily card, interprets it and composes
// the fortune detail from it.
func (o *Oracle) DailyFortune() ([]domain.DrawnCard, domain.Interpretation, domain.Fortune, error) {
	spread, err := tarot.SpreadByID(tarot.SpreadDaily)
	if err != nil {
		return nil, domain.Interpretation{}, domain.Fortune{}, err
	}

	o.mu.Lock()
	cards, err := o.drawer.Draw(spread, o.rng)
	var fortune domain.Fortune
	if err == nil {
		fortune = o.interpreter.Fortune(cards[0], o.rng)
	}
	o.mu.Unlock()
	if err != nil {
		return nil, domain.Interpretation{}, domain.Fortune{}, err
	}

	interp, err := o.interpreter.Interpret(cards, spread.ID)
	if err != nil {
		return nil, domain.Interpretation{}, domain.Fortune{}, err
	}
	return cards, interp, fortune, nil
}
