package tarot

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/phrazzld/tarot-api/internal/domain"
)

// DefaultReversalProbability is the chance that any single drawn card
// lands reversed.
const DefaultReversalProbability = 0.3

// ErrInvalidProbability is returned for a reversal probability outside [0, 1].
var ErrInvalidProbability = errors.New("reversal probability must be between 0 and 1")

// Rand is the entropy a draw consumes. *rand.Rand from math/rand/v2
// satisfies it; tests supply scripted sequences.
type Rand interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
}

type systemRand struct{}

func (systemRand) IntN(n int) int   { return rand.IntN(n) }
func (systemRand) Float64() float64 { return rand.Float64() }

// SystemRand draws from the runtime's goroutine-safe global source.
var SystemRand Rand = systemRand{}

// NewSeededRand returns a reproducible source for the given seed.
// The returned value is not safe for concurrent use.
func NewSeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Drawer draws cards from a catalog.
type Drawer struct {
	catalog             *Catalog
	reversalProbability float64
}

// NewDrawer creates a Drawer over catalog with the given reversal probability.
func NewDrawer(catalog *Catalog, reversalProbability float64) (*Drawer, error) {
	if catalog == nil {
		return nil, ErrEmptyCatalog
	}
	if reversalProbability < 0 || reversalProbability > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidProbability, reversalProbability)
	}
	return &Drawer{catalog: catalog, reversalProbability: reversalProbability}, nil
}

// ReversalProbability returns the configured reversal probability.
func (d *Drawer) ReversalProbability() float64 {
	return d.reversalProbability
}

// Catalog returns the catalog the drawer picks from.
func (d *Drawer) Catalog() *Catalog {
	return d.catalog
}

// Draw deals spread.CardCount distinct cards. Card i is placed at
// spread.Positions[i] and is reversed when rng.Float64() falls below the
// reversal probability. For each position the drawer consumes exactly one
// IntN followed by one Float64, so a scripted rng fully determines the
// result.
func (d *Drawer) Draw(spread Spread, rng Rand) ([]domain.DrawnCard, error) {
	if err := spread.Validate(); err != nil {
		return nil, err
	}

	names := d.catalog.ListCards()
	if spread.CardCount > len(names) {
		return nil, fmt.Errorf("%w: %s needs %d cards, catalog has %d",
			ErrInvalidSpread, spread.ID, spread.CardCount, len(names))
	}

	drawn := make([]domain.DrawnCard, spread.CardCount)
	for i := 0; i < spread.CardCount; i++ {
		// Partial Fisher-Yates: positions [0, i) hold the cards already dealt.
		j := i + rng.IntN(len(names)-i)
		names[i], names[j] = names[j], names[i]

		drawn[i] = domain.DrawnCard{
			Name:       names[i],
			IsReversed: rng.Float64() < d.reversalProbability,
			Position:   spread.Positions[i],
		}
	}

	return drawn, nil
}
