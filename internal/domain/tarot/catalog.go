package tarot

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed cards.toml
var defaultCatalogData string

// Catalog errors
var (
	ErrEmptyCatalog     = errors.New("catalog contains no cards")
	ErrDuplicateCard    = errors.New("catalog contains a duplicate card")
	ErrMissingFallback  = errors.New("catalog fallback card has no template")
	ErrIncompleteAspect = errors.New("card template is missing an aspect")
	ErrUnnamedCard      = errors.New("catalog card has no name")
)

// Aspects is the text for one orientation of a card.
type Aspects struct {
	General string `toml:"general" json:"general"`
	Love    string `toml:"love" json:"love"`
	Career  string `toml:"career" json:"career"`
	Health  string `toml:"health" json:"health"`
}

func (a Aspects) isZero() bool {
	return a == Aspects{}
}

func (a Aspects) complete() bool {
	return a.General != "" && a.Love != "" && a.Career != "" && a.Health != ""
}

// CardTemplate holds the upright and reversed text for a card.
type CardTemplate struct {
	Upright  Aspects `toml:"upright" json:"upright"`
	Reversed Aspects `toml:"reversed" json:"reversed"`
}

// For returns the aspects for the given orientation.
func (t CardTemplate) For(reversed bool) Aspects {
	if reversed {
		return t.Reversed
	}
	return t.Upright
}

// Card is a catalog entry.
type Card struct {
	Number      string `json:"number"`
	Name        string `json:"name"`
	HasTemplate bool   `json:"has_template"`
}

// catalogFile mirrors the layout of cards.toml.
type catalogFile struct {
	Fallback string `toml:"fallback"`
	Cards    []struct {
		Number   string  `toml:"number"`
		Name     string  `toml:"name"`
		Upright  Aspects `toml:"upright"`
		Reversed Aspects `toml:"reversed"`
	} `toml:"cards"`
}

// Catalog is the fixed, ordered set of cards a deck can draw from, along
// with their interpretation templates. A Catalog is immutable once built
// and safe for concurrent use.
type Catalog struct {
	cards     []Card
	index     map[string]int
	templates map[string]CardTemplate
	fallback  string
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := ParseCatalog(defaultCatalogData)
	if err != nil {
		panic(fmt.Sprintf("tarot: embedded catalog is invalid: %v", err))
	}
	return c
})

// DefaultCatalog returns the embedded 22-card major arcana catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog()
}

// ParseCatalog builds a Catalog from TOML text.
func ParseCatalog(data string) (*Catalog, error) {
	var file catalogFile
	if _, err := toml.Decode(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing catalog: %w", err)
	}
	return newCatalog(file)
}

// LoadCatalogFile builds a Catalog from a TOML file on disk, for decks
// that ship their own card text.
func LoadCatalogFile(path string) (*Catalog, error) {
	var file catalogFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("error parsing catalog %s: %w", path, err)
	}
	return newCatalog(file)
}

func newCatalog(file catalogFile) (*Catalog, error) {
	if len(file.Cards) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		cards:     make([]Card, 0, len(file.Cards)),
		index:     make(map[string]int, len(file.Cards)),
		templates: make(map[string]CardTemplate),
		fallback:  file.Fallback,
	}

	for _, entry := range file.Cards {
		if entry.Name == "" {
			return nil, fmt.Errorf("%w: number %q", ErrUnnamedCard, entry.Number)
		}
		if _, dup := c.index[entry.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCard, entry.Name)
		}

		hasTemplate := !entry.Upright.isZero() || !entry.Reversed.isZero()
		if hasTemplate {
			if !entry.Upright.complete() || !entry.Reversed.complete() {
				return nil, fmt.Errorf("%w: %s", ErrIncompleteAspect, entry.Name)
			}
			c.templates[entry.Name] = CardTemplate{Upright: entry.Upright, Reversed: entry.Reversed}
		}

		c.index[entry.Name] = len(c.cards)
		c.cards = append(c.cards, Card{Number: entry.Number, Name: entry.Name, HasTemplate: hasTemplate})
	}

	if c.fallback == "" {
		c.fallback = c.cards[0].Name
	}
	if _, ok := c.templates[c.fallback]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingFallback, c.fallback)
	}

	return c, nil
}

// ListCards returns the card names in catalog order.
func (c *Catalog) ListCards() []string {
	names := make([]string, len(c.cards))
	for i, card := range c.cards {
		names[i] = card.Name
	}
	return names
}

// Cards returns the catalog entries in order.
func (c *Catalog) Cards() []Card {
	out := make([]Card, len(c.cards))
	copy(out, c.cards)
	return out
}

// Size returns the number of cards in the catalog.
func (c *Catalog) Size() int {
	return len(c.cards)
}

// Contains reports whether name is a card of this catalog.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Fallback returns the name of the card whose template stands in for
// cards that have none of their own.
func (c *Catalog) Fallback() string {
	return c.fallback
}

// TemplateFor returns the template of the named card, or the fallback
// card's template when the card has no dedicated one. Unknown names also
// resolve to the fallback so output stays reproducible.
func (c *Catalog) TemplateFor(name string) CardTemplate {
	if t, ok := c.templates[name]; ok {
		return t
	}
	return c.templates[c.fallback]
}
