// Package domain contains the core business entities, value objects, and
// domain logic of the application: readings with their drawn cards and
// interpretations, daily fortunes keyed by calendar date, and journal
// entries. It is independent of any specific infrastructure or delivery
// mechanism.
//
// The tarot sub-package holds the card catalog, spreads, the draw engine
// and the interpretation generator.
package domain
