// Package tarot implements the divination core: the card catalog with its
// interpretation templates, the built-in spreads, the draw engine and the
// interpretation generator.
//
// Everything here is free of I/O. Randomness enters only through the Rand
// interface, so a scripted source reproduces a draw exactly.
package tarot
