// Package service contains the application-specific use cases behind the
// API and the CLI. It orchestrates the tarot domain (draws, interpretations
// and fortunes) and the repositories defined in internal/store.
//
// Key components:
//
//   - ReadingService: draw, save, list, update and delete the caller's readings
//   - FortuneService: the once-per-day fortune workflow, safe under concurrent first loads
//   - JournalService and StatsService: the caller's journal and counters
//   - Oracle: serializes access to the entropy source so seeded draws stay reproducible
//
// Every operation reads the caller from the context (see auth.UserIDFromContext)
// and enforces ownership itself. Backend failures are returned as *StorageError,
// which matches ErrStorage; services never retry.
package service
