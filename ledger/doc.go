// Package ledger implements the append-only status log shown to the player.
//
// # Core Components
//
// Ledger: an ordered log of Entry values. Entries are appended in arrival
// order and never modified, reordered or removed.
//
// Entry: one status line. Source tells whether the server sent it or the
// client synthesized it locally (for example after a failed choice).
//
// # Properties
//
//   - Order: Entries returns entries exactly in append order
//   - Continuity: entry indexes start at 0 and have no gaps
//   - Isolation: callers only ever receive copies
//
// Verify checks continuity at any time.
package ledger
