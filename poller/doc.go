// Package poller drives one polled resource of a game session.
//
// # State Machine
//
// A Poller has two phases. It is Polling from construction and moves to
// Stopped exactly once; there is no way back. While Polling, Run issues one
// fetch, applies the result, evaluates the stream's stop rule and, if the
// rule does not fire, issues the next fetch immediately.
//
// # Stop Reasons
//
//   - ended: the server marked the stream finished
//   - done: the board reported a completed game
//   - failed: a fetch failed (after the configured retries, if any)
//   - canceled: the context was canceled
//
// # Streams
//
// NewBoard, NewStatus and NewPrompt build the three pollers of a session
// with their apply and stop rules.
package poller
