// Package state holds the client's view of the game: three disjoint slots
// (board, status log, prompt), each written by exactly one poller.
//
// Slots are guarded separately and there is no cross-slot atomicity: a
// Snapshot may show a new board next to an older prompt. Readers treat it as
// eventually consistent.
package state

import (
	"sync"
	"sync/atomic"

	"github.com/luca-patrignani/onirim/domain/onirim"
	"github.com/luca-patrignani/onirim/ledger"
)

// Snapshot is a point-in-time copy of the three slots.
type Snapshot struct {
	Version uint64
	Board   *onirim.Board
	Status  []ledger.Entry
	Prompt  *onirim.Prompt
	// PromptSeq counts prompt writes, so a renderer can tell a new prompt
	// from a repeated one with the same content.
	PromptSeq uint64
}

// State is the client view of one game, shared by the pollers and the renderer.
type State struct {
	boardMu sync.RWMutex
	board   *onirim.Board

	status *ledger.Ledger

	promptMu  sync.RWMutex
	prompt    *onirim.Prompt
	promptSeq uint64

	version atomic.Uint64
	changes chan struct{}
}

// New returns a State with empty slots.
func New() *State {
	return &State{
		status:  ledger.New(),
		changes: make(chan struct{}, 1),
	}
}

// SetBoard replaces the board slot.
func (s *State) SetBoard(b onirim.Board) {
	s.boardMu.Lock()
	s.board = &b
	s.boardMu.Unlock()
	s.changed()
}

// AppendStatus appends a server status to the log.
func (s *State) AppendStatus(st onirim.Status) ledger.Entry {
	e := s.status.AppendServer(st.Message, st.End, st.Raw)
	s.changed()
	return e
}

// AppendClientStatus appends a locally synthesized line to the log.
func (s *State) AppendClientStatus(message string) ledger.Entry {
	e := s.status.AppendClient(message)
	s.changed()
	return e
}

// SetPrompt replaces the prompt slot. The latest prompt always wins.
func (s *State) SetPrompt(p onirim.Prompt) {
	s.promptMu.Lock()
	s.prompt = &p
	s.promptSeq++
	s.promptMu.Unlock()
	s.changed()
}

// Board returns the last board, if one was received.
func (s *State) Board() (onirim.Board, bool) {
	s.boardMu.RLock()
	defer s.boardMu.RUnlock()
	if s.board == nil {
		return onirim.Board{}, false
	}
	return *s.board, true
}

// Prompt returns the last prompt and its sequence number, if one was received.
func (s *State) Prompt() (onirim.Prompt, uint64, bool) {
	s.promptMu.RLock()
	defer s.promptMu.RUnlock()
	if s.prompt == nil {
		return onirim.Prompt{}, 0, false
	}
	return *s.prompt, s.promptSeq, true
}

// Status returns a copy of the status log.
func (s *State) Status() []ledger.Entry {
	return s.status.Entries()
}

func (s *State) Ledger() *ledger.Ledger {
	return s.status
}

func (s *State) Version() uint64 {
	return s.version.Load()
}

func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Version: s.version.Load(),
		Status:  s.status.Entries(),
	}
	if b, ok := s.Board(); ok {
		snap.Board = &b
	}
	if p, seq, ok := s.Prompt(); ok {
		snap.Prompt = &p
		snap.PromptSeq = seq
	}
	return snap
}

// Changes signals that at least one slot changed since the last receive.
// Signals coalesce: a slow reader gets one notification for many writes.
func (s *State) Changes() <-chan struct{} {
	return s.changes
}

func (s *State) changed() {
	s.version.Add(1)
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
