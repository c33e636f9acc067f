package poller

import (
	"context"

	"github.com/luca-patrignani/onirim/domain/onirim"
	"github.com/luca-patrignani/onirim/ledger"
)

// Stream names
const (
	StreamBoard  = "board"
	StreamStatus = "status"
	StreamPrompt = "prompt"
)

type BoardFetcher interface {
	Board(ctx context.Context, sessionID string) (onirim.Board, error)
}

type StatusFetcher interface {
	Status(ctx context.Context, sessionID string) (onirim.Status, error)
}

type PromptFetcher interface {
	Prompt(ctx context.Context, sessionID string) (onirim.Prompt, error)
}

type BoardSink interface {
	SetBoard(b onirim.Board)
}

type StatusSink interface {
	AppendStatus(s onirim.Status) ledger.Entry
}

type PromptSink interface {
	SetPrompt(p onirim.Prompt)
}

// GameEndNotifier is told about a board that reports a completed game.
type GameEndNotifier interface {
	Notify(b onirim.Board) bool
}

// NewBoard polls the board. The stream stops when the discriminator reads
// "End" and, independently, when the board reports done; the latter also
// triggers n.
func NewBoard(api BoardFetcher, session onirim.Session, sink BoardSink, n GameEndNotifier, opts ...Option) *Poller[onirim.Board] {
	fetch := func(ctx context.Context) (onirim.Board, error) {
		return api.Board(ctx, session.ID)
	}
	apply := func(b onirim.Board) Reason {
		sink.SetBoard(b)
		reason := ReasonNone
		if b.Ended() {
			reason = ReasonEnded
		}
		if b.Done {
			n.Notify(b)
			reason = ReasonDone
		}
		return reason
	}
	return New(StreamBoard, fetch, apply, opts...)
}

// NewStatus polls the status log, appending every record, until a record
// carries the end marker.
func NewStatus(api StatusFetcher, session onirim.Session, sink StatusSink, opts ...Option) *Poller[onirim.Status] {
	fetch := func(ctx context.Context) (onirim.Status, error) {
		return api.Status(ctx, session.ID)
	}
	apply := func(s onirim.Status) Reason {
		sink.AppendStatus(s)
		if s.End {
			return ReasonEnded
		}
		return ReasonNone
	}
	return New(StreamStatus, fetch, apply, opts...)
}

// NewPrompt polls the prompt, replacing the previous one, until a prompt
// carries the end marker.
func NewPrompt(api PromptFetcher, session onirim.Session, sink PromptSink, opts ...Option) *Poller[onirim.Prompt] {
	fetch := func(ctx context.Context) (onirim.Prompt, error) {
		return api.Prompt(ctx, session.ID)
	}
	apply := func(p onirim.Prompt) Reason {
		sink.SetPrompt(p)
		if p.End {
			return ReasonEnded
		}
		return ReasonNone
	}
	return New(StreamPrompt, fetch, apply, opts...)
}
