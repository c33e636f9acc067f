// Package application wires the session, the three stream pollers, the
// choice submitter and the game-end notifier around one client state.
package application

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/luca-patrignani/onirim/choice"
	"github.com/luca-patrignani/onirim/domain/onirim"
	"github.com/luca-patrignani/onirim/notifier"
	"github.com/luca-patrignani/onirim/poller"
	"github.com/luca-patrignani/onirim/session"
	"github.com/luca-patrignani/onirim/state"
)

var (
	ErrNotStarted     = errors.New("game orchestrator not started")
	ErrAlreadyStarted = errors.New("game orchestrator already started")
)

// API is the subset of the game server the orchestrator talks to.
type API interface {
	session.NewGamer
	poller.BoardFetcher
	poller.StatusFetcher
	poller.PromptFetcher
	choice.Chooser
}

// StreamStatus describes one poller.
type StreamStatus struct {
	Name    string
	Phase   poller.Phase
	Reason  poller.Reason
	Err     error
	Fetches uint64
}

type stream interface {
	Name() string
	Run(ctx context.Context) error
	Stop()
	Status() (poller.Phase, poller.Reason, error)
	Fetches() uint64
}

// GameOrchestrator drives one game from bootstrap until its streams stop.
type GameOrchestrator struct {
	api         API
	bootstrap   *session.Bootstrapper
	pollOptions []poller.Option
	presenter   notifier.Presenter
	logger      *slog.Logger

	session   onirim.Session
	state     *state.State
	notifier  *notifier.Notifier
	submitter *choice.Submitter
	streams   []stream
}

type Option func(GameOrchestrator) GameOrchestrator

// WithPollOptions applies opts to each of the three pollers.
func WithPollOptions(opts ...poller.Option) Option {
	return func(g GameOrchestrator) GameOrchestrator {
		g.pollOptions = append(g.pollOptions, opts...)
		return g
	}
}

// WithPresenter shows the game-end modal through p.
func WithPresenter(p notifier.Presenter) Option {
	return func(g GameOrchestrator) GameOrchestrator {
		g.presenter = p
		return g
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g GameOrchestrator) GameOrchestrator {
		g.logger = logger
		return g
	}
}

// NewGameOrchestrator returns an orchestrator talking to api. Start must be
// called before Run.
func NewGameOrchestrator(api API, opts ...Option) *GameOrchestrator {
	g := GameOrchestrator{
		api:       api,
		bootstrap: session.NewBootstrapper(api),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		g = opt(g)
	}
	return &g
}

// Start acquires the session and builds the components that depend on it.
// A failed bootstrap is final and leaves the orchestrator unstarted.
func (g *GameOrchestrator) Start(ctx context.Context) error {
	if g.state != nil {
		return ErrAlreadyStarted
	}
	s, err := g.bootstrap.Session(ctx)
	if err != nil {
		g.logger.Error("could not start a game", "error", err)
		return err
	}
	g.logger.Info("game started", "session", s.ID)

	g.session = s
	g.state = state.New()
	g.notifier = notifier.New(g.presenter)
	g.submitter = choice.NewSubmitter(g.api, s, g.state, g.logger)

	opts := append([]poller.Option{poller.WithLogger(g.logger)}, g.pollOptions...)
	g.streams = []stream{
		poller.NewBoard(g.api, s, g.state, g.notifier, opts...),
		poller.NewStatus(g.api, s, g.state, opts...),
		poller.NewPrompt(g.api, s, g.state, opts...),
	}
	return nil
}

// Run polls the three streams concurrently and returns once all of them are
// stopped. A stream that fails does not stop the others; the first failure
// is returned.
func (g *GameOrchestrator) Run(ctx context.Context) error {
	if g.state == nil {
		return ErrNotStarted
	}
	var eg errgroup.Group
	for _, s := range g.streams {
		eg.Go(func() error {
			return s.Run(ctx)
		})
	}
	return eg.Wait()
}

// Stop stops the pollers that never ran. Running pollers stop through the
// context given to Run.
func (g *GameOrchestrator) Stop() {
	for _, s := range g.streams {
		s.Stop()
	}
}

func (g *GameOrchestrator) Session() onirim.Session {
	return g.session
}

func (g *GameOrchestrator) State() *state.State {
	return g.state
}

func (g *GameOrchestrator) Submitter() *choice.Submitter {
	return g.submitter
}

func (g *GameOrchestrator) Notifier() *notifier.Notifier {
	return g.notifier
}

// Streams returns the status of the board, status and prompt pollers, in
// that order.
func (g *GameOrchestrator) Streams() []StreamStatus {
	out := make([]StreamStatus, 0, len(g.streams))
	for _, s := range g.streams {
		phase, reason, err := s.Status()
		out = append(out, StreamStatus{
			Name:    s.Name(),
			Phase:   phase,
			Reason:  reason,
			Err:     err,
			Fetches: s.Fetches(),
		})
	}
	return out
}

// Stopped reports whether every poller is stopped.
func (g *GameOrchestrator) Stopped() bool {
	if len(g.streams) == 0 {
		return false
	}
	for _, s := range g.streams {
		if phase, _, _ := s.Status(); phase != poller.Stopped {
			return false
		}
	}
	return true
}
