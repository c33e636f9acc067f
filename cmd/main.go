package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/samber/lo"

	"github.com/luca-patrignani/onirim/application"
	"github.com/luca-patrignani/onirim/config"
	"github.com/luca-patrignani/onirim/domain/onirim"
	"github.com/luca-patrignani/onirim/network"
	"github.com/luca-patrignani/onirim/notifier"
	"github.com/luca-patrignani/onirim/poller"
	"github.com/luca-patrignani/onirim/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [server address]\n", os.Args[0])
		return 2
	}

	// Create a new slog handler with the default PTerm logger
	handler := pterm.NewSlogHandler(&pterm.DefaultLogger)
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return 2
	}
	if len(args) == 1 {
		serverURL, err := serverURLFromArg(args[0])
		if err != nil {
			logger.Error("invalid server address", "address", args[0], "error", err)
			return 2
		}
		if cfg, err = cfg.WithArgs([]string{serverURL}); err != nil {
			logger.Error("invalid server address", "address", args[0], "error", err)
			return 2
		}
	}
	pterm.DefaultLogger.Level = ptermLevel(cfg.Level())

	printBanner()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, telemetry.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()

	client, err := newClient(cfg, logger)
	if err != nil {
		logger.Error("could not create the game client", "error", err)
		return 1
	}

	ui := newTerminal(logger)
	game := application.NewGameOrchestrator(client,
		application.WithLogger(logger),
		application.WithPresenter(ui),
		application.WithPollOptions(
			poller.WithRate(cfg.PollRate),
			poller.WithRetry(cfg.PollRetries, nil),
		),
	)

	spinner, _ := pterm.DefaultSpinner.Start("Starting a new game on " + client.BaseURL() + " ...")
	if err := game.Start(ctx); err != nil {
		spinner.Fail("Could not start a game")
		return 1
	}
	spinner.Success("Game " + game.Session().ID + " started")

	runErr := make(chan error, 1)
	go func() {
		runErr <- game.Run(ctx)
	}()
	return ui.loop(ctx, game, runErr)
}

func newClient(cfg config.Config, logger *slog.Logger) (*network.Client, error) {
	opts := []network.Option{
		network.WithLogger(logger),
		network.WithTimeout(cfg.RequestTimeout),
	}
	if cfg.CAFile != "" {
		certPool, err := network.LoadCertPool(cfg.CAFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, network.WithRootCAs(certPool))
	}
	return network.NewClient(cfg.ServerURL, opts...)
}

func ptermLevel(l slog.Level) pterm.LogLevel {
	switch {
	case l <= slog.LevelDebug:
		return pterm.LogLevelDebug
	case l <= slog.LevelInfo:
		return pterm.LogLevelInfo
	case l <= slog.LevelWarn:
		return pterm.LogLevelWarn
	default:
		return pterm.LogLevelError
	}
}

// terminal renders the game and collects the player's input. Rendering and
// input happen on the loop goroutine only; pollers reach it through the
// state change channel and the modal queue.
type terminal struct {
	logger   *slog.Logger
	modals   chan notifier.Modal
	lastView string
	// askedSeq is the prompt sequence number the player last answered. Every
	// prompt fetch is a new prompt, even when its content repeats.
	askedSeq uint64
	choose   func(p onirim.Prompt) (onirim.Choice, bool, error)
}

func newTerminal(logger *slog.Logger) *terminal {
	return &terminal{
		logger: logger,
		modals: make(chan notifier.Modal, 1),
		choose: selectChoice,
	}
}

// Present queues the game-end modal for the loop. It never blocks the
// board poller.
func (t *terminal) Present(m notifier.Modal) {
	select {
	case t.modals <- m:
	default:
	}
}

func (t *terminal) loop(ctx context.Context, game *application.GameOrchestrator, runErr <-chan error) int {
	streamsDone := false
	for {
		if streamsDone && len(t.modals) == 0 {
			if _, open := game.Notifier().Active(); !open {
				t.render(game)
				pterm.Info.Println("The game is over.")
				return 0
			}
		}
		select {
		case <-ctx.Done():
			pterm.Println()
			pterm.Info.Println("Leaving the game.")
			return 0
		case err := <-runErr:
			streamsDone = true
			if err != nil {
				t.logger.Warn("a stream stopped with an error", "error", err)
			}
			t.render(game)
		case m := <-t.modals:
			t.dismiss(game, m)
		case <-game.State().Changes():
			t.render(game)
			select {
			case m := <-t.modals:
				t.dismiss(game, m)
			default:
			}
			if !streamsDone {
				t.ask(ctx, game)
			}
		}
	}
}

func (t *terminal) render(game *application.GameOrchestrator) {
	view, err := renderDashboard(game.State().Snapshot(), game.Streams())
	if err != nil {
		t.logger.Error("failed to render the board", "error", err)
		return
	}
	if view == t.lastView {
		return
	}
	t.lastView = view
	pterm.Print(view)
}

func (t *terminal) dismiss(game *application.GameOrchestrator, m notifier.Modal) {
	t.render(game)
	t.showModal(m)
	game.Notifier().Dismiss()
}

// ask shows the choices of a new prompt and submits the answer. A rejected
// choice shows up in the status log and the prompt is asked again. Nothing
// is asked once the board stream stopped or while a game-end modal waits.
func (t *terminal) ask(ctx context.Context, game *application.GameOrchestrator) {
	if len(t.modals) > 0 || boardStopped(game) {
		return
	}
	p, seq, ok := game.State().Prompt()
	if !ok || !p.HasChoices() || seq <= t.askedSeq {
		return
	}
	prev := t.askedSeq
	t.askedSeq = seq

	c, found, err := t.choose(p)
	if err != nil {
		t.logger.Error("failed to read the choice", "error", err)
		return
	}
	if !found {
		return
	}
	if err := game.Submitter().Submit(ctx, c.Key); err != nil {
		t.askedSeq = prev
	}
}

func boardStopped(game *application.GameOrchestrator) bool {
	for _, s := range game.Streams() {
		if s.Name == poller.StreamBoard {
			return s.Phase == poller.Stopped
		}
	}
	return false
}

func selectChoice(p onirim.Prompt) (onirim.Choice, bool, error) {
	labels := lo.Map(p.Choices, func(c onirim.Choice, _ int) string { return choiceLabel(c) })
	selected, err := pterm.DefaultInteractiveSelect.WithDefaultText(p.Message).WithOptions(labels).Show()
	if err != nil {
		return onirim.Choice{}, false, err
	}
	c, found := lo.Find(p.Choices, func(c onirim.Choice) bool { return choiceLabel(c) == selected })
	return c, found, nil
}

func (t *terminal) showModal(m notifier.Modal) {
	pterm.Println()
	pterm.Println(printModal(m))
	_, _ = pterm.DefaultInteractiveConfirm.
		WithDefaultText("Dismiss").
		WithDefaultValue(true).
		Show()
}
