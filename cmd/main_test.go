package main

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/onirim/application"
	"github.com/luca-patrignani/onirim/domain/onirim"
	"github.com/luca-patrignani/onirim/ledger"
	"github.com/luca-patrignani/onirim/notifier"
	"github.com/luca-patrignani/onirim/poller"
	"github.com/luca-patrignani/onirim/state"
)

func init() {
	pterm.DisableStyling()
}

func TestPrintBoardInfoDecodesCards(t *testing.T) {
	b := onirim.Board{
		State:          "Playing",
		Hand:           []string{"LRK", "LBS", "DN"},
		Doors:          []string{"RG"},
		CardsRemaining: 42,
	}
	out := printBoardInfo(&b)
	for _, want := range []string{"Playing", "42", "Red Key", "Blue Sun", "Nightmare", "Green Door"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in board:\n%s", want, out)
		}
	}
	if !strings.Contains(printBoardInfo(nil), "waiting") {
		t.Error("expected a placeholder before the first board")
	}
}

func TestPrintStatusLogKeepsLatest(t *testing.T) {
	l := ledger.New()
	for _, m := range []string{"R1", "R2", "R3"} {
		l.AppendServer(m, false, nil)
	}
	l.AppendClient("Choice failed: invalid key")
	out := printStatusLog(l.Entries(), 2)
	if strings.Contains(out, "R2") || !strings.Contains(out, "R3") || !strings.Contains(out, "Choice failed: invalid key") {
		t.Fatalf("expected the two latest entries only:\n%s", out)
	}
	if strings.Index(out, "R3") > strings.Index(out, "Choice failed") {
		t.Fatalf("expected arrival order:\n%s", out)
	}
}

func TestPrintPromptInfo(t *testing.T) {
	p := onirim.Prompt{
		Message: "Play or discard?",
		Choices: []onirim.Choice{{Key: "P0", Name: "Play Red Key"}, {Key: "D0"}},
	}
	out := printPromptInfo(&p)
	for _, want := range []string{"Play or discard?", "Play Red Key [P0]", "D0"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in prompt:\n%s", want, out)
		}
	}
	if !strings.Contains(printPromptInfo(&onirim.Prompt{}), "nothing to decide") {
		t.Error("expected an idle prompt placeholder")
	}
}

func TestPrintModal(t *testing.T) {
	if out := printModal(notifier.Modal{Won: true, Message: "You won!"}); !strings.Contains(out, "You won!") {
		t.Fatalf("unexpected modal:\n%s", out)
	}
	if out := printModal(notifier.Modal{Message: "You lost!"}); !strings.Contains(out, "You lost!") {
		t.Fatalf("unexpected modal:\n%s", out)
	}
}

func TestRenderDashboard(t *testing.T) {
	st := state.New()
	st.SetBoard(onirim.Board{State: "Playing", Hand: []string{"LYM"}})
	st.AppendStatus(onirim.Status{Message: "Drew Brown Moon"})
	out, err := renderDashboard(st.Snapshot(), []application.StreamStatus{
		{Name: poller.StreamBoard, Phase: poller.Polling},
		{Name: poller.StreamStatus, Phase: poller.Stopped, Reason: poller.ReasonFailed, Err: errors.New("boom")},
		{Name: poller.StreamPrompt, Phase: poller.Stopped, Reason: poller.ReasonEnded},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Brown Moon", "Drew Brown Moon", "status (failed)", "prompt (ended)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in dashboard:\n%s", want, out)
		}
	}
}

func TestPresentNeverBlocks(t *testing.T) {
	ui := newTerminal(slog.Default())
	ui.Present(notifier.Modal{Message: "You lost!"})
	ui.Present(notifier.Modal{Message: "You lost!"})
	if len(ui.modals) != 1 {
		t.Fatalf("expected one queued modal, got %d", len(ui.modals))
	}
}

func TestPtermLevel(t *testing.T) {
	tcs := []struct {
		in       slog.Level
		expected pterm.LogLevel
	}{
		{slog.LevelDebug, pterm.LogLevelDebug},
		{slog.LevelInfo, pterm.LogLevelInfo},
		{slog.LevelWarn, pterm.LogLevelWarn},
		{slog.LevelError, pterm.LogLevelError},
	}
	for _, tc := range tcs {
		if actual := ptermLevel(tc.in); actual != tc.expected {
			t.Errorf("%s: expected %v, actual %v", tc.in, tc.expected, actual)
		}
	}
}
