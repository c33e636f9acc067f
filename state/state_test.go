package state

import (
	"testing"
	"time"

	"github.com/luca-patrignani/onirim/domain/onirim"
)

func recvChange(t *testing.T, s *State, within time.Duration) {
	t.Helper()
	select {
	case <-s.Changes():
	case <-time.After(within):
		t.Fatalf("timed out waiting for a change notification")
	}
}

func TestEmptyState(t *testing.T) {
	s := New()
	snap := s.Snapshot()
	if snap.Board != nil || snap.Prompt != nil || len(snap.Status) != 0 || snap.Version != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestPromptLatestWins(t *testing.T) {
	s := New()
	s.SetPrompt(onirim.Prompt{Message: "first", Choices: []onirim.Choice{{Key: "A"}}})
	s.SetPrompt(onirim.Prompt{Message: "second"})
	p, seq, ok := s.Prompt()
	if !ok || p.Message != "second" || p.HasChoices() {
		t.Fatalf("expected only the latest prompt, got %+v", p)
	}
	if seq != 2 {
		t.Fatalf("expected prompt sequence 2, got %d", seq)
	}
}

func TestStatusAppendsInOrder(t *testing.T) {
	s := New()
	s.AppendStatus(onirim.Status{Message: "R1"})
	s.AppendClientStatus("Choice failed: nope")
	s.AppendStatus(onirim.Status{Message: "R2", End: true})
	entries := s.Status()
	want := []string{"R1", "Choice failed: nope", "R2"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i := range want {
		if entries[i].Message != want[i] {
			t.Errorf("entry %d: expected %q, got %q", i, want[i], entries[i].Message)
		}
	}
	if !entries[2].End {
		t.Error("expected last entry to carry the end marker")
	}
}

func TestChangesCoalesce(t *testing.T) {
	s := New()
	s.SetBoard(onirim.Board{State: "Playing"})
	s.SetBoard(onirim.Board{State: "End"})
	recvChange(t, s, 100*time.Millisecond)
	select {
	case <-s.Changes():
		t.Fatal("expected notifications to coalesce")
	default:
	}
	if s.Version() != 2 {
		t.Fatalf("expected version 2, got %d", s.Version())
	}
	b, ok := s.Board()
	if !ok || b.State != "End" {
		t.Fatalf("unexpected board %+v", b)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New()
	s.SetBoard(onirim.Board{State: "Playing", Hand: []string{"LRK"}})
	snap := s.Snapshot()
	snap.Board.State = "tampered"
	b, _ := s.Board()
	if b.State != "Playing" {
		t.Fatalf("state modified through a snapshot: %+v", b)
	}
}
