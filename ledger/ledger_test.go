package ledger

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestAppendPreservesOrder(t *testing.T) {
	l := New()
	for _, msg := range []string{"R1", "R2", "R3"} {
		l.AppendServer(msg, false, nil)
	}
	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"R1", "R2", "R3"} {
		if entries[i].Message != want || entries[i].Index != i || entries[i].Source != SourceServer {
			t.Errorf("entry %d: expected %s from server, got %+v", i, want, entries[i])
		}
	}
	if err := l.Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestClientEntries(t *testing.T) {
	l := New()
	l.AppendServer("Drew R:B", false, []byte(`{"message":"Drew R:B"}`))
	e := l.AppendClient("Choice failed: invalid key")
	if e.Index != 1 || e.Source != SourceClient || e.End {
		t.Fatalf("unexpected client entry %+v", e)
	}
	latest, ok := l.Latest()
	if !ok || latest.Message != "Choice failed: invalid key" {
		t.Fatalf("unexpected latest entry %+v", latest)
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	l := New()
	l.AppendServer("R1", false, nil)
	entries := l.Entries()
	entries[0].Message = "tampered"
	got, err := l.GetByIndex(0)
	if err != nil {
		t.Fatal(err)
	}
	if got.Message != "R1" {
		t.Fatalf("ledger was modified through a copy: %+v", got)
	}
}

func TestGetByIndexOutOfRange(t *testing.T) {
	l := New()
	if _, err := l.GetByIndex(0); err == nil {
		t.Fatal("expected error on empty ledger")
	}
	if _, ok := l.Latest(); ok {
		t.Fatal("expected no latest entry on empty ledger")
	}
}

func TestVerifyDetectsBrokenIndex(t *testing.T) {
	l := New()
	l.AppendServer("R1", false, nil)
	l.AppendServer("R2", false, nil)
	l.entries[1].Index = 5
	if err := l.Verify(); err == nil {
		t.Fatal("expected continuity error")
	}
}

func TestVerifyDetectsTimeTravel(t *testing.T) {
	l := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(-time.Second)}
	l.now = func() time.Time {
		next := times[0]
		times = times[1:]
		return next
	}
	l.AppendServer("R1", false, nil)
	l.AppendServer("R2", false, nil)
	if err := l.Verify(); err == nil {
		t.Fatal("expected ordering error")
	}
}

func TestConcurrentAppend(t *testing.T) {
	l := New()
	n := 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				l.AppendServer(fmt.Sprint(i), false, nil)
			} else {
				l.AppendClient(fmt.Sprint(i))
			}
		}(i)
	}
	wg.Wait()
	if l.Len() != n {
		t.Fatalf("expected %d entries, got %d", n, l.Len())
	}
	if err := l.Verify(); err != nil {
		t.Fatal(err)
	}
}
