package choice_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/luca-patrignani/onirim/choice"
	"github.com/luca-patrignani/onirim/domain/onirim"
	"github.com/luca-patrignani/onirim/ledger"
	"github.com/luca-patrignani/onirim/network"
	"github.com/luca-patrignani/onirim/servertest"
	"github.com/luca-patrignani/onirim/state"
)

func setup(t *testing.T) (*servertest.Server, *state.State, *choice.Submitter) {
	t.Helper()
	s := servertest.New(t)
	c, err := network.NewClient(s.URL)
	if err != nil {
		t.Fatal(err)
	}
	st := state.New()
	return s, st, choice.NewSubmitter(c, onirim.Session{ID: "abc"}, st, nil)
}

func TestSubmitPostsSessionAndKey(t *testing.T) {
	s, st, sub := setup(t)
	s.Script(network.PathChoice, servertest.Raw(`{"ignored":true}`))
	if err := sub.Submit(context.Background(), "draw"); err != nil {
		t.Fatal(err)
	}
	reqs := s.Requests(network.PathChoice)
	if len(reqs) != 1 || reqs[0].Method != http.MethodPost {
		t.Fatalf("expected one POST, got %+v", reqs)
	}
	var body map[string]string
	if err := json.Unmarshal(reqs[0].Body, &body); err != nil {
		t.Fatal(err)
	}
	if body["sessionId"] != "abc" || body["key"] != "draw" || len(body) != 2 {
		t.Fatalf("unexpected body %s", reqs[0].Body)
	}
	if len(st.Status()) != 0 {
		t.Fatalf("a successful choice must not touch the log, got %+v", st.Status())
	}
}

func TestSubmitFailureAppendsServerBody(t *testing.T) {
	s, st, sub := setup(t)
	s.Script(network.PathChoice, servertest.Error(http.StatusBadRequest, "invalid key"))
	err := sub.Submit(context.Background(), "draw")
	var statusErr *network.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	entries := st.Status()
	if len(entries) != 1 {
		t.Fatalf("expected exactly one entry, got %d", len(entries))
	}
	if entries[0].Message != "Choice failed: invalid key" || entries[0].Source != ledger.SourceClient {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}

func TestSubmitTransportFailure(t *testing.T) {
	st := state.New()
	api := chooserFunc(func(context.Context, onirim.ChoiceRequest) error {
		return errors.New("connection refused")
	})
	sub := choice.NewSubmitter(api, onirim.Session{ID: "abc"}, st, nil)
	if err := sub.Submit(context.Background(), "draw"); err == nil {
		t.Fatal("expected error")
	}
	entries := st.Status()
	if len(entries) != 1 || entries[0].Message != "Choice failed: connection refused" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestDuplicateSubmissionsAreSent(t *testing.T) {
	s, _, sub := setup(t)
	s.Script(network.PathChoice, servertest.Raw(""), servertest.Raw(""))
	for i := 0; i < 2; i++ {
		if err := sub.Submit(context.Background(), "draw"); err != nil {
			t.Fatal(err)
		}
	}
	if got := s.Count(network.PathChoice); got != 2 {
		t.Fatalf("expected 2 submissions, got %d", got)
	}
}

type chooserFunc func(ctx context.Context, choice onirim.ChoiceRequest) error

func (f chooserFunc) Choice(ctx context.Context, c onirim.ChoiceRequest) error { return f(ctx, c) }
