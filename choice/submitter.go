// Package choice sends the player's decisions to the server.
package choice

import (
	"context"
	"errors"
	"log/slog"

	"github.com/luca-patrignani/onirim/domain/onirim"
	"github.com/luca-patrignani/onirim/ledger"
	"github.com/luca-patrignani/onirim/network"
)

// FailurePrefix starts the status line recorded for a rejected choice.
const FailurePrefix = "Choice failed: "

type Chooser interface {
	Choice(ctx context.Context, choice onirim.ChoiceRequest) error
}

// FailureLog receives the line describing a failed submission.
type FailureLog interface {
	AppendClientStatus(message string) ledger.Entry
}

// Submitter posts choices for one session. Submissions are independent:
// the same key may be sent any number of times and nothing is deduplicated.
type Submitter struct {
	api     Chooser
	session onirim.Session
	log     FailureLog
	logger  *slog.Logger
}

func NewSubmitter(api Chooser, session onirim.Session, log FailureLog, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{api: api, session: session, log: log, logger: logger}
}

// Submit sends key. On failure exactly one line is appended to the status
// log: the server's response body when there is one, the transport error
// otherwise. The error is returned as well.
func (s *Submitter) Submit(ctx context.Context, key string) error {
	err := s.api.Choice(ctx, onirim.ChoiceRequest{SessionID: s.session.ID, Key: key})
	if err == nil {
		s.logger.Debug("choice accepted", "key", key)
		return nil
	}
	s.log.AppendClientStatus(FailurePrefix + describe(err))
	s.logger.Warn("choice rejected", "key", key, "error", err)
	return err
}

func describe(err error) string {
	var statusErr *network.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Body
	}
	return err.Error()
}
