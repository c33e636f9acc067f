package onirim

import (
	"bytes"
	"encoding/json"
)

// StateEnd is the Board discriminator value of a finished game.
const StateEnd = "End"

// Session identifies one game on the server.
type Session struct {
	ID string `json:"id"`
}

// Board is the server's view of the table.
// Raw keeps the payload as received so renderers can show fields the client
// does not model.
type Board struct {
	State          string          `json:"state"`
	Done           bool            `json:"done"`
	Won            bool            `json:"won"`
	Hand           []string        `json:"hand"`
	Discard        []string        `json:"discard"`
	Doors          []string        `json:"doors"`
	Row            []string        `json:"row"`
	CardsRemaining int             `json:"cardsRemaining"`
	Raw            json.RawMessage `json:"-"`
}

// Ended reports whether the discriminator says the game is over.
func (b Board) Ended() bool {
	return b.State == StateEnd
}

// Finished reports whether the board stream must stop. Ended and Done are
// independent: either one is enough.
func (b Board) Finished() bool {
	return b.Ended() || b.Done
}

func (b *Board) UnmarshalJSON(data []byte) error {
	type board Board
	var v board
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = Board(v)
	b.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// Status is one record of the server's status log.
type Status struct {
	Message string          `json:"message"`
	End     bool            `json:"end"`
	Raw     json.RawMessage `json:"-"`
}

// UnmarshalJSON accepts both an object and a bare JSON string, which some
// servers send for plain log lines.
func (s *Status) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var msg string
		if err := json.Unmarshal(trimmed, &msg); err != nil {
			return err
		}
		*s = Status{Message: msg}
	} else {
		type status Status
		var v status
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = Status(v)
	}
	s.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// Choice is one answer offered by a Prompt.
type Choice struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Prompt is the current input request. A Prompt with no Choices asks for
// nothing.
type Prompt struct {
	Message string          `json:"message"`
	Choices []Choice        `json:"choices"`
	End     bool            `json:"end"`
	Raw     json.RawMessage `json:"-"`
}

func (p *Prompt) UnmarshalJSON(data []byte) error {
	type prompt Prompt
	var v prompt
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Prompt(v)
	p.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// HasChoices reports whether the player is expected to answer.
func (p Prompt) HasChoices() bool {
	return len(p.Choices) > 0
}

// ChoiceRequest is the body of a choice submission.
type ChoiceRequest struct {
	SessionID string `json:"sessionId"`
	Key       string `json:"key"`
}

// GameEndMessage is the text of the end-of-game modal.
func GameEndMessage(won bool) string {
	if won {
		return "You won!"
	}
	return "You lost!"
}
