// Package notifier presents the end of the game, once.
package notifier

import (
	"sync"

	"github.com/luca-patrignani/onirim/domain/onirim"
)

// Modal is the blocking, dismiss-only end-of-game message.
type Modal struct {
	Won     bool
	Message string
}

// Presenter shows a modal to the player. It is called at most once per
// Notifier.
type Presenter interface {
	Present(m Modal)
}

type PresenterFunc func(m Modal)

func (f PresenterFunc) Present(m Modal) { f(m) }

type Notifier struct {
	presenter Presenter
	once      sync.Once

	mu        sync.Mutex
	modal     *Modal
	dismissed bool
}

// New returns a Notifier presenting through p. A nil p only records the
// modal, which stays readable through Active.
func New(p Presenter) *Notifier {
	return &Notifier{presenter: p}
}

// Notify presents the end-of-game modal the first time it sees a board with
// Done set. It reports whether this call presented it.
func (n *Notifier) Notify(b onirim.Board) bool {
	if !b.Done {
		return false
	}
	presented := false
	n.once.Do(func() {
		m := Modal{Won: b.Won, Message: onirim.GameEndMessage(b.Won)}
		n.mu.Lock()
		n.modal = &m
		n.mu.Unlock()
		presented = true
		if n.presenter != nil {
			n.presenter.Present(m)
		}
	})
	return presented
}

// Active returns the modal currently shown, if any.
func (n *Notifier) Active() (Modal, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.modal == nil {
		return Modal{}, false
	}
	return *n.modal, true
}

// Dismiss closes the modal and clears the reference to it. It reports
// whether a modal was open.
func (n *Notifier) Dismiss() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.modal == nil {
		return false
	}
	n.modal = nil
	n.dismissed = true
	return true
}

// Dismissed reports whether the modal was shown and then dismissed.
func (n *Notifier) Dismissed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dismissed
}
