// Package session acquires the session identifier shared by every stream.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/luca-patrignani/onirim/domain/onirim"
)

type NewGamer interface {
	NewGame(ctx context.Context) (onirim.Session, error)
}

// Bootstrapper requests a session exactly once. A failure is final: later
// calls return the same error without contacting the server again.
type Bootstrapper struct {
	api     NewGamer
	once    sync.Once
	session onirim.Session
	err     error
}

func NewBootstrapper(api NewGamer) *Bootstrapper {
	return &Bootstrapper{api: api}
}

// Session performs the bootstrap request on the first call and returns its
// outcome on every call.
func (b *Bootstrapper) Session(ctx context.Context) (onirim.Session, error) {
	b.once.Do(func() {
		s, err := b.api.NewGame(ctx)
		if err != nil {
			b.err = fmt.Errorf("bootstrap failed: %w", err)
			return
		}
		b.session = s
	})
	return b.session, b.err
}
