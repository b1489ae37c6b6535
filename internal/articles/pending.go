package articles

import (
	"context"
	"sync"
)

// Pending is a store whose single load is still in flight. Readers block in
// Wait until the load completes; a failed load leaves an empty store and
// the load error for the rest of the session.
type Pending struct {
	done  chan struct{}
	once  sync.Once
	store *Store
	err   error
}

// NewPending returns a Pending with no load started.
func NewPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Ready returns a Pending already resolved to s.
func Ready(s *Store) *Pending {
	p := NewPending()
	p.resolve(s, nil)
	return p
}

// Start runs the loader in the background and returns the pending result.
func Start(ctx context.Context, l *Loader) *Pending {
	p := NewPending()
	go func() {
		s, err := l.Load(ctx)
		p.resolve(s, err)
	}()
	return p
}

// Resolve completes the pending load. Later calls are ignored.
func (p *Pending) Resolve(s *Store, err error) {
	p.resolve(s, err)
}

func (p *Pending) resolve(s *Store, err error) {
	p.once.Do(func() {
		if s == nil {
			s = Empty()
		}
		p.store, p.err = s, err
		close(p.done)
	})
}

// Done is closed once the load has completed.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Loaded reports whether the load has completed.
func (p *Pending) Loaded() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the load completes or ctx is done.
func (p *Pending) Wait(ctx context.Context) (*Store, error) {
	select {
	case <-p.done:
		return p.store, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Err returns the load error once the load has completed, and nil before.
func (p *Pending) Err() error {
	if !p.Loaded() {
		return nil
	}
	return p.err
}
