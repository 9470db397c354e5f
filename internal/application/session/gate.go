// Package session resolves the current session into one of three states:
// checking, anonymous or authenticated.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/timesheet/core/internal/domain/entities"
	"github.com/timesheet/core/internal/ports"
)

// State is the resolution state of a Gate
type State int

const (
	StateChecking State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "checking"
	}
}

// MarshalText lets State render as its name in JSON
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var (
	ErrAlreadySubscribed = errors.New("session gate already subscribed")
	ErrGateClosed        = errors.New("session gate closed")
)

// Snapshot is the state of a gate at one point in time. User is set only
// when State is StateAuthenticated.
type Snapshot struct {
	State State          `json:"state"`
	User  *entities.User `json:"user,omitempty"`
}

// Authenticated reports whether the snapshot carries a signed-in user
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}

// Gate follows one session source. It starts in StateChecking and moves to
// anonymous or authenticated on the first notification. Later notifications
// replace the resolved state.
type Gate struct {
	mu         sync.Mutex
	snapshot   Snapshot
	resolved   chan struct{}
	subscribed bool
	closed     bool
	stop       func()
}

// NewGate creates a gate in the checking state
func NewGate() *Gate {
	return &Gate{resolved: make(chan struct{})}
}

// Subscribe starts following src. A gate follows at most one source.
func (g *Gate) Subscribe(ctx context.Context, src ports.SessionSource) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrGateClosed
	}
	if g.subscribed {
		g.mu.Unlock()
		return ErrAlreadySubscribed
	}
	g.subscribed = true
	g.mu.Unlock()

	stop := src.Watch(ctx, g.publish)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		stop()
		return ErrGateClosed
	}
	g.stop = stop

	return nil
}

func (g *Gate) publish(user *entities.User) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}

	if user != nil {
		g.snapshot = Snapshot{State: StateAuthenticated, User: user}
	} else {
		g.snapshot = Snapshot{State: StateAnonymous}
	}

	select {
	case <-g.resolved:
	default:
		close(g.resolved)
	}
}

// Snapshot returns the current state without blocking
func (g *Gate) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot
}

// Await blocks until the first notification arrives. If ctx ends first the
// check counts as failed and the gate resolves to anonymous.
func (g *Gate) Await(ctx context.Context) Snapshot {
	select {
	case <-g.resolved:
	case <-ctx.Done():
		g.publish(nil)
	}
	return g.Snapshot()
}

// Close stops following the source. A gate closed while checking resolves to
// anonymous.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}
	g.closed = true

	if g.stop != nil {
		g.stop()
		g.stop = nil
	}

	if g.snapshot.State == StateChecking {
		g.snapshot = Snapshot{State: StateAnonymous}
	}
	select {
	case <-g.resolved:
	default:
		close(g.resolved)
	}
}
