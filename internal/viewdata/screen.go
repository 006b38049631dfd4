package viewdata

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/settlesavvy/settlemap-cli/pkg/settleapi"
)

// Guard is the synchronous authentication predicate checked before any
// fetch is issued.
type Guard func() bool

// Screen owns the view state for one screen instance. Each Load call
// is a cycle: the guard runs first, then the fetch; a cycle that is
// superseded by a newer one (dependency key change, remount) has its
// result discarded silently.
type Screen[T any] struct {
	guard Guard
	nav   Navigator

	gen atomic.Uint64

	mu    sync.Mutex
	state State[T]
}

// NewScreen creates a screen with the given guard and navigator.
func NewScreen[T any](guard Guard, nav Navigator) *Screen[T] {
	return &Screen[T]{guard: guard, nav: nav}
}

// State returns the current view state.
func (s *Screen[T]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load runs one load cycle. Without a valid session it navigates to
// the login route and returns the redirect state without touching the
// network. Otherwise it runs fetch and resolves to ready or failed.
// The returned state is the screen's current state, which may belong
// to a newer cycle if this one went stale while fetch was suspended.
func (s *Screen[T]) Load(ctx context.Context, fetch func(ctx context.Context) (T, error)) State[T] {
	if !s.guard() {
		st := State[T]{Status: StatusRedirect}
		s.mu.Lock()
		s.state = st
		s.mu.Unlock()
		s.nav.Navigate(RouteLogin)
		return st
	}

	gen := s.gen.Add(1)
	s.setIfCurrent(gen, State[T]{Status: StatusLoading})

	data, err := fetch(ctx)

	var st State[T]
	switch {
	case err == nil:
		st = State[T]{Status: StatusReady, Data: data}
	case errors.Is(err, settleapi.ErrUnauthorized):
		// The client's unauthorized hook has already cleared the
		// session; the navigation to login happens here, on the cycle
		// that hit the 401.
		st = State[T]{Status: StatusRedirect}
	default:
		st = State[T]{Status: StatusFailed, Err: userMessage(err)}
	}

	if !s.setIfCurrent(gen, st) {
		zap.L().Debug("viewdata: discarding stale load result", zap.Uint64("gen", gen))
		return s.State()
	}
	if st.Status == StatusRedirect {
		s.nav.Navigate(RouteLogin)
	}
	return st
}

// setIfCurrent applies st only when gen is still the newest cycle.
func (s *Screen[T]) setIfCurrent(gen uint64, st State[T]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen.Load() != gen {
		return false
	}
	s.state = st
	return true
}

// userMessage converts a fetch error into the message shown on the
// error panel.
func userMessage(err error) string {
	switch {
	case errors.Is(err, settleapi.ErrNotFound):
		return "Map not found"
	case errors.Is(err, settleapi.ErrForbidden):
		return "You do not have access to this map"
	default:
		return "Failed to load map data. Please try again later."
	}
}
