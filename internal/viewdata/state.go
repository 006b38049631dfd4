// Package viewdata drives the authentication-gated fetch lifecycle
// behind every screen: Guard -> Load -> {ready, failed, redirect},
// plus the mutation wrapper for create/update/delete operations.
// Asynchronous loading is represented as one explicit discriminated
// state instead of ad hoc flags.
package viewdata

// Status is the discriminated view status.
type Status string

const (
	// StatusLoading means a load cycle is in flight.
	StatusLoading Status = "loading"
	// StatusReady means the payload resolved and is safe to render.
	StatusReady Status = "ready"
	// StatusFailed means the load cycle hit a terminal error. There is
	// no automatic retry; the screen re-triggers Load manually.
	StatusFailed Status = "failed"
	// StatusRedirect is the terminal guard outcome: no valid session,
	// the screen navigated to the login entry point, nothing was
	// fetched.
	StatusRedirect Status = "redirect"
)

// State is the per-screen view state. Err is set only when failed;
// Data only when ready.
type State[T any] struct {
	Status Status
	Err    string
	Data   T
}

// Routes the controller navigates to. The CLI and the viewer server
// each decide what "navigating" means for them.
const (
	RouteLogin = "/login"
	RouteMaps  = "/maps"
)

// Navigator performs a navigation side effect.
type Navigator interface {
	Navigate(route string)
}

// Notifier raises user-facing notifications for mutation outcomes.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}
