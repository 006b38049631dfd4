package viewdata

import (
	"errors"

	"github.com/settlesavvy/settlemap-cli/pkg/settleapi"
)

// fallbackMutationMessage is shown when the server rejects a mutation
// without a usable message.
const fallbackMutationMessage = "Something went wrong. Please try again."

// Mutator wraps create/update/delete calls with their side-effect
// budget: exactly one navigation and one success notification on
// success, exactly one error notification and no navigation on
// failure. The screen that issued the mutation keeps its prior state
// either way.
type Mutator struct {
	nav    Navigator
	notify Notifier
}

// NewMutator creates a mutator with the given side-effect ports.
func NewMutator(nav Navigator, notify Notifier) *Mutator {
	return &Mutator{nav: nav, notify: notify}
}

// Run executes op. On success it raises successMsg and navigates to
// route (when non-empty). On failure it surfaces the server-provided
// message verbatim when present, the generic fallback otherwise, and
// performs no navigation. The original error is returned for callers
// that need to branch on it.
func (m *Mutator) Run(op func() error, successMsg, route string) error {
	if err := op(); err != nil {
		if errors.Is(err, settleapi.ErrUnauthorized) {
			// The global unauthorized handler already cleared the
			// session; no extra notification here.
			return err
		}
		msg := settleapi.Detail(err)
		if msg == "" {
			msg = fallbackMutationMessage
		}
		m.notify.Error(msg)
		return err
	}

	m.notify.Success(successMsg)
	if route != "" {
		m.nav.Navigate(route)
	}
	return nil
}
