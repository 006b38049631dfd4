package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/settlesavvy/settlemap-cli/internal/session"
	"github.com/settlesavvy/settlemap-cli/internal/store"
	"github.com/settlesavvy/settlemap-cli/internal/viewdata"
	"github.com/settlesavvy/settlemap-cli/pkg/settleapi"
)

// env bundles the collaborators every command needs: the durable
// session, the API client bound to it, and the auth guard.
type env struct {
	sessions *session.Store
	api      settleapi.Client
	guard    viewdata.Guard
}

// initEnv wires the API client to the session store. A 401 from any
// endpoint clears the session before the error propagates, so the next
// guarded operation redirects to login instead of retrying a dead
// token.
func initEnv() *env {
	sessions := session.NewStore(cfg.Session.Path)

	api := settleapi.NewClient(cfg.API.BaseURL,
		settleapi.WithRateLimit(cfg.API.RatePerSec),
		settleapi.WithTokenSource(func() (string, bool) {
			sess, ok := sessions.Read()
			return sess.Token, ok
		}),
		settleapi.WithUnauthorizedHook(func() {
			if err := sessions.Clear(); err != nil {
				zap.L().Warn("clear session after 401", zap.Error(err))
			}
		}),
	)

	return &env{
		sessions: sessions,
		api:      api,
		guard: func() bool {
			_, ok := sessions.Read()
			return ok
		},
	}
}

// initSnapshots opens the local snapshot database.
func initSnapshots() (*store.SQLiteStore, error) {
	return store.NewSQLite(cfg.Cache.Path)
}

// cliNav prints navigation targets; in a terminal the route is advice,
// not a page change.
type cliNav struct{}

func (cliNav) Navigate(route string) {
	switch route {
	case viewdata.RouteLogin:
		fmt.Fprintln(os.Stderr, "Session expired. Run 'settlemap login' to continue.")
	default:
		zap.L().Debug("navigate", zap.String("route", route))
	}
}

// cliNotify renders notifications on the terminal.
type cliNotify struct{}

func (cliNotify) Success(msg string) { fmt.Println(msg) }

func (cliNotify) Error(msg string) { fmt.Fprintln(os.Stderr, "Error: "+msg) }
