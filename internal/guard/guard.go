// Package guard implements the route-guard contract: wait for the session
// store's one-shot initialization, read a single snapshot, and decide.
package guard

import (
	"context"
	"net/http"

	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

// Session is the read-only slice of the session store guards depend on.
type Session interface {
	InitDone() <-chan struct{}
	Snapshot() types.UserPayload
}

// Decision is the outcome handed back to the router.
type Decision struct {
	Allow      bool
	RedirectTo string
	// Status is set for role denials so the error view can render a 403 payload.
	Status int
}

// Guard evaluates navigation against one session snapshot per check.
type Guard struct {
	session    Session
	signInPath string
	errorPath  string
}

// New builds a guard with the redirect targets used on denial.
func New(session Session, signInPath, errorPath string) *Guard {
	if signInPath == "" {
		signInPath = "/auth/sign-in"
	}
	if errorPath == "" {
		errorPath = "/error"
	}
	return &Guard{session: session, signInPath: signInPath, errorPath: errorPath}
}

// RequireAuth blocks until the startup token check resolves, then allows
// authenticated sessions and redirects anonymous ones to sign-in.
func (g *Guard) RequireAuth(ctx context.Context) (Decision, error) {
	snap, err := g.awaitSnapshot(ctx)
	if err != nil {
		return Decision{}, err
	}
	if !snap.IsAuthenticated {
		return Decision{RedirectTo: g.signInPath}, nil
	}
	return Decision{Allow: true}, nil
}

// RequireRoles additionally checks the session role against an allow-list.
// Anonymous sessions go to sign-in; wrong roles go to the error view with a
// 403 payload.
func (g *Guard) RequireRoles(ctx context.Context, roles ...enums.UserRole) (Decision, error) {
	snap, err := g.awaitSnapshot(ctx)
	if err != nil {
		return Decision{}, err
	}
	if !snap.IsAuthenticated {
		return Decision{RedirectTo: g.signInPath}, nil
	}
	for _, role := range roles {
		if snap.Role == role {
			return Decision{Allow: true}, nil
		}
	}
	return Decision{RedirectTo: g.errorPath, Status: http.StatusForbidden}, nil
}

// awaitSnapshot implements the wait-then-read-once pattern. Late callers see
// an already-open gate and never block.
func (g *Guard) awaitSnapshot(ctx context.Context) (types.UserPayload, error) {
	select {
	case <-g.session.InitDone():
		return g.session.Snapshot(), nil
	case <-ctx.Done():
		return types.UserPayload{}, ctx.Err()
	}
}
