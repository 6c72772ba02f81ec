package guard

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

type fakeSession struct {
	done chan struct{}
	snap types.UserPayload
}

func (f *fakeSession) InitDone() <-chan struct{}   { return f.done }
func (f *fakeSession) Snapshot() types.UserPayload { return f.snap }

func authenticated(role enums.UserRole) types.UserPayload {
	return types.UserPayload{
		User:            types.User{ID: "u1", Name: "Jane", Email: "jane@example.com", Role: role},
		IsAuthenticated: true,
	}
}

func TestRequireAuthBlocksUntilInitResolves(t *testing.T) {
	t.Parallel()

	session := &fakeSession{done: make(chan struct{})}
	g := New(session, "", "")

	resolved := make(chan Decision, 1)
	go func() {
		decision, err := g.RequireAuth(context.Background())
		if err != nil {
			t.Errorf("RequireAuth returned error: %v", err)
		}
		resolved <- decision
	}()

	select {
	case <-resolved:
		t.Fatal("guard resolved before initialization completed")
	case <-time.After(50 * time.Millisecond):
	}

	// Anonymous outcome: gate opens with the sentinel snapshot.
	close(session.done)

	select {
	case decision := <-resolved:
		if decision.Allow {
			t.Fatal("anonymous session must be denied")
		}
		if decision.RedirectTo != "/auth/sign-in" {
			t.Fatalf("expected sign-in redirect, got %q", decision.RedirectTo)
		}
	case <-time.After(time.Second):
		t.Fatal("guard did not resolve after init completed")
	}
}

func TestRequireAuthAllowsAuthenticated(t *testing.T) {
	t.Parallel()

	session := &fakeSession{done: make(chan struct{}), snap: authenticated(enums.UserRoleClient)}
	close(session.done)
	g := New(session, "", "")

	decision, err := g.RequireAuth(context.Background())
	if err != nil {
		t.Fatalf("RequireAuth returned error: %v", err)
	}
	if !decision.Allow {
		t.Fatal("authenticated session must be allowed")
	}
}

func TestRequireRolesDeniesWithForbiddenPayload(t *testing.T) {
	t.Parallel()

	session := &fakeSession{done: make(chan struct{}), snap: authenticated(enums.UserRoleClient)}
	close(session.done)
	g := New(session, "/signin", "/oops")

	decision, err := g.RequireRoles(context.Background(), enums.UserRoleSeller)
	if err != nil {
		t.Fatalf("RequireRoles returned error: %v", err)
	}
	if decision.Allow {
		t.Fatal("client must not pass a seller-only guard")
	}
	if decision.RedirectTo != "/oops" || decision.Status != http.StatusForbidden {
		t.Fatalf("unexpected decision: %+v", decision)
	}
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	t.Parallel()

	session := &fakeSession{done: make(chan struct{}), snap: authenticated(enums.UserRoleSeller)}
	close(session.done)
	g := New(session, "", "")

	decision, err := g.RequireRoles(context.Background(), enums.UserRoleClient, enums.UserRoleSeller)
	if err != nil {
		t.Fatalf("RequireRoles returned error: %v", err)
	}
	if !decision.Allow {
		t.Fatal("seller must pass a guard listing seller")
	}
}

func TestRequireRolesRedirectsAnonymousToSignIn(t *testing.T) {
	t.Parallel()

	session := &fakeSession{done: make(chan struct{})}
	close(session.done)
	g := New(session, "/signin", "/oops")

	decision, err := g.RequireRoles(context.Background(), enums.UserRoleSeller)
	if err != nil {
		t.Fatalf("RequireRoles returned error: %v", err)
	}
	if decision.RedirectTo != "/signin" {
		t.Fatalf("expected sign-in redirect, got %+v", decision)
	}
}

func TestGuardRespectsContextCancellation(t *testing.T) {
	t.Parallel()

	session := &fakeSession{done: make(chan struct{})}
	g := New(session, "", "")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := g.RequireAuth(ctx); err == nil {
		t.Fatal("expected context deadline error")
	}
}
