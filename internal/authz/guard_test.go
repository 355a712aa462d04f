package authz_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kivaw/kivaw/internal/authz"
	"github.com/kivaw/kivaw/internal/shared"
	_ "github.com/kivaw/kivaw/testing"
)

type stubIdentities struct {
	idents map[string]*authz.Identity
	err    error
}

func (s *stubIdentities) Identity(ctx context.Context, userID string) (*authz.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	ident, ok := s.idents[userID]
	if !ok {
		return nil, errors.New("identity missing")
	}
	clone := *ident
	return &clone, nil
}

type stubRoles struct {
	keys  map[string][]string
	err   error
	calls int
}

func (s *stubRoles) RoleKeys(ctx context.Context, userID string) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.keys[userID], nil
}

func newGuardRequest(t *testing.T, sm *shared.SessionManager, userID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	sess, err := sm.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if userID != "" {
		sess.SetUser(userID)
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestGuardRequiresSignIn(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sm := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)

	guard := &authz.Guard{
		Identities: &stubIdentities{},
		Roles:      &stubRoles{},
	}

	next, called := okHandler()
	res := httptest.NewRecorder()
	guard.RequireResource("users")(next).ServeHTTP(res, newGuardRequest(t, sm, ""))

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous request: got %d want 401", res.Code)
	}
	if *called {
		t.Fatalf("handler must not run for anonymous request")
	}
}

func TestGuardDeniesResolvedUserWithoutAccess(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sm := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)

	guard := &authz.Guard{
		Identities: &stubIdentities{idents: map[string]*authz.Identity{
			"7": {UserID: "7", Email: "creator@kivaw.app"},
		}},
		Roles: &stubRoles{keys: map[string][]string{"7": {"creator"}}},
	}

	next, called := okHandler()
	res := httptest.NewRecorder()
	guard.RequireResource("users")(next).ServeHTTP(res, newGuardRequest(t, sm, "7"))

	if res.Code != http.StatusForbidden {
		t.Fatalf("creator on users resource: got %d want 403", res.Code)
	}
	if *called {
		t.Fatalf("handler must not run when access is denied")
	}
}

func TestGuardAllowsByCapability(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sm := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)

	guard := &authz.Guard{
		Identities: &stubIdentities{idents: map[string]*authz.Identity{
			"9": {UserID: "9", Email: "ops@kivaw.app"},
		}},
		Roles: &stubRoles{keys: map[string][]string{"9": {"Ops "}}},
	}

	next, called := okHandler()
	res := httptest.NewRecorder()
	guard.RequireCapability(authz.CapViewOperations)(next).ServeHTTP(res, newGuardRequest(t, sm, "9"))

	if res.Code != http.StatusOK {
		t.Fatalf("ops on view_operations: got %d want 200", res.Code)
	}
	if !*called {
		t.Fatalf("handler should run when capability is held")
	}
}

func TestGuardRoleLookupFailureFailsClosedUnlessSuperAdmin(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sm := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)

	idents := map[string]*authz.Identity{
		"1": {UserID: "1", Email: "root@kivaw.app", IsSuperAdmin: true},
		"2": {UserID: "2", Email: "plain@kivaw.app"},
	}
	guard := &authz.Guard{
		Identities: &stubIdentities{idents: idents},
		Roles:      &stubRoles{err: errors.New("roles table unavailable")},
	}

	// The trusted super-admin flag must win even when the role query fails.
	next, _ := okHandler()
	res := httptest.NewRecorder()
	guard.RequireResource("secrets")(next).ServeHTTP(res, newGuardRequest(t, sm, "1"))
	if res.Code != http.StatusOK {
		t.Fatalf("super admin during role outage: got %d want 200", res.Code)
	}

	// A regular user degrades to an empty role set, not an error page.
	res = httptest.NewRecorder()
	guard.RequireResource("overview")(next).ServeHTTP(res, newGuardRequest(t, sm, "2"))
	if res.Code != http.StatusForbidden {
		t.Fatalf("regular user during role outage: got %d want 403", res.Code)
	}
}

func TestGuardRoleCacheAndInvalidation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sm := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)

	roles := &stubRoles{keys: map[string][]string{"3": {"admin"}}}
	guard := &authz.Guard{
		Identities: &stubIdentities{idents: map[string]*authz.Identity{
			"3": {UserID: "3", Email: "admin@kivaw.app"},
		}},
		Roles: roles,
		Cache: authz.NewRoleCache(client, time.Minute),
	}

	mw := guard.RequireResource("content")
	next, _ := okHandler()
	for i := 0; i < 3; i++ {
		res := httptest.NewRecorder()
		mw(next).ServeHTTP(res, newGuardRequest(t, sm, "3"))
		if res.Code != http.StatusOK {
			t.Fatalf("request %d: got %d want 200", i, res.Code)
		}
	}
	if roles.calls != 1 {
		t.Fatalf("role source should be hit once with warm cache, got %d", roles.calls)
	}

	guard.InvalidateRoles(context.Background(), "3")
	res := httptest.NewRecorder()
	mw(next).ServeHTTP(res, newGuardRequest(t, sm, "3"))
	if res.Code != http.StatusOK {
		t.Fatalf("post-invalidate request: got %d want 200", res.Code)
	}
	if roles.calls != 2 {
		t.Fatalf("invalidation should force a fresh lookup, got %d calls", roles.calls)
	}
}

func TestGuardDevAllowlist(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sm := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)

	idents := &stubIdentities{idents: map[string]*authz.Identity{
		"4": {UserID: "4", Email: "dev@kivaw.app"},
	}}
	guard := &authz.Guard{
		Identities:       idents,
		Roles:            &stubRoles{},
		DevAllowlist:     []string{"Dev@kivaw.app"},
		DevBypassEnabled: true,
	}

	next, _ := okHandler()
	res := httptest.NewRecorder()
	guard.RequireResource("secrets")(next).ServeHTTP(res, newGuardRequest(t, sm, "4"))
	if res.Code != http.StatusOK {
		t.Fatalf("allow-listed dev: got %d want 200", res.Code)
	}

	guard.DevBypassEnabled = false
	res = httptest.NewRecorder()
	guard.RequireResource("secrets")(next).ServeHTTP(res, newGuardRequest(t, sm, "4"))
	if res.Code != http.StatusForbidden {
		t.Fatalf("allow-list disabled: got %d want 403", res.Code)
	}
}
