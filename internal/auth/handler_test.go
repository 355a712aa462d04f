package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/kivaw/kivaw/internal/authz"
	"github.com/kivaw/kivaw/internal/shared"
)

type commitWriter struct {
	http.ResponseWriter
	sess    *shared.Session
	manager *shared.SessionManager
	ctx     context.Context
	req     *http.Request
	wrote   bool
}

func (w *commitWriter) WriteHeader(status int) {
	if !w.wrote {
		w.wrote = true
		_ = w.manager.Commit(w.ctx, w.ResponseWriter, w.req, w.sess)
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *commitWriter) Write(data []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(data)
}

func sessionMiddleware(sm *shared.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sess, err := sm.Load(ctx, r)
			if err != nil {
				http.Error(w, "session", http.StatusInternalServerError)
				return
			}
			ctx = shared.ContextWithSession(ctx, sess)
			wrapped := &commitWriter{ResponseWriter: w, sess: sess, manager: sm, ctx: ctx, req: r.WithContext(ctx)}
			next.ServeHTTP(wrapped, r.WithContext(ctx))
		})
	}
}

func newAuthRouter(t *testing.T) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &stubRepo{
		users: map[string]*User{
			"ines@kivaw.app": {
				ID:           11,
				Email:        "ines@kivaw.app",
				DisplayName:  "Ines",
				PasswordHash: hash(t, "open sesame"),
				IsActive:     true,
			},
		},
		byID: map[int64]*User{
			11: {ID: 11, Email: "ines@kivaw.app", DisplayName: "Ines", IsActive: true},
		},
		roles: map[int64][]string{11: {"social_media"}},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(repo)
	sm := shared.NewSessionManager(client, "kivaw_session", "session-secret", time.Hour, false)
	csrf := shared.NewCSRFManager("csrf-secret")
	guard := &authz.Guard{
		Identities: svc,
		Roles:      svc,
		Cache:      authz.NewRoleCache(client, time.Minute),
		Logger:     logger,
	}
	handler := NewHandler(logger, svc, sm, csrf, guard)

	r := chi.NewRouter()
	r.Use(sessionMiddleware(sm))
	r.Route("/auth", handler.MountRoutes)
	return r
}

func login(t *testing.T, router http.Handler, target, body string) (*httptest.ResponseRecorder, loginResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp loginResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode login response: %v", err)
		}
	}
	return rec, resp
}

func TestLoginFlow(t *testing.T) {
	router := newAuthRouter(t)

	rec, resp := login(t, router, "/auth/login", `{"email":"ines@kivaw.app","password":"open sesame"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if resp.User.ID != 11 || resp.User.DisplayName != "Ines" {
		t.Fatalf("user = %+v", resp.User)
	}
	if resp.Tier != authz.TierSocialMedia {
		t.Fatalf("tier = %q, want social_media", resp.Tier)
	}
	if resp.Landing != "/admin" {
		t.Fatalf("landing = %q, want /admin", resp.Landing)
	}
	if resp.CSRFToken == "" {
		t.Fatal("expected csrf token in response")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "kivaw_session" || cookies[0].Value == "" {
		t.Fatalf("cookies = %v", cookies)
	}
}

func TestLoginRedirectParam(t *testing.T) {
	router := newAuthRouter(t)

	rec, resp := login(t, router, "/auth/login?redirect=/social/queue", `{"email":"ines@kivaw.app","password":"open sesame"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.Landing != "/social/queue" {
		t.Fatalf("landing = %q, want /social/queue", resp.Landing)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := newAuthRouter(t)

	rec, _ := login(t, router, "/auth/login", `{"email":"ines@kivaw.app","password":"not my password"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	// An anonymous session cookie may be issued, but it must not be signed in.
	for _, cookie := range rec.Result().Cookies() {
		meReq := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		meReq.AddCookie(cookie)
		meRec := httptest.NewRecorder()
		router.ServeHTTP(meRec, meReq)
		if meRec.Code != http.StatusUnauthorized {
			t.Fatalf("me with anonymous cookie = %d, want 401", meRec.Code)
		}
	}
}

func TestLoginValidation(t *testing.T) {
	router := newAuthRouter(t)

	rec, _ := login(t, router, "/auth/login", `{"email":"not-an-email","password":"short"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMeRequiresSession(t *testing.T) {
	router := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestMeAfterLogin(t *testing.T) {
	router := newAuthRouter(t)

	loginRec, _ := login(t, router, "/auth/login", `{"email":"ines@kivaw.app","password":"open sesame"}`)
	if loginRec.Code != http.StatusOK {
		t.Fatalf("login status = %d", loginRec.Code)
	}
	cookie := loginRec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var me meResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if me.Tier != authz.TierSocialMedia {
		t.Fatalf("tier = %q", me.Tier)
	}
	want := []string{"content", "overview", "social"}
	if len(me.Resources) != len(want) {
		t.Fatalf("resources = %v, want %v", me.Resources, want)
	}
	for i, resource := range want {
		if me.Resources[i] != resource {
			t.Fatalf("resources = %v, want %v", me.Resources, want)
		}
	}
}

func TestLogout(t *testing.T) {
	router := newAuthRouter(t)

	loginRec, _ := login(t, router, "/auth/login", `{"email":"ines@kivaw.app","password":"open sesame"}`)
	cookie := loginRec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("expected expiring cookie, got %v", cookies)
	}

	// Session is gone; a follow-up me call is anonymous again.
	meReq := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	meReq.AddCookie(cookie)
	meRec := httptest.NewRecorder()
	router.ServeHTTP(meRec, meReq)
	if meRec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout = %d, want 401", meRec.Code)
	}
}
