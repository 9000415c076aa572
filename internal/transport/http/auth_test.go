package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ssarthaks/gym-webapp/internal/domain"
	"github.com/ssarthaks/gym-webapp/internal/observability/metrics"
	impl "github.com/ssarthaks/gym-webapp/internal/service/impl"
	"github.com/ssarthaks/gym-webapp/internal/store"
)

func TestMain(m *testing.M) {
	metrics.MustRegister("test")
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	st := store.New(db)
	if err := st.AutoMigrate(); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return st
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
		err    error
	}{
		{"missing", "", "", errNoToken},
		{"well formed", "Bearer abc123", "abc123", nil},
		{"case insensitive scheme", "bearer abc123", "abc123", nil},
		{"wrong scheme", "Basic abc123", "", errInvalidToken},
		{"empty credential", "Bearer ", "", errInvalidToken},
		{"no space", "Bearerabc123", "", errInvalidToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			got, err := bearerToken(r)
			if !errors.Is(err, tc.err) {
				t.Fatalf("err mismatch: got %v want %v", err, tc.err)
			}
			if got != tc.want {
				t.Fatalf("token mismatch: got %q want %q", got, tc.want)
			}
		})
	}
}

type stubAuthenticator struct {
	ident domain.Identity
	err   error
}

func (s *stubAuthenticator) Authenticate(*http.Request) (domain.Identity, error) {
	return s.ident, s.err
}

func TestRequireAuthAttachesIdentity(t *testing.T) {
	authn := &stubAuthenticator{ident: domain.Identity{ID: 9, AccountType: domain.AccountBusiness}}

	var seen domain.Identity
	h := RequireAuth(authn)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen.ID != 9 || !seen.IsAdmin() {
		t.Fatalf("identity not attached: %+v", seen)
	}
}

func TestRequireAuthRejects(t *testing.T) {
	authn := &stubAuthenticator{err: errSessionExpired}
	h := RequireAuth(authn)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("business passes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = r.WithContext(withIdentity(r.Context(), domain.Identity{ID: 1, AccountType: domain.AccountBusiness}))
		rec := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(rec, r)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("individual forbidden", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = r.WithContext(withIdentity(r.Context(), domain.Identity{ID: 1, AccountType: domain.AccountIndividual}))
		rec := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(rec, r)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("no identity unauthorized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func seedActiveUser(t *testing.T, st *store.Store, email string, typ domain.AccountType) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	u := &domain.User{
		Name:        "Transport Test",
		Email:       email,
		Phone:       "+9779822222222",
		AccountType: typ,
		Password:    "digest",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := st.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestStatefulAuthenticatorSlidesSession(t *testing.T) {
	st := newTestStore(t)
	user := seedActiveUser(t, st, "alice@example.com", domain.AccountIndividual)

	now := time.Now().UTC()
	sess := &domain.Session{UserID: user.ID, Token: "session-token", ExpiresAt: now.Add(10 * time.Minute)}
	if err := st.Sessions().Create(context.Background(), sess); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	authn := &StatefulAuthenticator{
		Sessions: st.Sessions(),
		Users:    st.Users(),
		TTL:      time.Hour,
		Now:      func() time.Time { return now },
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer session-token")
	ident, err := authn.Authenticate(r)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if ident.ID != user.ID {
		t.Fatalf("wrong identity: %+v", ident)
	}

	got, err := st.Sessions().GetByToken(context.Background(), "session-token")
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if got.ExpiresAt.Unix() != now.Add(time.Hour).Unix() {
		t.Fatalf("expiry not slid: %v", got.ExpiresAt)
	}
}

func TestStatefulAuthenticatorRejectsExpiredAndDeleted(t *testing.T) {
	st := newTestStore(t)
	user := seedActiveUser(t, st, "bob@example.com", domain.AccountIndividual)
	now := time.Now().UTC()

	stale := &domain.Session{UserID: user.ID, Token: "stale", ExpiresAt: now.Add(-time.Minute)}
	live := &domain.Session{UserID: user.ID, Token: "live", ExpiresAt: now.Add(time.Hour)}
	for _, s := range []*domain.Session{stale, live} {
		if err := st.Sessions().Create(context.Background(), s); err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}

	authn := &StatefulAuthenticator{
		Sessions: st.Sessions(),
		Users:    st.Users(),
		TTL:      time.Hour,
		Now:      func() time.Time { return now },
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer stale")
	if _, err := authn.Authenticate(r); !errors.Is(err, errSessionExpired) {
		t.Fatalf("stale session: expected errSessionExpired, got %v", err)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer unknown")
	if _, err := authn.Authenticate(r); !errors.Is(err, errInvalidToken) {
		t.Fatalf("unknown token: expected errInvalidToken, got %v", err)
	}

	// A live session stops working the moment the account is soft deleted.
	if _, err := st.Users().SoftDelete(context.Background(), user.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer live")
	if _, err := authn.Authenticate(r); !errors.Is(err, errInvalidToken) {
		t.Fatalf("deleted account: expected errInvalidToken, got %v", err)
	}
}

func TestStatelessAuthenticator(t *testing.T) {
	st := newTestStore(t)
	user := seedActiveUser(t, st, "carol@example.com", domain.AccountBusiness)

	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     "accounts-test",
		TTL:        time.Hour,
		SigningKey: []byte("test-signing-key"),
	})
	authn := &StatelessAuthenticator{Tokens: ts, Users: st.Users()}

	tok, err := ts.Sign(user.ID)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	ident, err := authn.Authenticate(r)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if ident.ID != user.ID || !ident.IsAdmin() {
		t.Fatalf("identity must carry privileges: %+v", ident)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer garbage")
	if _, err := authn.Authenticate(r); !errors.Is(err, errInvalidToken) {
		t.Fatalf("garbage token: expected errInvalidToken, got %v", err)
	}

	if _, err := st.Users().SoftDelete(context.Background(), user.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	if _, err := authn.Authenticate(r); !errors.Is(err, errInvalidToken) {
		t.Fatalf("deleted account: expected errInvalidToken, got %v", err)
	}
}
