package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ssarthaks/gym-webapp/internal/domain"
	"github.com/ssarthaks/gym-webapp/internal/service"
	"github.com/ssarthaks/gym-webapp/internal/store"
)

var (
	errNoToken        = errors.New("no token provided")
	errSessionExpired = errors.New("session expired")
	errInvalidToken   = errors.New("invalid token")
)

// Authenticator resolves a bearer credential to a caller identity. Two
// strategies exist; a deployment picks exactly one.
type Authenticator interface {
	Authenticate(r *http.Request) (domain.Identity, error)
}

func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", errNoToken
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errInvalidToken
	}
	return parts[1], nil
}

// StatelessAuthenticator trusts signature and expiry of the signed token.
// There is no server-side revocation; logout is client-side discard. The
// account row is still loaded so the identity carries its privileges and a
// soft-deleted account is rejected.
type StatelessAuthenticator struct {
	Tokens service.TokenService
	Users  *store.UserStore
}

func (a *StatelessAuthenticator) Authenticate(r *http.Request) (domain.Identity, error) {
	tok, err := bearerToken(r)
	if err != nil {
		return domain.Identity{}, err
	}
	userID, err := a.Tokens.Parse(tok)
	if err != nil {
		return domain.Identity{}, errInvalidToken
	}
	user, err := a.Users.GetActiveByID(r.Context(), userID)
	if err != nil {
		return domain.Identity{}, errInvalidToken
	}
	return domain.Identity{ID: user.ID, AccountType: user.AccountType, IsDeleted: user.IsDeleted}, nil
}

// StatefulAuthenticator looks the bearer up in the session store and slides
// its expiry forward on every successful request, so an active session stays
// alive and an idle one dies after the window.
type StatefulAuthenticator struct {
	Sessions *store.SessionStore
	Users    *store.UserStore
	TTL      time.Duration
	Now      func() time.Time
}

func (a *StatefulAuthenticator) Authenticate(r *http.Request) (domain.Identity, error) {
	tok, err := bearerToken(r)
	if err != nil {
		return domain.Identity{}, err
	}
	now := a.now()

	sess, err := a.Sessions.GetByToken(r.Context(), tok)
	if err != nil {
		return domain.Identity{}, errInvalidToken
	}
	if sess.Expired(now) {
		return domain.Identity{}, errSessionExpired
	}
	// Guarded update: a session that expired between the read and here stays
	// dead.
	ok, err := a.Sessions.Touch(r.Context(), tok, now.Add(a.TTL), now)
	if err != nil {
		return domain.Identity{}, err
	}
	if !ok {
		return domain.Identity{}, errSessionExpired
	}
	user, err := a.Users.GetActiveByID(r.Context(), sess.UserID)
	if err != nil {
		return domain.Identity{}, errInvalidToken
	}
	return domain.Identity{ID: user.ID, AccountType: user.AccountType, IsDeleted: user.IsDeleted}, nil
}

func (a *StatefulAuthenticator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

type identityKey struct{}

func withIdentity(ctx context.Context, ident domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, ident)
}

func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(domain.Identity)
	return ident, ok
}

// RequireAuth rejects unauthenticated requests and attaches the resolved
// identity to the request context.
func RequireAuth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := authn.Authenticate(r)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), ident)))
		})
	}
}

// RequireAdmin gates business-account-only routes. It must run inside
// RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := IdentityFromContext(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "no user found")
			return
		}
		if !ident.IsAdmin() {
			writeMessage(w, http.StatusForbidden, "only business accounts can access this resource")
			return
		}
		next.ServeHTTP(w, r)
	})
}
