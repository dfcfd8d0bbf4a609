package api

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/civictrack/complaints-api/config"
)

// Roles gating endpoint access.
const (
	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleVerifier = "verifier"
	RoleStaff    = "staff"
)

const (
	// SessionName is the cookie holding the signed session.
	SessionName = "civic-session"

	// sessionMaxAge is the sliding session lifetime: 7 days, refreshed on
	// every authenticated request.
	sessionMaxAge = 7 * 24 * 60 * 60

	sessionUserIDKey = "user_id"
	// The role is written under both keys: user_type is the legacy name
	// older clients were issued, user_role the current one. Reads accept
	// either.
	sessionUserTypeKey = "user_type"
	sessionUserRoleKey = "user_role"
	sessionEmailKey    = "email"
)

// Claims is the request-scoped identity resolved from the session cookie.
type Claims struct {
	UserID string
	Role   string
	Email  string
}

type ctxKey string

const claimsKey ctxKey = "claims"

// CurrentClaims returns the caller identity injected by LoadSession.
func CurrentClaims(r *http.Request) (*Claims, bool) {
	c, ok := r.Context().Value(claimsKey).(*Claims)
	return c, ok
}

// RequestWithClaims returns a request carrying the given claims. Exported so
// handler tests can bypass the cookie store.
func RequestWithClaims(r *http.Request, c *Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), claimsKey, c))
}

// SessionManager owns the cookie store. Handlers receive it explicitly;
// there is no package-level session state.
type SessionManager struct {
	store *sessions.CookieStore
}

// NewSessionManager builds a cookie-backed session store from the configured
// signing key.
func NewSessionManager(sessionKey string) *SessionManager {
	if len(sessionKey) < 32 {
		zap.S().Warnw("session key is short; 32+ chars recommended", "length", len(sessionKey))
	}
	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store}
}

// Establish records the caller identity in a fresh session cookie.
func (m *SessionManager) Establish(w http.ResponseWriter, r *http.Request, c Claims) error {
	sess, _ := m.store.Get(r, SessionName)
	sess.Values[sessionUserIDKey] = c.UserID
	sess.Values[sessionUserTypeKey] = c.Role
	sess.Values[sessionUserRoleKey] = c.Role
	sess.Values[sessionEmailKey] = c.Email
	sess.Options.MaxAge = sessionMaxAge
	return sess.Save(r, w)
}

// Clear expires the session cookie unconditionally.
func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, SessionName)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// LoadSession resolves the session cookie into request-scoped Claims and
// refreshes the cookie so the 7-day lifetime slides.
func (m *SessionManager) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := m.store.Get(r, SessionName)
		userID := getString(sess, sessionUserIDKey)
		if userID != "" {
			role := getString(sess, sessionUserRoleKey)
			if role == "" {
				role = getString(sess, sessionUserTypeKey)
			}
			r = RequestWithClaims(r, &Claims{
				UserID: userID,
				Role:   role,
				Email:  getString(sess, sessionEmailKey),
			})
			_ = sess.Save(r, w)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole gates a JSON endpoint: 401 without a session, 403 when the
// caller's role is not among the allowed ones. An empty allow list admits
// any authenticated caller.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := CurrentClaims(r)
			if !ok {
				zap.S().Debugw("unauthenticated", "url", r.URL.Path)
				config.ErrorStatus("Not authenticated", http.StatusUnauthorized, w, nil)
				return
			}
			if len(set) > 0 {
				if _, has := set[c.Role]; !has {
					zap.S().Debugw("forbidden", "url", r.URL.Path, "role", c.Role)
					config.ErrorStatus("Not authorized", http.StatusForbidden, w, nil)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRolePage gates a page route: redirect to the login page instead of
// writing a JSON failure.
func RequireRolePage(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := CurrentClaims(r)
			if !ok {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			if len(set) > 0 {
				if _, has := set[c.Role]; !has {
					http.Redirect(w, r, "/", http.StatusSeeOther)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
