package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gym-dashboard/internal/auth"
	"gym-dashboard/internal/gate"
	"gym-dashboard/web/templates/pages"

	"go.uber.org/zap"
)

const authCookie = "auth_token"

type authClaimsKey struct{}

// AuthClaims holds the signed-in identity resolved by the session gate.
type AuthClaims struct {
	UserID    int
	Email     string
	SessionID string
	Token     string
}

// authFromContext returns the auth claims stored in ctx, or nil.
func authFromContext(ctx context.Context) *AuthClaims {
	v, _ := ctx.Value(authClaimsKey{}).(*AuthClaims)
	return v
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(authCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func (h *Handler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}

// resolve runs a session gate for the request's token until it settles or the
// gate timeout passes. A gate that is still loading is reported as such.
func (h *Handler) resolve(r *http.Request) (gate.State, *AuthClaims) {
	token := tokenFromRequest(r)
	if token == "" {
		return gate.StateUnauthenticated, nil
	}
	client := h.svc.Client(token)

	ctx, cancel := context.WithTimeout(r.Context(), h.gateTimeout)
	defer cancel()

	g := gate.New(client, h.log)
	defer g.Close()
	g.Start(ctx)

	state, err := g.Wait(ctx)
	if err != nil {
		return gate.StateLoading, nil
	}
	user := g.User()
	if state != gate.StateAuthenticated || user == nil {
		return gate.StateUnauthenticated, nil
	}
	return state, &AuthClaims{
		UserID:    user.ID,
		Email:     user.Email,
		SessionID: client.SessionID(),
		Token:     token,
	}
}

// RequireAuth is chi middleware for API routes. It injects AuthClaims into the
// request context or answers 401 JSON when there is no session.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, claims := h.resolve(r)
		switch state {
		case gate.StateAuthenticated:
			ctx := context.WithValue(r.Context(), authClaimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		case gate.StateLoading:
			w.Header().Set("Retry-After", "1")
			writeError(w, r, "authentication check pending", "AUTH_PENDING", http.StatusServiceUnavailable)
		default:
			writeError(w, r, "authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
		}
	})
}

// RequireAuthBrowser is middleware for HTML page routes. Unlike RequireAuth (which returns 401 JSON),
// this middleware redirects unauthenticated requests to /login with a 303 and shows the
// loading placeholder while the session check has not settled.
func (h *Handler) RequireAuthBrowser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, claims := h.resolve(r)
		switch state {
		case gate.StateAuthenticated:
			ctx := context.WithValue(r.Context(), authClaimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		case gate.StateLoading:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Retry-After", "1")
			_ = pages.Loading().Render(r.Context(), w)
		default:
			if tokenFromRequest(r) != "" {
				h.clearAuthCookie(w)
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		}
	})
}

// login handles POST /api/auth/login.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.SignIn(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			h.log.Error("sign in failed", zap.Error(err))
		}
		writeError(w, r, "invalid email or password", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	h.setAuthCookie(w, res.Token)
	writeJSON(w, res)
}

// logout handles POST /api/auth/logout. It ends the session through the
// session's shell, like the browser route, and clears the cookie. A failed
// logout keeps the cookie.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	token := tokenFromRequest(r)
	sessionID := ""
	if token != "" {
		sessionID = h.svc.Client(token).SessionID()
	}
	// A token that names no session has nothing to sign out; only the cookie goes.
	if sessionID != "" {
		claims := &AuthClaims{SessionID: sessionID, Token: token}
		if err := h.shellFor(claims).Logout(r.Context()); err != nil {
			h.log.Error("logout failed", zap.Error(err), zap.String("session_id", sessionID))
			writeError(w, r, "logout failed", "LOGOUT_FAILED", http.StatusBadGateway)
			return
		}
	}
	h.clearAuthCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// me handles GET /api/auth/me and returns the header identity.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	if claims == nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}

	state, err := h.svc.LoadState(r.Context(), claims.authUser())
	if err != nil {
		h.log.Error("load state", zap.Error(err))
		writeError(w, r, "could not load profile", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, userResult(claims, state))
}

// refresh handles POST /api/auth/refresh: extends the session and reissues the cookie.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	token, err := h.svc.Client(claims.Token).Refresh(r.Context())
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) || errors.Is(err, auth.ErrInvalidToken) {
			writeError(w, r, "session expired", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}
		h.log.Error("refresh failed", zap.Error(err))
		writeError(w, r, "refresh failed", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	h.setAuthCookie(w, token)
	w.WriteHeader(http.StatusNoContent)
}
