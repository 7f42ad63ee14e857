package web

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"gym-dashboard/internal/app"
	"gym-dashboard/internal/core"
	"gym-dashboard/internal/shell"
	webui "gym-dashboard/web"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins string
	CookieSecure   bool
	// GateTimeout bounds how long a request waits for the session check before
	// the loading placeholder is shown instead.
	GateTimeout time.Duration
	// Heartbeat is the comment interval on /events.
	Heartbeat time.Duration
	Logger    *zap.Logger
	Shells    *shell.Registry
	// Draining is closed when the server starts shutting down; /events
	// streams end on it. Nil never closes.
	Draining <-chan struct{}
}

// Handler holds the ApplicationService, the chi router, and the per-session shells.
type Handler struct {
	svc          app.ApplicationService
	router       chi.Router
	shells       *shell.Registry
	log          *zap.Logger
	fileServer   http.Handler
	cookieSecure bool
	gateTimeout  time.Duration
	heartbeat    time.Duration
	draining     <-chan struct{}
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, opts Options) http.Handler {
	staticFS, err := fs.Sub(webui.Static, "static")
	if err != nil {
		panic("web/static embed sub-FS failed: " + err.Error())
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	shells := opts.Shells
	if shells == nil {
		shells = shell.NewRegistry(2*time.Hour, logger)
	}
	h := &Handler{
		svc:          svc,
		shells:       shells,
		log:          logger,
		fileServer:   http.FileServer(http.FS(staticFS)),
		cookieSecure: opts.CookieSecure,
		gateTimeout:  opts.GateTimeout,
		heartbeat:    opts.Heartbeat,
		draining:     opts.Draining,
	}
	if h.gateTimeout <= 0 {
		h.gateTimeout = 3 * time.Second
	}
	if h.heartbeat <= 0 {
		h.heartbeat = 25 * time.Second
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recoverer(logger))
	r.Use(CORS(opts.AllowedOrigins))

	// ── Health (public) ───────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Auth (public API) ─────────────────────────────────────────────────────
	r.With(RequestBodyLimit(64<<10)).Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Static files served at /static/* ─────────────────────────────────────
	r.Get("/static/*", func(w http.ResponseWriter, req *http.Request) {
		http.StripPrefix("/static", h.fileServer).ServeHTTP(w, req)
	})

	// ── Browser login and auth-state stream (public) ─────────────────────────
	r.Get("/login", h.loginPage)
	r.With(RequestBodyLimit(64<<10)).Post("/login", h.loginFormSubmit)
	r.Get("/events", h.events)

	// ── Protected browser routes (redirect to /login if unauthenticated) ─────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuthBrowser)
		r.Use(RequestBodyLimit(1 << 20))

		r.Get("/", h.home)
		r.Post("/logout", h.logoutPage)
		r.Post("/navigate", h.navigate)
		r.Post("/search", h.search)
		r.Post("/menu/toggle", h.toggleMenu)
		r.Post("/menu/close", h.closeMenu)
		r.Post("/commands/{command}", h.command)
		r.Post("/members", h.addMember)
		r.Post("/payments", h.recordPayment)
		r.Post("/settings/sign-out-everywhere", h.signOutEverywhere)
		r.Post("/signals/visibility", h.visibilitySignal)
		r.Post("/signals/online", h.onlineSignal)
	})

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20))

		r.Get("/api/auth/me", h.me)
		r.Post("/api/auth/refresh", h.refresh)
		r.Get("/api/shell", h.apiShell)
		r.Post("/api/commands/{command}", h.apiCommand)
	})

	h.router = r
	return r
}

// health reports whether the database is reachable.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
	if err := h.svc.Ping(r.Context()); err != nil {
		h.log.Warn("health check: database unreachable", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(response{Status: "degraded", Database: "unreachable"})
		return
	}
	writeJSON(w, response{Status: "ok", Database: "ok"})
}

// shellFor returns the shell of the signed-in browser session, creating it on first use.
func (h *Handler) shellFor(claims *AuthClaims) *shell.Shell {
	return h.shells.Get(claims.SessionID, func() *shell.Shell {
		sessionID := claims.SessionID
		return shell.New(h.svc.Client(claims.Token), func() { h.shells.Remove(sessionID) }, h.log)
	})
}

func (c *AuthClaims) authUser() core.AuthUser {
	return core.AuthUser{ID: c.UserID, Email: c.Email}
}

func userResult(claims *AuthClaims, state *core.GymState) app.UserResult {
	return app.UserResult{
		UserID:    claims.UserID,
		Email:     claims.Email,
		OwnerName: state.DisplayName(),
		GymName:   state.GymName(),
	}
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
