package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gym-dashboard/internal/app"
	"gym-dashboard/internal/auth"
	"gym-dashboard/internal/core"
	"gym-dashboard/internal/gate"
	"gym-dashboard/internal/shell"
	"gym-dashboard/web/templates/layouts"
	"gym-dashboard/web/templates/pages"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ── Login page ────────────────────────────────────────────────────────────────

// loginPage handles GET /login. Redirects to / if the session is still live.
func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	if state, _ := h.resolve(r); state == gate.StateAuthenticated {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	renderHTML(w, r, http.StatusOK, pages.Login("", ""))
}

// loginFormSubmit handles POST /login from the sign-in form.
func (h *Handler) loginFormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderHTML(w, r, http.StatusBadRequest, pages.Login("Invalid form submission.", ""))
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	res, err := h.svc.SignIn(r.Context(), email, password)
	if err != nil {
		msg := "Invalid email or password."
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			h.log.Error("sign in failed", zap.Error(err))
			msg = "Sign-in is unavailable, please try again."
		}
		renderHTML(w, r, http.StatusUnauthorized, pages.Login(msg, email))
		return
	}
	h.setAuthCookie(w, res.Token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// logoutPage handles POST /logout. The shell awaits the provider's logout before
// dropping itself; on failure the user stays signed in.
func (h *Handler) logoutPage(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	if err := h.shellFor(claims).Logout(r.Context()); err != nil {
		h.log.Error("logout failed", zap.Error(err), zap.String("session_id", claims.SessionID))
		writePageError(w, r, "Logging out failed. Please try again.", http.StatusBadGateway)
		return
	}
	h.clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ── Shell ─────────────────────────────────────────────────────────────────────

var notices = map[string]string{
	"member-added":     "Member added.",
	"payment-recorded": "Payment recorded.",
}

// formState carries a rejected form back to the page that owns it.
type formState struct {
	page shell.Page
	err  string
}

// home handles GET / and renders the shell with the selected page.
func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	h.renderShell(w, r, http.StatusOK, nil)
}

func (h *Handler) renderShell(w http.ResponseWriter, r *http.Request, status int, form *formState) {
	claims := authFromContext(r.Context())
	sh := h.shellFor(claims)

	state, err := h.svc.LoadState(r.Context(), claims.authUser())
	if err != nil {
		h.log.Error("load state", zap.Error(err), zap.Int("user_id", claims.UserID))
		writePageError(w, r, "Could not load your gym data.", http.StatusInternalServerError)
		return
	}

	view := sh.View()
	data := layouts.AppLayoutData{
		Title:             view.Selection.Title(),
		GymName:           state.GymName(),
		OwnerName:         state.DisplayName(),
		Nav:               navItems(),
		ActiveNav:         string(view.Selection),
		MobileMenuOpen:    view.MobileMenuOpen,
		SearchQuery:       view.SearchQuery,
		NotificationCount: len(state.Reminders),
	}
	if msg, ok := notices[r.URL.Query().Get("notice")]; ok {
		data.FlashMsg, data.FlashKind = msg, "success"
	}
	renderHTML(w, r, status, layouts.AppLayout(data, h.pageFor(sh, view.Selection, state, claims, form)))
}

func navItems() []layouts.NavItem {
	items := make([]layouts.NavItem, 0, len(shell.Pages))
	for _, p := range shell.Pages {
		items = append(items, layouts.NavItem{Page: string(p), Label: p.Title()})
	}
	return items
}

// pageFor builds exactly one page component for the selection. Pages that own a
// form report ready to the shell so a pending trigger opens it.
func (h *Handler) pageFor(sh *shell.Shell, page shell.Page, state *core.GymState, claims *AuthClaims, form *formState) templ.Component {
	formErr := ""
	if form != nil && form.page == page {
		formErr = form.err
	}
	switch page {
	case shell.PageMembers:
		trigger, _ := sh.Ready(page)
		return pages.Members(pages.MembersData{
			Members:     state.Members,
			Plans:       state.Plans,
			Branches:    state.Branches,
			SearchQuery: sh.SearchQueryFor(page),
			ShowAddForm: trigger == shell.TriggerAddMember || formErr != "",
			FormError:   formErr,
		})
	case shell.PagePayments:
		trigger, _ := sh.Ready(page)
		return pages.Payments(pages.PaymentsData{
			Payments:    state.Payments,
			Members:     state.Members,
			Plans:       state.Plans,
			SearchQuery: sh.SearchQueryFor(page),
			ShowAddForm: trigger == shell.TriggerAddPayment || formErr != "",
			FormError:   formErr,
		})
	case shell.PagePlans:
		return pages.Plans(state.Plans)
	case shell.PageReminders:
		return pages.Reminders(state.Reminders)
	case shell.PageBranches:
		return pages.Branches(state.Branches)
	case shell.PageStaff:
		return pages.Staff(state.Staff, state.CurrentBranchName())
	case shell.PageSettings:
		return pages.Settings(pages.SettingsData{
			Email:     claims.Email,
			OwnerName: state.DisplayName(),
			GymName:   state.GymName(),
		})
	default:
		return pages.Dashboard(state)
	}
}

// navigate handles POST /navigate.
func (h *Handler) navigate(w http.ResponseWriter, r *http.Request) {
	page, err := shell.ParsePage(r.FormValue("page"))
	if err != nil {
		writePageError(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	h.shellFor(authFromContext(r.Context())).Navigate(page)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// search handles POST /search. The query is kept even when the gym data cannot
// be loaded; it just matches nothing.
func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	query := r.FormValue("q")

	state, err := h.svc.LoadState(r.Context(), claims.authUser())
	if err != nil {
		h.log.Warn("search without data", zap.Error(err))
		state = nil
	}
	h.shellFor(claims).Search(query, state)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// toggleMenu handles POST /menu/toggle.
func (h *Handler) toggleMenu(w http.ResponseWriter, r *http.Request) {
	h.shellFor(authFromContext(r.Context())).ToggleMobileMenu()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// closeMenu handles POST /menu/close (overlay click).
func (h *Handler) closeMenu(w http.ResponseWriter, r *http.Request) {
	h.shellFor(authFromContext(r.Context())).CloseMobileMenu()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// command handles POST /commands/{command}.
func (h *Handler) command(w http.ResponseWriter, r *http.Request) {
	cmd, err := shell.ParseCommand(chi.URLParam(r, "command"))
	if err != nil {
		writePageError(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.shellFor(authFromContext(r.Context())).Dispatch(cmd); err != nil {
		writePageError(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// addMember handles POST /members from the add-member form.
func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		writePageError(w, r, "Invalid form submission.", http.StatusBadRequest)
		return
	}
	_, err := h.svc.AddMember(r.Context(), app.AddMemberRequest{
		OwnerID:  claims.UserID,
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Phone:    r.FormValue("phone"),
		PlanID:   optionalID(r.FormValue("plan_id")),
		BranchID: optionalID(r.FormValue("branch_id")),
	})
	if err != nil {
		h.rejectForm(w, r, shell.PageMembers, err)
		return
	}
	http.Redirect(w, r, "/?notice=member-added", http.StatusSeeOther)
}

// recordPayment handles POST /payments from the record-payment form.
func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		writePageError(w, r, "Invalid form submission.", http.StatusBadRequest)
		return
	}
	memberID, _ := strconv.Atoi(r.FormValue("member_id"))
	_, err := h.svc.RecordPayment(r.Context(), app.RecordPaymentRequest{
		OwnerID:  claims.UserID,
		MemberID: memberID,
		PlanID:   optionalID(r.FormValue("plan_id")),
		Amount:   r.FormValue("amount"),
		Method:   r.FormValue("method"),
	})
	if err != nil {
		h.rejectForm(w, r, shell.PagePayments, err)
		return
	}
	http.Redirect(w, r, "/?notice=payment-recorded", http.StatusSeeOther)
}

// rejectForm re-renders page with its form open and the error shown. Errors that
// are not the user's fault are logged and answered with 500.
func (h *Handler) rejectForm(w http.ResponseWriter, r *http.Request, page shell.Page, err error) {
	if !errors.Is(err, core.ErrInvalidInput) && !errors.Is(err, core.ErrNotFound) {
		h.log.Error("form submit failed", zap.String("page", string(page)), zap.Error(err))
		writePageError(w, r, "Something went wrong while saving.", http.StatusInternalServerError)
		return
	}
	h.shellFor(authFromContext(r.Context())).Navigate(page)
	h.renderShell(w, r, http.StatusUnprocessableEntity, &formState{page: page, err: err.Error()})
}

// signOutEverywhere handles POST /settings/sign-out-everywhere. Every open tab of
// the user receives the sign-out over /events.
func (h *Handler) signOutEverywhere(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	n, err := h.svc.SignOutEverywhere(r.Context(), claims.UserID)
	if err != nil {
		h.log.Error("sign out everywhere failed", zap.Error(err), zap.Int("user_id", claims.UserID))
		writePageError(w, r, "Signing out failed. Please try again.", http.StatusBadGateway)
		return
	}
	h.log.Info("signed out everywhere", zap.Int("user_id", claims.UserID), zap.Int("sessions", n))
	h.shells.Remove(claims.SessionID)
	h.clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// visibilitySignal handles POST /signals/visibility {"visible": bool}.
func (h *Handler) visibilitySignal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Visible bool `json:"visible"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	// Reaching this handler means the gate resolved to authenticated.
	h.shellFor(authFromContext(r.Context())).VisibilityChanged(req.Visible, true)
	w.WriteHeader(http.StatusNoContent)
}

// onlineSignal handles POST /signals/online.
func (h *Handler) onlineSignal(w http.ResponseWriter, r *http.Request) {
	h.shellFor(authFromContext(r.Context())).Online()
	w.WriteHeader(http.StatusNoContent)
}

// ── API ───────────────────────────────────────────────────────────────────────

// apiShell handles GET /api/shell.
func (h *Handler) apiShell(w http.ResponseWriter, r *http.Request) {
	h.writeShell(w, r)
}

// apiCommand handles POST /api/commands/{command} and returns the new shell state.
func (h *Handler) apiCommand(w http.ResponseWriter, r *http.Request) {
	cmd, err := shell.ParseCommand(chi.URLParam(r, "command"))
	if err != nil {
		writeError(w, r, err.Error(), "UNKNOWN_COMMAND", http.StatusBadRequest)
		return
	}
	if err := h.shellFor(authFromContext(r.Context())).Dispatch(cmd); err != nil {
		writeError(w, r, err.Error(), "UNKNOWN_COMMAND", http.StatusBadRequest)
		return
	}
	h.writeShell(w, r)
}

func (h *Handler) writeShell(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	state, err := h.svc.LoadState(r.Context(), claims.authUser())
	if err != nil {
		h.log.Error("load state", zap.Error(err))
		writeError(w, r, "could not load gym data", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	view := h.shellFor(claims).View()
	writeJSON(w, app.ShellResult{
		Selection:         string(view.Selection),
		MobileMenuOpen:    view.MobileMenuOpen,
		SearchQuery:       view.SearchQuery,
		NotificationCount: len(state.Reminders),
	})
}

// ── helpers ───────────────────────────────────────────────────────────────────

func renderHTML(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = c.Render(r.Context(), w)
}

func optionalID(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}
