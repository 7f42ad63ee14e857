// Package shell holds the signed-in dashboard's navigation state: the selected
// page, the mobile menu, and the global search query.
//
// Page changes requested from elsewhere in the UI arrive as Commands. A command
// that also needs the destination page to open a form leaves a pending Trigger;
// the page collects it with Ready when it renders, so the follow-up is handed
// over exactly once and only after the page exists.
package shell

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gym-dashboard/internal/core"

	"go.uber.org/zap"
)

// Logouter ends the current session.
type Logouter interface {
	Logout(ctx context.Context) error
}

// View is a snapshot of the shell state for rendering.
type View struct {
	Selection      Page
	MobileMenuOpen bool
	SearchQuery    string
}

// Shell is the per-session navigation state. It is safe for concurrent use.
type Shell struct {
	logouter Logouter
	onLogout func()
	log      *zap.Logger

	mu             sync.Mutex
	selection      Page
	mobileMenuOpen bool
	searchQuery    string
	pending        map[Page]Trigger
	lastSeen       time.Time
}

// New returns a shell on the dashboard page. onLogout runs after a successful Logout.
func New(logouter Logouter, onLogout func(), logger *zap.Logger) *Shell {
	if onLogout == nil {
		onLogout = func() {}
	}
	return &Shell{
		logouter:  logouter,
		onLogout:  onLogout,
		log:       logger.Named("shell"),
		selection: PageDashboard,
		pending:   make(map[Page]Trigger),
		lastSeen:  time.Now(),
	}
}

// View returns the current state.
func (s *Shell) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{Selection: s.selection, MobileMenuOpen: s.mobileMenuOpen, SearchQuery: s.searchQuery}
}

// Selection returns the selected page.
func (s *Shell) Selection() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Navigate selects page, closes the mobile menu, and clears the search query.
// Pending triggers are dropped: an explicit page switch cancels any form a
// command asked for.
func (s *Shell) Navigate(page Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = page
	s.mobileMenuOpen = false
	s.searchQuery = ""
	clear(s.pending)
}

// ToggleMobileMenu flips the mobile menu.
func (s *Shell) ToggleMobileMenu() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mobileMenuOpen = !s.mobileMenuOpen
}

// CloseMobileMenu closes the mobile menu.
func (s *Shell) CloseMobileMenu() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mobileMenuOpen = false
}

// Search stores query and, when it is non-blank, switches to the best matching
// category unless that category is already selected. It returns the selection
// after the call and whether it changed.
func (s *Shell) Search(query string, data *core.GymState) (Page, bool) {
	matches := Match(query, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = query

	best, ok := matches.Best()
	if !ok || best == s.selection {
		return s.selection, false
	}
	s.selection = best
	s.log.Debug("search navigated", zap.String("page", string(best)))
	return best, true
}

// SearchQueryFor returns the search query if page accepts one, otherwise "".
func (s *Shell) SearchQueryFor(page Page) string {
	if !page.AcceptsSearch() {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchQuery
}

// Dispatch applies a command.
func (s *Shell) Dispatch(cmd Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch cmd {
	case CommandOpenAddMember:
		s.selection = PageMembers
		s.pending[PageMembers] = TriggerAddMember
	case CommandOpenAddPayment:
		s.selection = PagePayments
		s.pending[PagePayments] = TriggerAddPayment
	case CommandNavigateToReminders:
		s.selection = PageReminders
	case CommandNavigateToPlans:
		s.selection = PagePlans
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	s.log.Debug("command", zap.String("command", string(cmd)), zap.String("page", string(s.selection)))
	return nil
}

// Ready is called by page once it is rendered and able to act on a trigger. It
// returns the trigger left for page by Dispatch, at most once.
func (s *Shell) Ready(page Page) (Trigger, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.pending[page]
	if ok {
		delete(s.pending, page)
	}
	return t, ok
}

// Logout waits for the logout collaborator and then tells the parent. If logout
// fails the parent is not told and the error is returned.
func (s *Shell) Logout(ctx context.Context) error {
	if err := s.logouter.Logout(ctx); err != nil {
		return err
	}
	s.onLogout()
	return nil
}

// VisibilityChanged records that the browser tab was shown or hidden.
func (s *Shell) VisibilityChanged(visible, authenticated bool) {
	if visible && authenticated {
		s.log.Info("tab became active, multi-device sync ready")
	}
}

// Online records that the browser regained connectivity.
func (s *Shell) Online() {
	s.log.Info("device came online, multi-device sync ready")
}

// touch records activity for idle expiry.
func (s *Shell) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Shell) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
