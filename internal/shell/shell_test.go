package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"gym-dashboard/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeLogouter struct {
	calls int
	err   error
}

func (f *fakeLogouter) Logout(context.Context) error {
	f.calls++
	return f.err
}

func strPtr(s string) *string { return &s }

func gymData() *core.GymState {
	return &core.GymState{
		Members: []core.Member{
			{ID: 1, Name: "John Carter", Email: "john@x.com", Phone: "9876543210"},
			{ID: 2, Name: "Priya Nair", Email: "priya@y.com", Phone: "9123456780"},
		},
		Payments: []core.Payment{
			{ID: 1, MemberName: strPtr("Karan Mehta"), Amount: decimal.NewFromInt(1500)},
			{ID: 2, MemberName: nil, Amount: decimal.NewFromInt(900)},
		},
		Plans: []core.Plan{
			{ID: 1, Name: "Gold Annual"},
			{ID: 2, Name: "Monthly Basic"},
		},
	}
}

func newTestShell() (*Shell, *fakeLogouter, *int) {
	lo := &fakeLogouter{}
	calls := 0
	return New(lo, func() { calls++ }, zap.NewNop()), lo, &calls
}

func TestShell_Defaults(t *testing.T) {
	s, _, _ := newTestShell()
	assert.Equal(t, View{Selection: PageDashboard}, s.View())
}

func TestShell_NavigateResetsState(t *testing.T) {
	s, _, _ := newTestShell()
	s.ToggleMobileMenu()
	s.Search("john", gymData())
	require.True(t, s.View().MobileMenuOpen)

	s.Navigate(PageSettings)

	assert.Equal(t, View{Selection: PageSettings, MobileMenuOpen: false, SearchQuery: ""}, s.View())
}

func TestShell_MobileMenu(t *testing.T) {
	s, _, _ := newTestShell()
	s.ToggleMobileMenu()
	assert.True(t, s.View().MobileMenuOpen)
	s.ToggleMobileMenu()
	assert.False(t, s.View().MobileMenuOpen)
	s.ToggleMobileMenu()
	s.CloseMobileMenu()
	assert.False(t, s.View().MobileMenuOpen)
}

func TestShell_SearchNavigates(t *testing.T) {
	tests := []struct {
		name    string
		start   Page
		query   string
		want    Page
		changed bool
	}{
		{name: "member email", start: PageDashboard, query: "john@x.com", want: PageMembers, changed: true},
		{name: "member name any case", start: PageDashboard, query: "  PRIYA ", want: PageMembers, changed: true},
		{name: "member phone", start: PageSettings, query: "98765", want: PageMembers, changed: true},
		{name: "payment member name", start: PageDashboard, query: "karan", want: PagePayments, changed: true},
		{name: "payment keyword", start: PageDashboard, query: "Payments today", want: PagePayments, changed: true},
		{name: "rupee symbol", start: PageDashboard, query: "₹1500", want: PagePayments, changed: true},
		{name: "plan name", start: PageDashboard, query: "gold", want: PagePlans, changed: true},
		{name: "plan keyword", start: PageDashboard, query: "plan", want: PagePlans, changed: true},
		{name: "no match", start: PageBranches, query: "zzz", want: PageBranches, changed: false},
		{name: "blank", start: PageStaff, query: "   ", want: PageStaff, changed: false},
		{name: "already selected", start: PageMembers, query: "john", want: PageMembers, changed: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestShell()
			s.Navigate(tt.start)

			got, changed := s.Search(tt.query, gymData())

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.want, s.Selection())
			assert.Equal(t, tt.query, s.View().SearchQuery)
		})
	}
}

func TestShell_SearchPriorityMembersFirst(t *testing.T) {
	data := gymData()
	data.Payments = append(data.Payments, core.Payment{MemberName: strPtr("John Carter")})

	s, _, _ := newTestShell()
	page, _ := s.Search("john", data)
	assert.Equal(t, PageMembers, page)

	// Repeating the same query does not bounce to the lower-priority payments match.
	page, changed := s.Search("john", data)
	assert.Equal(t, PageMembers, page)
	assert.False(t, changed)
}

func TestShell_SearchWithoutData(t *testing.T) {
	s, _, _ := newTestShell()
	page, changed := s.Search("plan", nil)
	assert.Equal(t, PagePlans, page)
	assert.True(t, changed)
}

func TestMatch_BestReportsMiss(t *testing.T) {
	_, ok := Match("zzz-nobody", gymData()).Best()
	assert.False(t, ok)

	_, ok = Match("   ", gymData()).Best()
	assert.False(t, ok)

	page, ok := Matches{Payments: true, Plans: true}.Best()
	assert.True(t, ok)
	assert.Equal(t, PagePayments, page)
}

func TestShell_SearchQueryFor(t *testing.T) {
	s, _, _ := newTestShell()
	s.Search("john", gymData())
	assert.Equal(t, "john", s.SearchQueryFor(PageMembers))
	assert.Equal(t, "john", s.SearchQueryFor(PagePayments))
	assert.Equal(t, "", s.SearchQueryFor(PagePlans))
	assert.Equal(t, "", s.SearchQueryFor(PageStaff))
}

func TestShell_DispatchOpenAddMember(t *testing.T) {
	s, _, _ := newTestShell()
	require.NoError(t, s.Dispatch(CommandOpenAddMember))
	assert.Equal(t, PageMembers, s.Selection())

	_, ok := s.Ready(PagePayments)
	assert.False(t, ok, "trigger is scoped to its page")

	trig, ok := s.Ready(PageMembers)
	require.True(t, ok)
	assert.Equal(t, TriggerAddMember, trig)

	_, ok = s.Ready(PageMembers)
	assert.False(t, ok, "trigger is delivered exactly once")
}

func TestShell_DispatchOpenAddPayment(t *testing.T) {
	s, _, _ := newTestShell()
	require.NoError(t, s.Dispatch(CommandOpenAddPayment))
	assert.Equal(t, PagePayments, s.Selection())
	trig, ok := s.Ready(PagePayments)
	require.True(t, ok)
	assert.Equal(t, TriggerAddPayment, trig)
}

func TestShell_DispatchNavigation(t *testing.T) {
	s, _, _ := newTestShell()
	require.NoError(t, s.Dispatch(CommandNavigateToReminders))
	assert.Equal(t, PageReminders, s.Selection())
	require.NoError(t, s.Dispatch(CommandNavigateToPlans))
	assert.Equal(t, PagePlans, s.Selection())
	_, ok := s.Ready(PagePlans)
	assert.False(t, ok)
}

func TestShell_DispatchUnknown(t *testing.T) {
	s, _, _ := newTestShell()
	err := s.Dispatch(Command("openEverything"))
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Equal(t, PageDashboard, s.Selection())
}

func TestShell_NavigateDropsPendingTrigger(t *testing.T) {
	s, _, _ := newTestShell()
	require.NoError(t, s.Dispatch(CommandOpenAddMember))
	s.Navigate(PageStaff)
	s.Navigate(PageMembers)
	_, ok := s.Ready(PageMembers)
	assert.False(t, ok)
}

func TestShell_Logout(t *testing.T) {
	s, lo, parentCalls := newTestShell()
	require.NoError(t, s.Logout(context.Background()))
	assert.Equal(t, 1, lo.calls)
	assert.Equal(t, 1, *parentCalls)
}

func TestShell_LogoutFailureKeepsParentSignedIn(t *testing.T) {
	s, lo, parentCalls := newTestShell()
	lo.err = errors.New("network down")
	err := s.Logout(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, *parentCalls)
}

func TestShell_ConnectivityDiagnostics(t *testing.T) {
	obs, logs := observer.New(zapcore.InfoLevel)
	s := New(&fakeLogouter{}, nil, zap.New(obs))

	s.VisibilityChanged(false, true)
	s.VisibilityChanged(true, false)
	assert.Zero(t, logs.Len())

	s.VisibilityChanged(true, true)
	s.Online()
	assert.Equal(t, 2, logs.Len())
}

func TestParsePage(t *testing.T) {
	for _, p := range Pages {
		got, err := ParsePage(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
		assert.NotEmpty(t, got.Title())
	}
	_, err := ParsePage("billing")
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestParseCommand(t *testing.T) {
	c, err := ParseCommand("openAddPayment")
	require.NoError(t, err)
	assert.Equal(t, CommandOpenAddPayment, c)
	_, err = ParseCommand("triggerAddMember")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestRegistry(t *testing.T) {
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r := NewRegistry(time.Hour, zap.NewNop())
	r.now = func() time.Time { return clock }

	created := 0
	factory := func() *Shell {
		created++
		s, _, _ := newTestShell()
		return s
	}

	a := r.Get("a", factory)
	assert.Same(t, a, r.Get("a", factory))
	r.Get("b", factory)
	assert.Equal(t, 2, created)
	assert.Equal(t, 2, r.Len())

	clock = clock.Add(45 * time.Minute)
	r.Get("a", factory)
	clock = clock.Add(30 * time.Minute)

	assert.Equal(t, 1, r.Purge())
	assert.Equal(t, 1, r.Len())

	r.Remove("a")
	assert.Equal(t, 0, r.Len())
}
