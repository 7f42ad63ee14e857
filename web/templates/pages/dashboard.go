package pages

import (
	"context"
	"io"

	"gym-dashboard/internal/core"
	"gym-dashboard/web/templates/layouts"

	"github.com/a-h/templ"
)

// quickActions are the dashboard buttons; each posts a shell command.
var quickActions = []struct{ command, label string }{
	{"openAddMember", "Add member"},
	{"openAddPayment", "Record payment"},
	{"navigateToReminders", "View reminders"},
	{"navigateToPlans", "Manage plans"},
}

// Dashboard renders the summary cards and quick actions.
func Dashboard(state *core.GymState) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := layouts.NewHTML(w)
		h.Raw(`<h1>Dashboard</h1><div class="cards">`)
		card := func(label, value string) {
			h.Rawf(`<div class="card"><span>%s</span><strong>%s</strong></div>`, label, value)
		}
		card("Members", itoa(len(state.Members)))
		card("Active members", itoa(state.ActiveMembers()))
		card("Plans", itoa(len(state.Plans)))
		card("Revenue", rupees(state.TotalRevenue()))
		card("Reminders", itoa(len(state.Reminders)))
		card("Branches", itoa(len(state.Branches)))
		h.Raw(`</div><h2>Quick actions</h2><div class="cards">`)
		for _, a := range quickActions {
			h.Rawf(`<form method="post" action="/commands/%s" class="card"><button>%s</button></form>`, a.command, a.label)
		}
		h.Raw(`</div><h2>Recent payments</h2>`)
		recent := state.Payments
		if len(recent) > 5 {
			recent = recent[:5]
		}
		paymentTable(h, recent)
		return h.Err()
	})
}
