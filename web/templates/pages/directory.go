package pages

import (
	"context"
	"io"

	"gym-dashboard/internal/core"
	"gym-dashboard/web/templates/layouts"

	"github.com/a-h/templ"
)

// Plans renders the membership plans.
func Plans(plans []core.Plan) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := layouts.NewHTML(w)
		h.Raw(`<h1>Plans</h1><div class="cards">`)
		for _, p := range plans {
			h.Rawf(`<div class="card"><h3>%s</h3><strong>%s</strong><span>%d days</span></div>`,
				p.Name, rupees(p.Price), p.DurationDays)
		}
		if len(plans) == 0 {
			h.Raw(`<p>No plans yet.</p>`)
		}
		h.Raw(`</div>`)
		return h.Err()
	})
}

// Reminders renders pending member reminders.
func Reminders(reminders []core.Reminder) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := layouts.NewHTML(w)
		h.Raw(`<h1>Reminders</h1>`)
		if len(reminders) == 0 {
			h.Raw(`<p>Nothing due.</p>`)
			return h.Err()
		}
		h.Raw(`<table><thead><tr><th>Due</th><th>Member</th><th>Message</th></tr></thead><tbody>`)
		for _, r := range reminders {
			h.Rawf(`<tr><td>%s</td><td>%s</td><td>%s</td></tr>`, date(r.DueAt), optString(r.MemberName), r.Message)
		}
		h.Raw(`</tbody></table>`)
		return h.Err()
	})
}

// Branches renders the gym's locations.
func Branches(branches []core.Branch) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := layouts.NewHTML(w)
		h.Raw(`<h1>Branches</h1><div class="cards">`)
		for _, b := range branches {
			h.Rawf(`<div class="card"><h3>%s</h3><span>%s</span><span>%s</span></div>`,
				b.Name, optString(b.Address), optString(b.Phone))
		}
		if len(branches) == 0 {
			h.Raw(`<p>No branches yet.</p>`)
		}
		h.Raw(`</div>`)
		return h.Err()
	})
}

// Staff renders the staff of the current branch.
func Staff(staff []core.StaffMember, currentBranchName string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := layouts.NewHTML(w)
		h.Rawf(`<h1>Staff</h1><p class="hint">%s</p>`, currentBranchName)
		if len(staff) == 0 {
			h.Raw(`<p>No staff yet.</p>`)
			return h.Err()
		}
		h.Raw(`<table><thead><tr><th>Name</th><th>Role</th><th>Phone</th></tr></thead><tbody>`)
		for _, s := range staff {
			h.Rawf(`<tr><td>%s</td><td>%s</td><td>%s</td></tr>`, s.Name, s.Role, s.Phone)
		}
		h.Raw(`</tbody></table>`)
		return h.Err()
	})
}

// SettingsData configures the settings page.
type SettingsData struct {
	Email     string
	OwnerName string
	GymName   string
}

// Settings renders account details and the sign-out-everywhere action.
func Settings(d SettingsData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := layouts.NewHTML(w)
		h.Raw(`<h1>Settings</h1><div class="card">`)
		h.Rawf(`<p><span>Owner</span> <strong>%s</strong></p>`, d.OwnerName)
		h.Rawf(`<p><span>Gym</span> <strong>%s</strong></p>`, d.GymName)
		h.Rawf(`<p><span>Email</span> <strong>%s</strong></p>`, d.Email)
		h.Raw(`</div><form method="post" action="/settings/sign-out-everywhere" class="card">`)
		h.Raw(`<p>Sign out of every browser and device, including this one.</p>`)
		h.Raw(`<button type="submit">Sign out everywhere</button></form>`)
		return h.Err()
	})
}
