package pages

import (
	"context"
	"io"

	"gym-dashboard/internal/core"
	"gym-dashboard/web/templates/layouts"

	"github.com/a-h/templ"
)

// MembersData configures the members page.
type MembersData struct {
	Members     []core.Member
	Plans       []core.Plan
	Branches    []core.Branch
	SearchQuery string
	ShowAddForm bool
	FormError   string
}

// Members renders the member list, filtered by the global search query, and the
// add-member form when ShowAddForm is set.
func Members(d MembersData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := layouts.NewHTML(w)
		members := FilterMembers(d.Members, d.SearchQuery)

		h.Raw(`<h1>Members</h1>`)
		if d.SearchQuery != "" {
			h.Rawf(`<p class="hint">%d of %d members match “%s”</p>`, len(members), len(d.Members), d.SearchQuery)
		}
		if d.ShowAddForm {
			h.Raw(`<form method="post" action="/members" class="card add-member"><h2>Add member</h2>`)
			if d.FormError != "" {
				h.Rawf(`<p class="form-error">%s</p>`, d.FormError)
			}
			h.Raw(`<label>Name<input name="name" required autofocus></label>`)
			h.Raw(`<label>Email<input type="email" name="email"></label>`)
			h.Raw(`<label>Phone<input name="phone"></label>`)
			h.Raw(`<label>Plan<select name="plan_id"><option value="">No plan</option>`)
			for _, p := range d.Plans {
				h.Rawf(`<option value="%d">%s (%s)</option>`, p.ID, p.Name, rupees(p.Price))
			}
			h.Raw(`</select></label><label>Branch<select name="branch_id"><option value="">—</option>`)
			for _, b := range d.Branches {
				h.Rawf(`<option value="%d">%s</option>`, b.ID, b.Name)
			}
			h.Raw(`</select></label><button type="submit">Save</button></form>`)
		} else {
			h.Raw(`<form method="post" action="/commands/openAddMember"><button>Add member</button></form>`)
		}

		if len(members) == 0 {
			h.Raw(`<p>No members found.</p>`)
			return h.Err()
		}
		h.Raw(`<table><thead><tr><th>Name</th><th>Email</th><th>Phone</th><th>Plan</th><th>Expires</th><th>Status</th></tr></thead><tbody>`)
		for _, m := range members {
			h.Rawf(`<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				m.Name, m.Email, m.Phone, optString(m.PlanName), optDate(m.ExpiresAt), m.Status)
		}
		h.Raw(`</tbody></table>`)
		return h.Err()
	})
}
