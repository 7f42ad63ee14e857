package pages

import (
	"context"
	"io"

	"gym-dashboard/internal/core"
	"gym-dashboard/web/templates/layouts"

	"github.com/a-h/templ"
)

// PaymentsData configures the payments page.
type PaymentsData struct {
	Payments    []core.Payment
	Members     []core.Member
	Plans       []core.Plan
	SearchQuery string
	ShowAddForm bool
	FormError   string
}

// Payments renders the payment list, filtered by the global search query, and
// the record-payment form when ShowAddForm is set.
func Payments(d PaymentsData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := layouts.NewHTML(w)
		payments := FilterPayments(d.Payments, d.SearchQuery)

		h.Raw(`<h1>Payments</h1>`)
		if d.ShowAddForm {
			h.Raw(`<form method="post" action="/payments" class="card add-payment"><h2>Record payment</h2>`)
			if d.FormError != "" {
				h.Rawf(`<p class="form-error">%s</p>`, d.FormError)
			}
			h.Raw(`<label>Member<select name="member_id" required>`)
			for _, m := range d.Members {
				h.Rawf(`<option value="%d">%s</option>`, m.ID, m.Name)
			}
			h.Raw(`</select></label><label>Plan<select name="plan_id"><option value="">—</option>`)
			for _, p := range d.Plans {
				h.Rawf(`<option value="%d">%s</option>`, p.ID, p.Name)
			}
			h.Raw(`</select></label><label>Amount<input name="amount" inputmode="decimal" placeholder="₹" required></label>`)
			h.Raw(`<label>Method<select name="method">`)
			for _, m := range core.PaymentMethods {
				h.Rawf(`<option value="%s">%s</option>`, m, m)
			}
			h.Raw(`</select></label><button type="submit">Save</button></form>`)
		} else {
			h.Raw(`<form method="post" action="/commands/openAddPayment"><button>Record payment</button></form>`)
		}
		paymentTable(h, payments)
		return h.Err()
	})
}

func paymentTable(h *layouts.HTML, payments []core.Payment) {
	if len(payments) == 0 {
		h.Raw(`<p>No payments yet.</p>`)
		return
	}
	h.Raw(`<table><thead><tr><th>Date</th><th>Member</th><th>Amount</th><th>Method</th></tr></thead><tbody>`)
	for _, p := range payments {
		h.Rawf(`<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			date(p.PaidAt), optString(p.MemberName), rupees(p.Amount), p.Method)
	}
	h.Raw(`</tbody></table>`)
}
