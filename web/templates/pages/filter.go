package pages

import (
	"strings"

	"gym-dashboard/internal/core"
)

// FilterMembers keeps members whose name, email, or phone contains query.
func FilterMembers(members []core.Member, query string) []core.Member {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return members
	}
	var out []core.Member
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.Email), q) ||
			strings.Contains(m.Phone, q) {
			out = append(out, m)
		}
	}
	return out
}

// FilterPayments keeps payments whose member name or method contains query.
// Queries that only name the category ("payment", "₹") keep everything.
func FilterPayments(payments []core.Payment, query string) []core.Payment {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || strings.Contains(q, "payment") || strings.Contains(q, "₹") {
		return payments
	}
	var out []core.Payment
	for _, p := range payments {
		if (p.MemberName != nil && strings.Contains(strings.ToLower(*p.MemberName), q)) ||
			strings.Contains(p.Method, q) {
			out = append(out, p)
		}
	}
	return out
}
