package shell

import (
	"strings"

	"gym-dashboard/internal/core"
)

// Matches records which categories a search query hits.
type Matches struct {
	Members  bool
	Payments bool
	Plans    bool
}

// Best returns the highest-priority matching page: members, then payments, then plans.
func (m Matches) Best() (Page, bool) {
	switch {
	case m.Members:
		return PageMembers, true
	case m.Payments:
		return PagePayments, true
	case m.Plans:
		return PagePlans, true
	}
	return "", false
}

// Match tests query against the gym collections. Comparison is case-insensitive
// on the trimmed query; an empty query matches nothing. Phone numbers are
// compared verbatim.
func Match(query string, data *core.GymState) Matches {
	q := strings.TrimSpace(query)
	if q == "" {
		return Matches{}
	}
	lower := strings.ToLower(q)

	var m Matches
	if data != nil {
		for _, mem := range data.Members {
			if strings.Contains(strings.ToLower(mem.Name), lower) ||
				strings.Contains(strings.ToLower(mem.Email), lower) ||
				strings.Contains(mem.Phone, q) {
				m.Members = true
				break
			}
		}
		for _, p := range data.Payments {
			if p.MemberName != nil && strings.Contains(strings.ToLower(*p.MemberName), lower) {
				m.Payments = true
				break
			}
		}
		for _, p := range data.Plans {
			if strings.Contains(strings.ToLower(p.Name), lower) {
				m.Plans = true
				break
			}
		}
	}

	if strings.Contains(lower, "payment") || strings.Contains(lower, "₹") {
		m.Payments = true
	}
	if strings.Contains(lower, "plan") {
		m.Plans = true
	}
	return m
}
