package pages

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

func rupees(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}

func date(t time.Time) string {
	return t.Format("02 Jan 2006")
}

func optDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return date(*t)
}

func optString(s *string) string {
	if s == nil || *s == "" {
		return "—"
	}
	return *s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
