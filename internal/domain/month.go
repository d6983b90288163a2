package domain

import "time"

// Year/month layouts, tried in this order over the whole batch.
const (
	fullMonthLayout  = "2006-January"
	shortMonthLayout = "2006-Jan"
)

// MonthOrder returns the canonical calendar order, January through December.
// Every month-keyed view uses it regardless of the source column order.
func MonthOrder() []string {
	order := make([]string, 12)
	for m := time.January; m <= time.December; m++ {
		order[m-1] = m.String()
	}
	return order
}

// parseMonthName accepts a full or three-letter English month name.
func parseMonthName(name string) (time.Month, bool) {
	for _, layout := range []string{"January", "Jan"} {
		if t, err := time.Parse(layout, name); err == nil {
			return t.Month(), true
		}
	}
	return 0, false
}
