package timesheet

import "github.com/shopspring/decimal"

// DayPolicy selects how parsed entries translate into worked days. The
// legacy system carried both policies side by side; they remain
// distinct, chosen by the caller per call site.
type DayPolicy int

const (
	// DayPolicyAnyEntry counts every non-blank entry as one worked day.
	// Used by the summary/compute path.
	DayPolicyAnyEntry DayPolicy = iota
	// DayPolicyHourBuckets buckets each entry's hour value: 8 or more
	// hours is a full day, 4 to 8 a half day, anything less zero. Used
	// by the document-rendering path.
	DayPolicyHourBuckets
)

var (
	fullDayHours = decimal.NewFromInt(8)
	halfDayHours = decimal.NewFromInt(4)
	halfDay      = decimal.NewFromFloat(0.5)
)

// Totals are the aggregated work quantities of one sheet.
type Totals struct {
	// Hours is the sum of every parsed hour value.
	Hours decimal.Decimal
	// WorkedDays is the day total under the selected DayPolicy.
	WorkedDays decimal.Decimal
	// RecordedDays counts entries that name an hour quantity at all,
	// regardless of its value.
	RecordedDays int
	// Entries counts the non-blank rows the sheet carried.
	Entries int
}

// Totals aggregates the sheet's entries under the given day policy.
func (s *Sheet) Totals(policy DayPolicy) Totals {
	t := Totals{Hours: decimal.Zero, WorkedDays: decimal.Zero, Entries: len(s.Entries)}

	for _, e := range s.Entries {
		hours, recorded := ParseHours(e.Raw)
		t.Hours = t.Hours.Add(hours)
		if recorded {
			t.RecordedDays++
		}

		switch policy {
		case DayPolicyAnyEntry:
			t.WorkedDays = t.WorkedDays.Add(decimal.NewFromInt(1))
		case DayPolicyHourBuckets:
			if hours.GreaterThanOrEqual(fullDayHours) {
				t.WorkedDays = t.WorkedDays.Add(decimal.NewFromInt(1))
			} else if hours.GreaterThanOrEqual(halfDayHours) {
				t.WorkedDays = t.WorkedDays.Add(halfDay)
			}
		}
	}

	return t
}
