package core

import "time"

const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// Period selects the reporting window ending at "now".
type Period string

// ParsePeriod maps a request value to a Period, defaulting to month
// when the value is empty or unrecognized.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodQuarter:
		return PeriodQuarter
	case PeriodYear:
		return PeriodYear
	default:
		return PeriodMonth
	}
}

// Start returns the first day of the period containing now: the 1st of
// the month, the 1st of the current 3-month quarter, or Jan 1.
func (p Period) Start(now time.Time) Date {
	switch p {
	case PeriodQuarter:
		quarter := (int(now.Month()) - 1) / 3
		return NewDate(now.Year(), quarter*3+1, 1)
	case PeriodYear:
		return NewDate(now.Year(), 1, 1)
	default:
		return NewDate(now.Year(), int(now.Month()), 1)
	}
}

// CashflowDays returns the trailing seven calendar days ending at now,
// oldest first.
func CashflowDays(now time.Time) []Date {
	today := DateOf(now)
	days := make([]Date, 7)
	for i := 0; i < 7; i++ {
		days[i] = today.AddDays(i - 6)
	}
	return days
}
