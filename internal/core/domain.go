package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"

	// DateLayout is the calendar-date format used everywhere: in the
	// store, on the wire and in export documents.
	DateLayout = "2006-01-02"
)

type (
	EntryType string

	// Date is a calendar date with no time component.
	Date struct {
		time.Time
	}

	Category struct {
		ID        int64     `json:"id"`
		Name      string    `json:"name"`
		Type      EntryType `json:"type"`
		Color     string    `json:"color"`
		Icon      string    `json:"icon"`
		CreatedAt string    `json:"created_at,omitempty"`
	}

	// CategoryTotal is the total-spend variant of Category: the lifetime
	// summed expense amount rides along with the category fields.
	CategoryTotal struct {
		Category
		TotalAmount float64 `json:"total_amount"`
	}

	Transaction struct {
		ID          int64     `json:"id"`
		Description string    `json:"description"`
		Amount      float64   `json:"amount"`
		Type        EntryType `json:"type"`
		CategoryID  *int64    `json:"category_id"`
		Date        Date      `json:"date"`
		Notes       string    `json:"notes"`

		// Joined category fields; nil when category_id does not resolve.
		CategoryName  *string `json:"category_name,omitempty"`
		CategoryColor *string `json:"category_color,omitempty"`
		CategoryIcon  *string `json:"category_icon,omitempty"`
	}

	ScheduledExpense struct {
		ID          int64   `json:"id"`
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Frequency   string  `json:"frequency"`
		NextPayment Date    `json:"next_payment"`
		Notes       string  `json:"notes"`
	}
)

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyFrequency   = errors.New("empty frequency")
	ErrInvalidAmount    = errors.New("amount must be non-negative")
	ErrInvalidType      = errors.New("type must be income or expense")
	ErrInvalidDate      = errors.New("invalid date")
)

func (t EntryType) Valid() bool {
	return t == Income || t == Expense
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)}
}

// DateOf truncates a time to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time.AddDate(0, 0, n))
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return NewError(KindValidation, ErrEmptyName)
	}
	if !c.Type.Valid() {
		return NewError(KindValidation, ErrInvalidType)
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return NewError(KindValidation, ErrEmptyDescription)
	}
	if t.Amount < 0 {
		return NewError(KindValidation, ErrInvalidAmount)
	}
	if !t.Type.Valid() {
		return NewError(KindValidation, ErrInvalidType)
	}
	if t.Date.IsZero() {
		return NewError(KindValidation, ErrInvalidDate)
	}
	return nil
}

func (s ScheduledExpense) Validate() error {
	if strings.TrimSpace(s.Description) == "" {
		return NewError(KindValidation, ErrEmptyDescription)
	}
	if s.Amount < 0 {
		return NewError(KindValidation, ErrInvalidAmount)
	}
	if strings.TrimSpace(s.Frequency) == "" {
		return NewError(KindValidation, ErrEmptyFrequency)
	}
	if s.NextPayment.IsZero() {
		return NewError(KindValidation, ErrInvalidDate)
	}
	return nil
}
