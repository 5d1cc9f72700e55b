package validators

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/booking-cleanup/internal/domain/phone"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type IssueCode string

const (
	IssueMissingName   IssueCode = "missing_name"
	IssueInvalidPhone  IssueCode = "invalid_phone"
	IssueBadDate       IssueCode = "bad_date"
	IssueBadTime       IssueCode = "bad_time"
	IssueDuplicate     IssueCode = "duplicate"
	IssueAlreadyBooked IssueCode = "already_booked"
)

type Issue struct {
	Code   IssueCode `json:"code"`
	Detail string    `json:"detail,omitempty"`
}

func (i Issue) String() string {
	if i.Detail == "" {
		return string(i.Code)
	}
	return string(i.Code) + " (" + i.Detail + ")"
}

// BookingRow is one intake line before validation.
type BookingRow struct {
	Name    string
	Phone   string
	Date    string
	Time    string
	Service string
}

// CleanBooking is a row that passed validation, with phone canonical and
// date/time in their stored layouts.
type CleanBooking struct {
	Name    string
	Phone   phone.Canonical
	Date    string
	Time    string
	Service string
}

// ValidateBookingRow reports every problem of a single row. Duplicates
// across rows are the caller's job since they need the whole file.
func ValidateBookingRow(r BookingRow) (CleanBooking, []Issue) {
	var issues []Issue
	clean := CleanBooking{
		Name:    strings.TrimSpace(r.Name),
		Service: strings.TrimSpace(r.Service),
	}

	if clean.Name == "" {
		issues = append(issues, Issue{Code: IssueMissingName})
	}

	if p, ok := phone.Normalize(r.Phone); ok {
		clean.Phone = p
	} else {
		issues = append(issues, Issue{Code: IssueInvalidPhone, Detail: string(phone.Classify(r.Phone))})
	}

	if d, err := time.Parse(DateLayout, strings.TrimSpace(r.Date)); err == nil {
		clean.Date = d.Format(DateLayout)
	} else {
		issues = append(issues, Issue{Code: IssueBadDate, Detail: r.Date})
	}

	if t, err := time.Parse(TimeLayout, strings.TrimSpace(r.Time)); err == nil {
		clean.Time = t.Format(TimeLayout)
	} else {
		issues = append(issues, Issue{Code: IssueBadTime, Detail: r.Time})
	}

	return clean, issues
}
