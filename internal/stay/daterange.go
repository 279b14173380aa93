package stay

import "time"

// DateRange is a validated check-in/check-out pair. Comparison is day
// granular: intraday times are dropped on construction, so a checkout on the
// same calendar day as the check-in is rejected no matter the hours.
type DateRange struct {
	checkIn  time.Time
	checkOut time.Time
}

// NewDateRange validates a check-in/check-out pair against now. A zero time
// counts as a missing date. On failure it returns every rule the pair broke.
func NewDateRange(checkIn, checkOut, now time.Time) (DateRange, []FieldError) {
	var errs []FieldError

	if checkIn.IsZero() {
		errs = append(errs, FieldError{Field: "check_in", Code: CodeMissingDate, Message: "check-in date is required"})
	}
	if checkOut.IsZero() {
		errs = append(errs, FieldError{Field: "check_out", Code: CodeMissingDate, Message: "check-out date is required"})
	}
	if len(errs) > 0 {
		return DateRange{}, errs
	}

	in := startOfDay(checkIn)
	out := startOfDay(checkOut)

	if in.Before(startOfDay(now)) {
		errs = append(errs, FieldError{Field: "check_in", Code: CodePastCheckIn, Message: "check-in date cannot be in the past"})
	}
	if !out.After(in) {
		errs = append(errs, FieldError{Field: "check_out", Code: CodeInvalidRange, Message: "check-out date must be after check-in date"})
	}
	if len(errs) > 0 {
		return DateRange{}, errs
	}

	return DateRange{checkIn: in, checkOut: out}, nil
}

func (r DateRange) CheckIn() time.Time  { return r.checkIn }
func (r DateRange) CheckOut() time.Time { return r.checkOut }

// Nights is the whole-day count between check-in and check-out. A valid
// range always yields at least 1.
func (r DateRange) Nights() int {
	return int(r.checkOut.Sub(r.checkIn) / (24 * time.Hour))
}

func (r DateRange) IsZero() bool {
	return r.checkIn.IsZero() && r.checkOut.IsZero()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
