package stay

import "fmt"

type ErrorCode string

const (
	CodeMissingField            ErrorCode = "MISSING_FIELD"
	CodeMissingDate             ErrorCode = "MISSING_DATE"
	CodePastCheckIn             ErrorCode = "PAST_CHECK_IN"
	CodeInvalidRange            ErrorCode = "INVALID_RANGE"
	CodeInvalidGuestCount       ErrorCode = "INVALID_GUEST_COUNT"
	CodeInvalidEmail            ErrorCode = "INVALID_EMAIL"
	CodeInvalidSource           ErrorCode = "INVALID_SOURCE"
	CodeInvalidStatusTransition ErrorCode = "INVALID_STATUS_TRANSITION"
	CodeNegativeAmount          ErrorCode = "NEGATIVE_AMOUNT"
)

// FieldError is a single field-level validation failure. Validators return
// slices of these so a form can render every problem at once instead of
// stopping at the first.
type FieldError struct {
	Field   string    `json:"field"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
