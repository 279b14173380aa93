package booking

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mperera91/hotelbooking/internal/domain"
	"github.com/mperera91/hotelbooking/internal/stay"
)

var validate = validator.New()

type CreateBookingInput struct {
	RoomID          int64                `json:"room_id"`
	GuestName       string               `json:"guest_name"`
	GuestEmail      string               `json:"guest_email"`
	GuestPhone      string               `json:"guest_phone"`
	GuestAddress    string               `json:"guest_address"`
	CheckIn         time.Time            `json:"check_in"`
	CheckOut        time.Time            `json:"check_out"`
	Adults          int                  `json:"adults"`
	Children        int                  `json:"children"`
	SpecialRequests string               `json:"special_requests"`
	DiscountCode    string               `json:"discount_code"`
	PaidCents       int64                `json:"paid_cents"`
	Source          domain.BookingSource `json:"source"`
}

// BuildBooking turns raw form input into a booking ready for persistence. It
// runs every check and collects all field errors rather than stopping at the
// first, so the caller can show the guest everything that is wrong at once.
// Advisories report monetary clamping; they never fail the build.
func BuildBooking(input CreateBookingInput, room *domain.Room, discountBps, taxBps int64, now time.Time) (*domain.Booking, []stay.FieldError, []stay.FieldError) {
	var errs []stay.FieldError

	if input.GuestName == "" {
		errs = append(errs, stay.FieldError{Field: "guest_name", Code: stay.CodeMissingField, Message: "guest name is required"})
	}
	if err := validate.Var(input.GuestEmail, "required,email"); err != nil {
		errs = append(errs, stay.FieldError{Field: "guest_email", Code: stay.CodeInvalidEmail, Message: "a valid email address is required"})
	}

	dr, dateErrs := stay.NewDateRange(input.CheckIn, input.CheckOut, now)
	errs = append(errs, dateErrs...)

	if input.Adults < 1 {
		errs = append(errs, stay.FieldError{Field: "adults", Code: stay.CodeInvalidGuestCount, Message: "at least one adult is required"})
	}
	if input.Children < 0 {
		errs = append(errs, stay.FieldError{Field: "children", Code: stay.CodeInvalidGuestCount, Message: "children cannot be negative"})
	}
	if input.Adults >= 1 && input.Children >= 0 && input.Adults+input.Children > room.Capacity {
		errs = append(errs, stay.FieldError{Field: "guests", Code: stay.CodeInvalidGuestCount, Message: "guest count exceeds room capacity"})
	}

	source := input.Source
	if source == "" {
		source = domain.BookingSourceOnline
	}
	if !source.IsValid() {
		errs = append(errs, stay.FieldError{Field: "source", Code: stay.CodeInvalidSource, Message: "unknown booking source"})
	}

	if len(errs) > 0 {
		return nil, errs, nil
	}

	quote, advisories := stay.ComputeQuote(dr, room.NightlyRateCents, discountBps, taxBps, input.PaidCents)

	// A zero balance means nothing is owed, including fully discounted stays.
	paymentStatus := domain.PaymentStatusPending
	if quote.BalanceDueCents == 0 {
		paymentStatus = domain.PaymentStatusPaid
	}

	booking := &domain.Booking{
		RoomID: room.ID,
		Guest: domain.Guest{
			Name:    input.GuestName,
			Email:   input.GuestEmail,
			Phone:   input.GuestPhone,
			Address: input.GuestAddress,
		},
		CheckIn:         dr.CheckIn(),
		CheckOut:        dr.CheckOut(),
		Adults:          input.Adults,
		Children:        input.Children,
		SpecialRequests: input.SpecialRequests,
		Nights:          quote.Nights,
		SubtotalCents:   quote.SubtotalCents,
		DiscountCents:   quote.DiscountCents,
		TaxesCents:      quote.TaxesCents,
		TotalCents:      quote.TotalCents,
		PaidCents:       quote.PaidCents,
		BalanceDueCents: quote.BalanceDueCents,
		Currency:        room.Currency,
		PaymentStatus:   paymentStatus,
		Status:          domain.InitialStatus(source),
		Source:          source,
	}

	return booking, nil, advisories
}
