package booking

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mperera91/hotelbooking/internal/domain"
	"github.com/mperera91/hotelbooking/internal/kafka"
	"github.com/mperera91/hotelbooking/internal/rates"
	"github.com/mperera91/hotelbooking/internal/repository"
	"github.com/mperera91/hotelbooking/internal/stay"
)

type BookingUseCase interface {
	QuoteStay(ctx context.Context, input QuoteInput) (*QuoteResult, error)
	CreateBooking(ctx context.Context, input CreateBookingInput) (*CreateBookingResult, error)
	GetBooking(ctx context.Context, reference string) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, reference string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, reference string) (*domain.Booking, error)
	CheckInBooking(ctx context.Context, reference string) (*domain.Booking, error)
	CheckOutBooking(ctx context.Context, reference string) (*domain.Booking, error)
	MarkNoShows(ctx context.Context) ([]domain.Booking, error)
}

type Cache interface {
	AcquireHold(ctx context.Context, roomID int64, checkIn, checkOut time.Time, ttl time.Duration) (bool, error)
	ReleaseHold(ctx context.Context, roomID int64, checkIn, checkOut time.Time) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// ValidationError carries the full list of field errors from a rejected
// booking or quote request.
type ValidationError struct {
	Fields []stay.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

type BookingService struct {
	bookings           repository.BookingRepository
	rooms              repository.RoomRepository
	cache              Cache
	producer           Producer
	rates              *rates.Resolver
	jurisdiction       string
	bookingTopic       string
	notificationsTopic string
	holdTTL            time.Duration
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	rooms repository.RoomRepository,
	cache Cache,
	producer Producer,
	resolver *rates.Resolver,
	jurisdiction string,
	bookingTopic string,
	holdTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		rooms:        rooms,
		cache:        cache,
		producer:     producer,
		rates:        resolver,
		jurisdiction: jurisdiction,
		bookingTopic: bookingTopic,
		holdTTL:      holdTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

type QuoteInput struct {
	RoomID       int64     `json:"room_id"`
	CheckIn      time.Time `json:"check_in"`
	CheckOut     time.Time `json:"check_out"`
	DiscountCode string    `json:"discount_code"`
	PaidCents    int64     `json:"paid_cents"`
}

type QuoteResult struct {
	Quote       stay.Quote
	Currency    string
	Adjustments []stay.FieldError
}

// QuoteStay prices a prospective stay without touching any booking state.
// Safe to call on every form change.
func (s *BookingService) QuoteStay(ctx context.Context, input QuoteInput) (*QuoteResult, error) {
	room, err := s.rooms.GetByID(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dr, errs := stay.NewDateRange(input.CheckIn, input.CheckOut, now)
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	discountBps := s.rates.DiscountBps(input.DiscountCode, now)
	taxBps := s.rates.TaxBps(s.jurisdiction)
	quote, adjustments := stay.ComputeQuote(dr, room.NightlyRateCents, discountBps, taxBps, input.PaidCents)

	return &QuoteResult{Quote: quote, Currency: room.Currency, Adjustments: adjustments}, nil
}

type CreateBookingResult struct {
	Booking     *domain.Booking
	Adjustments []stay.FieldError
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*CreateBookingResult, error) {
	room, err := s.rooms.GetByID(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	discountBps := s.rates.DiscountBps(input.DiscountCode, now)
	taxBps := s.rates.TaxBps(s.jurisdiction)

	booking, errs, adjustments := BuildBooking(input, room, discountBps, taxBps, now)
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	booking.Reference = uuid.NewString()

	held := false
	if s.cache != nil {
		ok, err := s.cache.AcquireHold(ctx, booking.RoomID, booking.CheckIn, booking.CheckOut, s.holdTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New("room is being booked by another guest")
		}
		held = true
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if held {
			_ = s.cache.ReleaseHold(ctx, booking.RoomID, booking.CheckIn, booking.CheckOut)
		}
		return nil, err
	}

	if err := s.publish(ctx, "booking_created", booking); err != nil {
		log.Printf("WARNING: failed to publish booking_created event for booking %s: %v", booking.Reference, err)
	}
	return &CreateBookingResult{Booking: booking, Adjustments: adjustments}, nil
}

func (s *BookingService) GetBooking(ctx context.Context, reference string) (*domain.Booking, error) {
	return s.bookings.GetByReference(ctx, reference)
}

func (s *BookingService) ConfirmBooking(ctx context.Context, reference string) (*domain.Booking, error) {
	updated, err := s.transition(ctx, reference, domain.BookingStatusConfirmed, "booking_confirmed")
	if err != nil {
		return nil, err
	}
	s.releaseHold(ctx, updated)
	return updated, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, reference string) (*domain.Booking, error) {
	current, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingStatusCancelled {
		return current, nil
	}
	if err := domain.ValidateTransition(current.Status, domain.BookingStatusCancelled); err != nil {
		return nil, err
	}

	updated, err := s.bookings.UpdateStatus(ctx, reference, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	_ = s.rooms.ReleaseUnit(ctx, updated.RoomID)
	if err := s.publish(ctx, "booking_cancelled", updated); err != nil {
		log.Printf("WARNING: failed to publish booking_cancelled event for booking %s: %v", updated.Reference, err)
	}
	s.releaseHold(ctx, updated)
	return updated, nil
}

func (s *BookingService) CheckInBooking(ctx context.Context, reference string) (*domain.Booking, error) {
	return s.transition(ctx, reference, domain.BookingStatusCheckedIn, "booking_checked_in")
}

func (s *BookingService) CheckOutBooking(ctx context.Context, reference string) (*domain.Booking, error) {
	updated, err := s.transition(ctx, reference, domain.BookingStatusCheckedOut, "booking_checked_out")
	if err != nil {
		return nil, err
	}
	_ = s.rooms.ReleaseUnit(ctx, updated.RoomID)
	return updated, nil
}

// MarkNoShows flips confirmed bookings whose check-in day has elapsed to
// NO_SHOW and frees their units. Run periodically by the worker.
func (s *BookingService) MarkNoShows(ctx context.Context) ([]domain.Booking, error) {
	now := time.Now()
	deadline := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	marked, err := s.bookings.MarkNoShowsBefore(ctx, deadline)
	if err != nil {
		return nil, err
	}
	for _, b := range marked {
		_ = s.rooms.ReleaseUnit(ctx, b.RoomID)
		if err := s.publish(ctx, "booking_no_show", &b); err != nil {
			log.Printf("WARNING: failed to publish booking_no_show event for booking %s: %v", b.Reference, err)
		}
		s.releaseHold(ctx, &b)
	}
	return marked, nil
}

func (s *BookingService) transition(ctx context.Context, reference string, next domain.BookingStatus, eventType string) (*domain.Booking, error) {
	current, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateTransition(current.Status, next); err != nil {
		return nil, err
	}

	updated, err := s.bookings.UpdateStatus(ctx, reference, next)
	if err != nil {
		return nil, err
	}
	if err := s.publish(ctx, eventType, updated); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType, updated.Reference, err)
	}
	return updated, nil
}

func (s *BookingService) releaseHold(ctx context.Context, b *domain.Booking) {
	if s.cache != nil {
		_ = s.cache.ReleaseHold(ctx, b.RoomID, b.CheckIn, b.CheckOut)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:       eventType,
		Reference:  booking.Reference,
		RoomID:     booking.RoomID,
		Email:      booking.Guest.Email,
		Status:     string(booking.Status),
		CheckIn:    booking.CheckIn,
		CheckOut:   booking.CheckOut,
		TotalCents: booking.TotalCents,
		Currency:   booking.Currency,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.Reference, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
