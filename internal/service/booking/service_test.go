package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mperera91/hotelbooking/config"
	"github.com/mperera91/hotelbooking/internal/domain"
	"github.com/mperera91/hotelbooking/internal/rates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, reference string, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, reference, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) MarkNoShowsBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, deadline)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) List(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Room), args.Error(1)
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *MockRoomRepository) ReserveUnit(ctx context.Context, roomID int64) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *MockRoomRepository) ReleaseUnit(ctx context.Context, roomID int64) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) AcquireHold(ctx context.Context, roomID int64, checkIn, checkOut time.Time, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, roomID, checkIn, checkOut, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) ReleaseHold(ctx context.Context, roomID int64, checkIn, checkOut time.Time) error {
	args := m.Called(ctx, roomID, checkIn, checkOut)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func testRates() *rates.Resolver {
	return rates.NewResolver(config.RatesConfig{
		Discounts: []config.DiscountConfig{{Code: "EARLYBIRD", PercentBps: 2000}},
		Taxes:     []config.TaxConfig{{Jurisdiction: "LK", PercentBps: 600}},
	})
}

type serviceMocks struct {
	bookings *MockBookingRepository
	rooms    *MockRoomRepository
	cache    *MockCache
	producer *MockProducer
}

func newTestService() (*BookingService, *serviceMocks) {
	m := &serviceMocks{
		bookings: &MockBookingRepository{},
		rooms:    &MockRoomRepository{},
		cache:    &MockCache{},
		producer: &MockProducer{},
	}
	service := &BookingService{
		bookings:     m.bookings,
		rooms:        m.rooms,
		cache:        m.cache,
		producer:     m.producer,
		rates:        testRates(),
		jurisdiction: "LK",
		bookingTopic: "booking_events",
		holdTTL:      15 * time.Minute,
	}
	return service, m
}

func futureInput() CreateBookingInput {
	checkIn := time.Now().UTC().AddDate(0, 0, 7)
	return CreateBookingInput{
		RoomID:     7,
		GuestName:  "Nimal Perera",
		GuestEmail: "nimal@example.com",
		CheckIn:    checkIn,
		CheckOut:   checkIn.AddDate(0, 0, 3),
		Adults:     2,
	}
}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	input := futureInput()

	m.rooms.On("GetByID", ctx, int64(7)).Return(testRoom(), nil).Once()
	m.cache.On("AcquireHold", ctx, int64(7), mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), 15*time.Minute).Return(true, nil).Once()
	m.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	m.producer.On("Publish", ctx, "booking_events", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := service.CreateBooking(ctx, input)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.NotEmpty(t, result.Booking.Reference)
	assert.Equal(t, domain.BookingStatusPending, result.Booking.Status)
	assert.Equal(t, 3, result.Booking.Nights)
	assert.Equal(t, int64(7_500_000), result.Booking.SubtotalCents)

	m.rooms.AssertExpectations(t)
	m.cache.AssertExpectations(t)
	m.bookings.AssertExpectations(t)
	m.producer.AssertExpectations(t)
}

func TestBookingService_CreateBooking_AppliesDiscountCode(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	input := futureInput()
	input.DiscountCode = "EARLYBIRD"

	m.rooms.On("GetByID", ctx, int64(7)).Return(testRoom(), nil).Once()
	m.cache.On("AcquireHold", ctx, int64(7), mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), 15*time.Minute).Return(true, nil).Once()
	m.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	m.producer.On("Publish", ctx, "booking_events", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := service.CreateBooking(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, int64(1_500_000), result.Booking.DiscountCents)
	assert.Equal(t, int64(360_000), result.Booking.TaxesCents)
	assert.Equal(t, int64(6_360_000), result.Booking.TotalCents)
}

func TestBookingService_CreateBooking_UnknownDiscountCodeIgnored(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	input := futureInput()
	input.DiscountCode = "NOSUCHCODE"

	m.rooms.On("GetByID", ctx, int64(7)).Return(testRoom(), nil).Once()
	m.cache.On("AcquireHold", ctx, int64(7), mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), 15*time.Minute).Return(true, nil).Once()
	m.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	m.producer.On("Publish", ctx, "booking_events", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := service.CreateBooking(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), result.Booking.DiscountCents)
}

func TestBookingService_CreateBooking_ValidationErrors(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	input := futureInput()
	input.GuestEmail = "nope"
	input.Adults = 0

	m.rooms.On("GetByID", ctx, int64(7)).Return(testRoom(), nil).Once()

	result, err := service.CreateBooking(ctx, input)

	assert.Nil(t, result)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)

	m.bookings.AssertNotCalled(t, "Create")
	m.cache.AssertNotCalled(t, "AcquireHold")
}

func TestBookingService_CreateBooking_HoldTaken(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.rooms.On("GetByID", ctx, int64(7)).Return(testRoom(), nil).Once()
	m.cache.On("AcquireHold", ctx, int64(7), mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), 15*time.Minute).Return(false, nil).Once()

	result, err := service.CreateBooking(ctx, futureInput())

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "being booked")

	m.bookings.AssertNotCalled(t, "Create")
}

func TestBookingService_CreateBooking_RepositoryErrorReleasesHold(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	expectedErr := errors.New("database error")
	m.rooms.On("GetByID", ctx, int64(7)).Return(testRoom(), nil).Once()
	m.cache.On("AcquireHold", ctx, int64(7), mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), 15*time.Minute).Return(true, nil).Once()
	m.cache.On("ReleaseHold", ctx, int64(7), mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(nil).Once()
	m.bookings.On("Create", ctx, mock.Anything).Return(expectedErr).Once()

	result, err := service.CreateBooking(ctx, futureInput())

	assert.Nil(t, result)
	assert.Equal(t, expectedErr, err)

	m.cache.AssertExpectations(t)
}

func TestBookingService_ConfirmBooking_Success(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	reference := "ref-123"

	pending := &domain.Booking{Reference: reference, RoomID: 7, Status: domain.BookingStatusPending}
	confirmed := &domain.Booking{Reference: reference, RoomID: 7, Status: domain.BookingStatusConfirmed}

	m.bookings.On("GetByReference", ctx, reference).Return(pending, nil).Once()
	m.bookings.On("UpdateStatus", ctx, reference, domain.BookingStatusConfirmed).Return(confirmed, nil).Once()
	m.producer.On("Publish", ctx, "booking_events", reference, mock.Anything).Return(nil).Once()
	m.cache.On("ReleaseHold", ctx, int64(7), mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	booking, err := service.ConfirmBooking(ctx, reference)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)

	m.bookings.AssertExpectations(t)
	m.producer.AssertExpectations(t)
}

func TestBookingService_ConfirmBooking_AfterCheckOutRejected(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	reference := "ref-done"

	checkedOut := &domain.Booking{Reference: reference, Status: domain.BookingStatusCheckedOut}
	m.bookings.On("GetByReference", ctx, reference).Return(checkedOut, nil).Once()

	booking, err := service.ConfirmBooking(ctx, reference)

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	m.bookings.AssertNotCalled(t, "UpdateStatus")
}

func TestBookingService_CancelBooking_Idempotent(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	reference := "ref-cancelled"

	cancelled := &domain.Booking{Reference: reference, Status: domain.BookingStatusCancelled}
	m.bookings.On("GetByReference", ctx, reference).Return(cancelled, nil).Once()

	booking, err := service.CancelBooking(ctx, reference)

	assert.NoError(t, err)
	assert.Equal(t, cancelled, booking)

	m.bookings.AssertNotCalled(t, "UpdateStatus")
	m.rooms.AssertNotCalled(t, "ReleaseUnit")
}

func TestBookingService_CancelBooking_Success(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	reference := "ref-456"

	confirmed := &domain.Booking{Reference: reference, RoomID: 7, Status: domain.BookingStatusConfirmed}
	cancelled := &domain.Booking{Reference: reference, RoomID: 7, Status: domain.BookingStatusCancelled}

	m.bookings.On("GetByReference", ctx, reference).Return(confirmed, nil).Once()
	m.bookings.On("UpdateStatus", ctx, reference, domain.BookingStatusCancelled).Return(cancelled, nil).Once()
	m.rooms.On("ReleaseUnit", ctx, int64(7)).Return(nil).Once()
	m.producer.On("Publish", ctx, "booking_events", reference, mock.Anything).Return(nil).Once()
	m.cache.On("ReleaseHold", ctx, int64(7), mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	booking, err := service.CancelBooking(ctx, reference)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, booking.Status)

	m.bookings.AssertExpectations(t)
	m.rooms.AssertExpectations(t)
}

func TestBookingService_CancelBooking_AfterCheckInRejected(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	reference := "ref-checked-in"

	checkedIn := &domain.Booking{Reference: reference, Status: domain.BookingStatusCheckedIn}
	m.bookings.On("GetByReference", ctx, reference).Return(checkedIn, nil).Once()

	booking, err := service.CancelBooking(ctx, reference)

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
}

func TestBookingService_CheckOutBooking_ReleasesUnit(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	reference := "ref-789"

	checkedIn := &domain.Booking{Reference: reference, RoomID: 7, Status: domain.BookingStatusCheckedIn}
	checkedOut := &domain.Booking{Reference: reference, RoomID: 7, Status: domain.BookingStatusCheckedOut}

	m.bookings.On("GetByReference", ctx, reference).Return(checkedIn, nil).Once()
	m.bookings.On("UpdateStatus", ctx, reference, domain.BookingStatusCheckedOut).Return(checkedOut, nil).Once()
	m.producer.On("Publish", ctx, "booking_events", reference, mock.Anything).Return(nil).Once()
	m.rooms.On("ReleaseUnit", ctx, int64(7)).Return(nil).Once()

	booking, err := service.CheckOutBooking(ctx, reference)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCheckedOut, booking.Status)

	m.rooms.AssertExpectations(t)
}

func TestBookingService_MarkNoShows(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	noShows := []domain.Booking{
		{Reference: "ref-1", RoomID: 7, Status: domain.BookingStatusNoShow},
		{Reference: "ref-2", RoomID: 9, Status: domain.BookingStatusNoShow},
	}

	m.bookings.On("MarkNoShowsBefore", ctx, mock.AnythingOfType("time.Time")).Return(noShows, nil).Once()
	m.rooms.On("ReleaseUnit", ctx, int64(7)).Return(nil).Once()
	m.rooms.On("ReleaseUnit", ctx, int64(9)).Return(nil).Once()
	m.producer.On("Publish", ctx, "booking_events", "ref-1", mock.Anything).Return(nil).Once()
	m.producer.On("Publish", ctx, "booking_events", "ref-2", mock.Anything).Return(nil).Once()
	m.cache.On("ReleaseHold", ctx, int64(7), mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(nil).Once()
	m.cache.On("ReleaseHold", ctx, int64(9), mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	marked, err := service.MarkNoShows(ctx)

	assert.NoError(t, err)
	assert.Equal(t, noShows, marked)

	m.bookings.AssertExpectations(t)
	m.rooms.AssertExpectations(t)
	m.producer.AssertExpectations(t)
}

func TestBookingService_MarkNoShows_Empty(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.bookings.On("MarkNoShowsBefore", ctx, mock.AnythingOfType("time.Time")).Return([]domain.Booking{}, nil).Once()

	marked, err := service.MarkNoShows(ctx)

	assert.NoError(t, err)
	assert.Empty(t, marked)

	m.rooms.AssertNotCalled(t, "ReleaseUnit")
	m.producer.AssertNotCalled(t, "Publish")
}

func TestBookingService_QuoteStay(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	checkIn := time.Now().UTC().AddDate(0, 0, 7)
	m.rooms.On("GetByID", ctx, int64(7)).Return(testRoom(), nil).Once()

	result, err := service.QuoteStay(ctx, QuoteInput{
		RoomID:       7,
		CheckIn:      checkIn,
		CheckOut:     checkIn.AddDate(0, 0, 3),
		DiscountCode: "EARLYBIRD",
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, result.Quote.Nights)
	assert.Equal(t, int64(7_500_000), result.Quote.SubtotalCents)
	assert.Equal(t, int64(1_500_000), result.Quote.DiscountCents)
	assert.Equal(t, "LKR", result.Currency)
}

func TestBookingService_QuoteStay_InvalidRange(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	checkIn := time.Now().UTC().AddDate(0, 0, 7)
	m.rooms.On("GetByID", ctx, int64(7)).Return(testRoom(), nil).Once()

	result, err := service.QuoteStay(ctx, QuoteInput{
		RoomID:   7,
		CheckIn:  checkIn,
		CheckOut: checkIn,
	})

	assert.Nil(t, result)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 1)
}
