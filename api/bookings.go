package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mperera91/hotelbooking/internal/domain"
	"github.com/mperera91/hotelbooking/internal/service/booking"
	"github.com/mperera91/hotelbooking/internal/stay"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	RoomID          int64  `json:"room_id"`
	GuestName       string `json:"guest_name"`
	GuestEmail      string `json:"guest_email"`
	GuestPhone      string `json:"guest_phone"`
	GuestAddress    string `json:"guest_address"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Adults          int    `json:"adults"`
	Children        int    `json:"children"`
	SpecialRequests string `json:"special_requests"`
	DiscountCode    string `json:"discount_code"`
	PaidCents       int64  `json:"paid_cents"`
	Source          string `json:"source"`
}

type bookingResponse struct {
	Reference       string            `json:"reference"`
	RoomID          int64             `json:"room_id"`
	GuestName       string            `json:"guest_name"`
	GuestEmail      string            `json:"guest_email"`
	CheckIn         string            `json:"check_in"`
	CheckOut        string            `json:"check_out"`
	Adults          int               `json:"adults"`
	Children        int               `json:"children"`
	Nights          int               `json:"nights"`
	SubtotalCents   int64             `json:"subtotal_cents"`
	DiscountCents   int64             `json:"discount_cents"`
	TaxesCents      int64             `json:"taxes_cents"`
	TotalCents      int64             `json:"total_cents"`
	PaidCents       int64             `json:"paid_cents"`
	BalanceDueCents int64             `json:"balance_due_cents"`
	Currency        string            `json:"currency"`
	PaymentStatus   string            `json:"payment_status"`
	Status          string            `json:"status"`
	Source          string            `json:"source"`
	Adjustments     []stay.FieldError `json:"adjustments,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:reference", h.get)
	router.POST("/:reference/confirm", h.confirm)
	router.POST("/:reference/cancel", h.cancel)
	router.POST("/:reference/check-in", h.checkIn)
	router.POST("/:reference/check-out", h.checkOut)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must be YYYY-MM-DD"})
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be YYYY-MM-DD"})
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		RoomID:          req.RoomID,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		GuestAddress:    req.GuestAddress,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Adults:          req.Adults,
		Children:        req.Children,
		SpecialRequests: req.SpecialRequests,
		DiscountCode:    req.DiscountCode,
		PaidCents:       req.PaidCents,
		Source:          domain.BookingSource(req.Source),
	})
	if err != nil {
		var verr *booking.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Fields})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := toBookingResponse(result.Booking)
	resp.Adjustments = result.Adjustments
	c.JSON(http.StatusCreated, resp)
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("reference"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) confirm(c *gin.Context) {
	h.transition(c, h.service.ConfirmBooking)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	h.transition(c, h.service.CancelBooking)
}

func (h *BookingHandler) checkIn(c *gin.Context) {
	h.transition(c, h.service.CheckInBooking)
}

func (h *BookingHandler) checkOut(c *gin.Context) {
	h.transition(c, h.service.CheckOutBooking)
}

func (h *BookingHandler) transition(c *gin.Context, fn func(ctx context.Context, reference string) (*domain.Booking, error)) {
	b, err := fn(c.Request.Context(), c.Param("reference"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatusTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		Reference:       b.Reference,
		RoomID:          b.RoomID,
		GuestName:       b.Guest.Name,
		GuestEmail:      b.Guest.Email,
		CheckIn:         b.CheckIn.Format("2006-01-02"),
		CheckOut:        b.CheckOut.Format("2006-01-02"),
		Adults:          b.Adults,
		Children:        b.Children,
		Nights:          b.Nights,
		SubtotalCents:   b.SubtotalCents,
		DiscountCents:   b.DiscountCents,
		TaxesCents:      b.TaxesCents,
		TotalCents:      b.TotalCents,
		PaidCents:       b.PaidCents,
		BalanceDueCents: b.BalanceDueCents,
		Currency:        b.Currency,
		PaymentStatus:   string(b.PaymentStatus),
		Status:          string(b.Status),
		Source:          string(b.Source),
	}
}

// parseDate accepts an empty string as a missing date so the core validator
// can report it as MISSING_DATE instead of the transport rejecting it.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}
