package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mperera91/hotelbooking/internal/service/booking"
	"github.com/mperera91/hotelbooking/internal/stay"
)

type QuoteHandler struct {
	service booking.BookingUseCase
}

type quoteRequest struct {
	RoomID       int64  `json:"room_id"`
	CheckIn      string `json:"check_in"`
	CheckOut     string `json:"check_out"`
	DiscountCode string `json:"discount_code"`
	PaidCents    int64  `json:"paid_cents"`
}

type quoteResponse struct {
	Nights          int               `json:"nights"`
	SubtotalCents   int64             `json:"subtotal_cents"`
	DiscountCents   int64             `json:"discount_cents"`
	TaxesCents      int64             `json:"taxes_cents"`
	TotalCents      int64             `json:"total_cents"`
	PaidCents       int64             `json:"paid_cents"`
	BalanceDueCents int64             `json:"balance_due_cents"`
	Currency        string            `json:"currency"`
	Adjustments     []stay.FieldError `json:"adjustments,omitempty"`
}

func NewQuoteHandler(service booking.BookingUseCase) *QuoteHandler {
	return &QuoteHandler{service: service}
}

func (h *QuoteHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
}

// create prices a prospective stay without creating anything. Forms call it
// whenever dates, discount code or payments change.
func (h *QuoteHandler) create(c *gin.Context) {
	var req quoteRequest
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

	result, err := h.service.QuoteStay(c.Request.Context(), booking.QuoteInput{
		RoomID:       req.RoomID,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		DiscountCode: req.DiscountCode,
		PaidCents:    req.PaidCents,
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

	c.JSON(http.StatusOK, quoteResponse{
		Nights:          result.Quote.Nights,
		SubtotalCents:   result.Quote.SubtotalCents,
		DiscountCents:   result.Quote.DiscountCents,
		TaxesCents:      result.Quote.TaxesCents,
		TotalCents:      result.Quote.TotalCents,
		PaidCents:       result.Quote.PaidCents,
		BalanceDueCents: result.Quote.BalanceDueCents,
		Currency:        result.Currency,
		Adjustments:     result.Adjustments,
	})
}
