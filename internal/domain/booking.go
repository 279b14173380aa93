package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

type BookingSource string

const (
	BookingSourceOnline BookingSource = "ONLINE"
	BookingSourcePhone  BookingSource = "PHONE"
	BookingSourceWalkIn BookingSource = "WALK_IN"
	BookingSourceAgent  BookingSource = "AGENT"
)

func (s BookingSource) IsValid() bool {
	switch s {
	case BookingSourceOnline, BookingSourcePhone, BookingSourceWalkIn, BookingSourceAgent:
		return true
	}
	return false
}

type Guest struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type Booking struct {
	ID              int64
	Reference       string
	RoomID          int64
	Guest           Guest
	CheckIn         time.Time
	CheckOut        time.Time
	Adults          int
	Children        int
	SpecialRequests string
	Nights          int
	SubtotalCents   int64
	DiscountCents   int64
	TaxesCents      int64
	TotalCents      int64
	PaidCents       int64
	BalanceDueCents int64
	Currency        string
	PaymentStatus   PaymentStatus
	Status          BookingStatus
	Source          BookingSource
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
