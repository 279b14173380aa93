package domain

import (
	"errors"
	"fmt"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusCheckedIn  BookingStatus = "CHECKED_IN"
	BookingStatusCheckedOut BookingStatus = "CHECKED_OUT"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
	BookingStatusNoShow     BookingStatus = "NO_SHOW"
)

var ErrInvalidStatusTransition = errors.New("invalid status transition")

// statusTransitions is the single authoritative transition table. Every
// caller that moves a booking between states goes through ValidateTransition.
var statusTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:  {BookingStatusCheckedIn, BookingStatusCancelled, BookingStatusNoShow},
	BookingStatusCheckedIn:  {BookingStatusCheckedOut},
	BookingStatusCheckedOut: {},
	BookingStatusCancelled:  {},
	BookingStatusNoShow:     {},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

func ValidateTransition(from, to BookingStatus) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%s -> %s: %w", from, to, ErrInvalidStatusTransition)
	}
	return nil
}

// InitialStatus returns the status a fresh booking starts in. Staff-created
// bookings are confirmed on the spot, online ones wait for confirmation.
func InitialStatus(source BookingSource) BookingStatus {
	if source == BookingSourceOnline {
		return BookingStatusPending
	}
	return BookingStatusConfirmed
}
