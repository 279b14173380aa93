package email

import (
	"context"
	"fmt"

	"github.com/mperera91/hotelbooking/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("send email to %s about %s for booking %s (%s to %s)\n",
		event.Email, event.Type, event.Reference,
		event.CheckIn.Format("2006-01-02"), event.CheckOut.Format("2006-01-02"))
	return nil
}
