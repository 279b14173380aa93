package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mperera91/hotelbooking/internal/domain"
)

const bookingColumns = `id, reference, room_id, guest_name, guest_email, guest_phone, guest_address,
	check_in, check_out, adults, children, special_requests,
	nights, subtotal_cents, discount_cents, taxes_cents, total_cents, paid_cents, balance_due_cents, currency,
	payment_status, status, source, created_at, updated_at`

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, reference string, status domain.BookingStatus) (*domain.Booking, error)
	MarkNoShowsBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// Create inserts the booking and takes one unit off the room inside a single
// transaction so a full room can never be double-booked.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var available int
	if err := tx.QueryRow(ctx, `UPDATE rooms SET available_units = available_units - 1, updated_at = now() WHERE id=$1 AND available_units > 0 RETURNING available_units`, booking.RoomID).Scan(&available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errors.New("no available units")
		}
		return err
	}

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (reference, room_id, guest_name, guest_email, guest_phone, guest_address,
			check_in, check_out, adults, children, special_requests,
			nights, subtotal_cents, discount_cents, taxes_cents, total_cents, paid_cents, balance_due_cents, currency,
			payment_status, status, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING id, created_at, updated_at`,
		booking.Reference, booking.RoomID, booking.Guest.Name, booking.Guest.Email, booking.Guest.Phone, booking.Guest.Address,
		booking.CheckIn, booking.CheckOut, booking.Adults, booking.Children, booking.SpecialRequests,
		booking.Nights, booking.SubtotalCents, booking.DiscountCents, booking.TaxesCents, booking.TotalCents, booking.PaidCents, booking.BalanceDueCents, booking.Currency,
		booking.PaymentStatus, booking.Status, booking.Source).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE reference=$1`, reference)
	return scanBooking(row)
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, reference string, status domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE reference=$2 RETURNING `+bookingColumns, status, reference)
	return scanBooking(row)
}

// MarkNoShowsBefore flips confirmed bookings whose check-in day has fully
// elapsed to NO_SHOW and returns them. Check-in dates are stored at midnight,
// so deadline is the start of the current day.
func (r *PGBookingRepository) MarkNoShowsBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE status=$2 AND check_in < $3 RETURNING `+bookingColumns,
		domain.BookingStatusNoShow, domain.BookingStatusConfirmed, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var marked []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		marked = append(marked, *b)
	}
	return marked, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.Reference, &b.RoomID, &b.Guest.Name, &b.Guest.Email, &b.Guest.Phone, &b.Guest.Address,
		&b.CheckIn, &b.CheckOut, &b.Adults, &b.Children, &b.SpecialRequests,
		&b.Nights, &b.SubtotalCents, &b.DiscountCents, &b.TaxesCents, &b.TotalCents, &b.PaidCents, &b.BalanceDueCents, &b.Currency,
		&b.PaymentStatus, &b.Status, &b.Source, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
