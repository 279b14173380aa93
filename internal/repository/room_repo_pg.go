package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mperera91/hotelbooking/internal/domain"
)

type RoomRepository interface {
	List(ctx context.Context) ([]domain.Room, error)
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	ReserveUnit(ctx context.Context, roomID int64) error
	ReleaseUnit(ctx context.Context, roomID int64) error
}

type PGRoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) RoomRepository {
	return &PGRoomRepository{db: db}
}

func (r *PGRoomRepository) List(ctx context.Context) ([]domain.Room, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, capacity, nightly_rate_cents, currency, total_units, available_units, created_at, updated_at FROM rooms ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]domain.Room, 0)
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.Description, &room.Capacity, &room.NightlyRateCents, &room.Currency, &room.TotalUnits, &room.AvailableUnits, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (r *PGRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, description, capacity, nightly_rate_cents, currency, total_units, available_units, created_at, updated_at FROM rooms WHERE id=$1`, id)
	var room domain.Room
	if err := row.Scan(&room.ID, &room.Name, &room.Description, &room.Capacity, &room.NightlyRateCents, &room.Currency, &room.TotalUnits, &room.AvailableUnits, &room.CreatedAt, &room.UpdatedAt); err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *PGRoomRepository) ReserveUnit(ctx context.Context, roomID int64) error {
	res, err := r.db.Exec(ctx, `UPDATE rooms SET available_units = available_units - 1, updated_at = now() WHERE id=$1 AND available_units > 0`, roomID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errors.New("no available units")
	}
	return nil
}

func (r *PGRoomRepository) ReleaseUnit(ctx context.Context, roomID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE rooms SET available_units = available_units + 1, updated_at = now() WHERE id=$1`, roomID)
	return err
}

var _ RoomRepository = (*PGRoomRepository)(nil)
