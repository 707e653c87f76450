package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/paraglide/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("booking not found")

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, code string, status domain.BookingStatus) (*domain.Booking, error)
	ExpirePendingBefore(ctx context.Context, day time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, code, location, guests_count, flight_date, time_slot, phone, email,
	pickup_location, special_request, addons_qty, total_vnd, language, status, created_at, updated_at`

// Create stores the booking and its guests in one transaction and fills ID and timestamps.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	addons, err := json.Marshal(booking.AddonsQty)
	if err != nil {
		return fmt.Errorf("encode addons: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	booking.Status = domain.BookingStatusPending
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (code, location, guests_count, flight_date, time_slot, phone, email,
		pickup_location, special_request, addons_qty, total_vnd, language, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		booking.Code, booking.Location, booking.GuestsCount, booking.FlightDate, booking.TimeSlot,
		booking.Contact.Phone, booking.Contact.Email, booking.Contact.PickupLocation, booking.Contact.SpecialRequest,
		addons, booking.TotalVND, booking.Language, booking.Status).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i, g := range booking.Guests {
		batch.Queue(`INSERT INTO booking_guests (booking_id, position, full_name, date_of_birth, gender, id_number, weight_kg, nationality)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			booking.ID, i, g.FullName, g.DateOfBirth, g.Gender, g.IDNumber, g.WeightKg, g.Nationality)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert guests: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE code=$1`, code)
	b, err := scanBooking(row)
	if err != nil {
		return nil, err
	}
	if b.Guests, err = r.guests(ctx, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, code string, status domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE code=$2 RETURNING `+bookingColumns, status, code)
	b, err := scanBooking(row)
	if err != nil {
		return nil, err
	}
	if b.Guests, err = r.guests(ctx, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

// ExpirePendingBefore marks pending bookings whose flight date is before day as expired.
func (r *PGBookingRepository) ExpirePendingBefore(ctx context.Context, day time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE status=$2 AND flight_date < $3 RETURNING `+bookingColumns,
		domain.BookingStatusExpired, domain.BookingStatusPending, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *b)
	}
	return expired, rows.Err()
}

func (r *PGBookingRepository) guests(ctx context.Context, bookingID int64) ([]domain.Guest, error) {
	rows, err := r.db.Query(ctx, `SELECT full_name, date_of_birth, gender, id_number, weight_kg, nationality
		FROM booking_guests WHERE booking_id=$1 ORDER BY position`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	guests := make([]domain.Guest, 0)
	for rows.Next() {
		var g domain.Guest
		if err := rows.Scan(&g.FullName, &g.DateOfBirth, &g.Gender, &g.IDNumber, &g.WeightKg, &g.Nationality); err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b      domain.Booking
		addons []byte
	)
	err := row.Scan(&b.ID, &b.Code, &b.Location, &b.GuestsCount, &b.FlightDate, &b.TimeSlot,
		&b.Contact.Phone, &b.Contact.Email, &b.Contact.PickupLocation, &b.Contact.SpecialRequest,
		&addons, &b.TotalVND, &b.Language, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b.AddonsQty = map[domain.Addon]int{}
	if len(addons) > 0 {
		if err := json.Unmarshal(addons, &b.AddonsQty); err != nil {
			return nil, fmt.Errorf("decode addons: %w", err)
		}
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
