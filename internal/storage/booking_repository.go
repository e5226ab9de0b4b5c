package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/daybook-app/daybook/internal/booking"
	"github.com/daybook-app/daybook/internal/db"
	"github.com/daybook-app/daybook/internal/model"
)

const bookingColumns = "id, day::text, name, phone, notes, created_at"

type BookingRepository struct {
	pool     *db.Pool
	capacity int
}

func NewBookingRepository(pool *db.Pool, capacity int) *BookingRepository {
	if capacity <= 0 {
		capacity = booking.DefaultCapacity
	}
	return &BookingRepository{pool: pool, capacity: capacity}
}

// CreateBooking inserts a booking for day inside a transaction that holds a
// per-day advisory lock across the capacity check and the insert, so two
// concurrent reservations can never both observe a free slot when only one
// remains. The remaining count is recomputed after the insert.
func (r *BookingRepository) CreateBooking(ctx context.Context, day, name string, phone, notes *string) (model.Booking, int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Booking{}, 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serializes same-day creations; different days never contend.
	if _, err := tx.Exec(ctx, `
		SELECT pg_advisory_xact_lock(hashtextextended('daybook:day:' || $1, 0))
	`, day); err != nil {
		return model.Booking{}, 0, err
	}

	var count int
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings WHERE day = $1::date
	`, day).Scan(&count); err != nil {
		return model.Booking{}, 0, err
	}
	if count >= r.capacity {
		return model.Booking{}, 0, booking.ErrCapacityExceeded
	}

	b := model.Booking{Day: day, Name: name, Phone: phone, Notes: notes}
	if err := tx.QueryRow(ctx, `
		INSERT INTO bookings (day, name, phone, notes)
		VALUES ($1::date, $2, $3, $4)
		RETURNING id, created_at
	`, day, name, phone, notes).Scan(&b.ID, &b.CreatedAt); err != nil {
		return model.Booking{}, 0, err
	}

	var after int
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings WHERE day = $1::date
	`, day).Scan(&after); err != nil {
		return model.Booking{}, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Booking{}, 0, err
	}
	return b, r.capacity - after, nil
}

func (r *BookingRepository) ListBookingsByDay(ctx context.Context, day string) ([]model.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE day = $1::date
		ORDER BY id ASC
	`, day)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}

func (r *BookingRepository) UpdateBooking(ctx context.Context, id int64, patch booking.Patch) (model.Booking, error) {
	set := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if patch.Name != nil {
		args = append(args, *patch.Name)
		set = append(set, fmt.Sprintf("name = $%d", len(args)))
	}
	if patch.SetPhone {
		args = append(args, patch.Phone)
		set = append(set, fmt.Sprintf("phone = $%d", len(args)))
	}
	if patch.SetNotes {
		args = append(args, patch.Notes)
		set = append(set, fmt.Sprintf("notes = $%d", len(args)))
	}
	args = append(args, id)

	var b model.Booking
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE bookings
		SET %s
		WHERE id = $%d
		RETURNING `+bookingColumns,
		strings.Join(set, ", "), len(args)), args...).Scan(
		&b.ID, &b.Day, &b.Name, &b.Phone, &b.Notes, &b.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Booking{}, booking.ErrNotFound
	}
	if err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepository) DeleteBooking(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrNotFound
	}
	return nil
}

func (r *BookingRepository) SearchBookings(ctx context.Context, pattern string, from, to *time.Time) ([]model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE name ILIKE '%' || $1 || '%'`
	args := []any{escapeLike(pattern)}
	if from != nil && to != nil {
		// Bound as date strings so the comparison never routes through the
		// session timezone.
		query += ` AND day >= $2::date AND day < $3::date`
		args = append(args, from.UTC().Format(booking.DayFormat), to.UTC().Format(booking.DayFormat))
	}
	query += ` ORDER BY day ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}

func (r *BookingRepository) ListBookingsInRange(ctx context.Context, from, to time.Time) ([]model.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE day >= $1::date AND day < $2::date
		ORDER BY day ASC, id ASC
	`, from.UTC().Format(booking.DayFormat), to.UTC().Format(booking.DayFormat))
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}

func scanBookings(rows pgx.Rows) ([]model.Booking, error) {
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.Day, &b.Name, &b.Phone, &b.Notes, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// escapeLike neutralizes LIKE metacharacters so the pattern matches as a
// literal substring.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
