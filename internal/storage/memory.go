package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/daybook-app/daybook/internal/booking"
	"github.com/daybook-app/daybook/internal/model"
)

// MemStore is an in-memory booking.Store with the same capacity and ordering
// semantics as the Postgres repository. It backs tests so the service and
// handlers can run without a database.
type MemStore struct {
	mu       sync.Mutex
	capacity int
	nextID   int64
	bookings map[int64]model.Booking
}

func NewMemStore(capacity int) *MemStore {
	if capacity <= 0 {
		capacity = booking.DefaultCapacity
	}
	return &MemStore{
		capacity: capacity,
		bookings: make(map[int64]model.Booking),
	}
}

func (m *MemStore) CreateBooking(_ context.Context, day, name string, phone, notes *string) (model.Booking, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, b := range m.bookings {
		if b.Day == day {
			count++
		}
	}
	if count >= m.capacity {
		return model.Booking{}, 0, booking.ErrCapacityExceeded
	}

	m.nextID++
	b := model.Booking{
		ID:        m.nextID,
		Day:       day,
		Name:      name,
		Phone:     copyOf(phone),
		Notes:     copyOf(notes),
		CreatedAt: time.Now().UTC(),
	}
	m.bookings[b.ID] = b
	return b, m.capacity - (count + 1), nil
}

func (m *MemStore) ListBookingsByDay(_ context.Context, day string) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Booking
	for _, b := range m.bookings {
		if b.Day == day {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) UpdateBooking(_ context.Context, id int64, patch booking.Patch) (model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return model.Booking{}, booking.ErrNotFound
	}
	if patch.Name != nil {
		b.Name = *patch.Name
	}
	if patch.SetPhone {
		b.Phone = copyOf(patch.Phone)
	}
	if patch.SetNotes {
		b.Notes = copyOf(patch.Notes)
	}
	m.bookings[id] = b
	return b, nil
}

func (m *MemStore) DeleteBooking(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.bookings[id]; !ok {
		return booking.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *MemStore) SearchBookings(_ context.Context, pattern string, from, to *time.Time) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(pattern)
	var fromDay, toDay string
	if from != nil && to != nil {
		fromDay = from.UTC().Format(booking.DayFormat)
		toDay = to.UTC().Format(booking.DayFormat)
	}

	var out []model.Booking
	for _, b := range m.bookings {
		if !strings.Contains(strings.ToLower(b.Name), needle) {
			continue
		}
		// Day strings in YYYY-MM-DD order lexicographically.
		if fromDay != "" && (b.Day < fromDay || b.Day >= toDay) {
			continue
		}
		out = append(out, b)
	}
	sortByDayThenID(out)
	return out, nil
}

func (m *MemStore) ListBookingsInRange(_ context.Context, from, to time.Time) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fromDay := from.UTC().Format(booking.DayFormat)
	toDay := to.UTC().Format(booking.DayFormat)

	var out []model.Booking
	for _, b := range m.bookings {
		if b.Day >= fromDay && b.Day < toDay {
			out = append(out, b)
		}
	}
	sortByDayThenID(out)
	return out, nil
}

func sortByDayThenID(bs []model.Booking) {
	sort.Slice(bs, func(i, j int) bool {
		if bs[i].Day != bs[j].Day {
			return bs[i].Day < bs[j].Day
		}
		return bs[i].ID < bs[j].ID
	})
}

func copyOf(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
