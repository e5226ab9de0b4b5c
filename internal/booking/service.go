package booking

import (
	"context"
	"strings"
	"time"

	"github.com/daybook-app/daybook/internal/model"
)

// DefaultCapacity is the fixed number of bookings a single day can hold.
const DefaultCapacity = 10

// Store is the persistence boundary of the booking core. CreateBooking must
// make its capacity check and insert atomic with respect to concurrent
// creations on the same day, and returns the slots remaining after the
// insert committed. Implementations report full days with ErrCapacityExceeded
// and missing ids with ErrNotFound.
type Store interface {
	CreateBooking(ctx context.Context, day, name string, phone, notes *string) (model.Booking, int, error)
	ListBookingsByDay(ctx context.Context, day string) ([]model.Booking, error)
	UpdateBooking(ctx context.Context, id int64, patch Patch) (model.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
	SearchBookings(ctx context.Context, pattern string, from, to *time.Time) ([]model.Booking, error)
	ListBookingsInRange(ctx context.Context, from, to time.Time) ([]model.Booking, error)
}

// Patch carries the validated, tri-state field updates for a booking.
// A nil Name leaves the name unchanged; SetPhone/SetNotes distinguish
// "unchanged" from "cleared".
type Patch struct {
	Name     *string
	SetPhone bool
	Phone    *string
	SetNotes bool
	Notes    *string
}

func (p Patch) Empty() bool {
	return p.Name == nil && !p.SetPhone && !p.SetNotes
}

type CreateInput struct {
	Day   string         `json:"day"`
	Name  OptionalString `json:"name"`
	Phone OptionalString `json:"phone"`
	Notes OptionalString `json:"notes"`
}

type UpdateInput struct {
	Name  OptionalString `json:"name"`
	Phone OptionalString `json:"phone"`
	Notes OptionalString `json:"notes"`
}

// ClientEntry is one booking inside a monthly summary day group. Blank
// phone/notes render as empty strings rather than nulls.
type ClientEntry struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

type DaySummary struct {
	Day     string        `json:"day"`
	Count   int           `json:"count"`
	Clients []ClientEntry `json:"clients"`
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create validates the request, then delegates the capacity-checked insert
// to the store. remaining is the number of free slots left on the day after
// this booking, computed post-insert so concurrent writers never skew it.
func (s *Service) Create(ctx context.Context, in CreateInput) (model.Booking, int, error) {
	day, err := ValidateDay(strings.TrimSpace(in.Day))
	if err != nil {
		return model.Booking{}, 0, err
	}
	name, err := ValidateName(in.Name)
	if err != nil {
		return model.Booking{}, 0, err
	}
	return s.store.CreateBooking(ctx, day, name, NormalizeContact(in.Phone), NormalizeContact(in.Notes))
}

// ListDay returns all bookings for an exact day, insertion order.
func (s *Service) ListDay(ctx context.Context, day string) ([]model.Booking, error) {
	day = strings.TrimSpace(day)
	if day == "" {
		return nil, newError(KindMissingParameter, "day", "day is required")
	}
	// Impossible dates must be rejected here: the Postgres store casts the
	// value to a date, and a failed cast would surface as a store fault
	// instead of an input error.
	if _, err := parseDay(day); err != nil {
		return nil, err
	}
	return s.store.ListBookingsByDay(ctx, day)
}

// Update applies the provided fields to an existing booking. Day is
// immutable; at least one field must be present.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (model.Booking, error) {
	if id <= 0 {
		return model.Booking{}, newError(KindInvalidID, "id", "id must be a positive integer")
	}

	var patch Patch
	if in.Name.Set {
		name, err := ValidateName(in.Name)
		if err != nil {
			return model.Booking{}, err
		}
		patch.Name = &name
	}
	if in.Phone.Set {
		patch.SetPhone = true
		patch.Phone = NormalizeContact(in.Phone)
	}
	if in.Notes.Set {
		patch.SetNotes = true
		patch.Notes = NormalizeContact(in.Notes)
	}
	if patch.Empty() {
		return model.Booking{}, newError(KindNoChanges, "", "at least one of name, phone, notes must be provided")
	}

	return s.store.UpdateBooking(ctx, id, patch)
}

// Delete removes a booking, freeing its day slot for future creations.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return newError(KindInvalidID, "id", "id must be a positive integer")
	}
	return s.store.DeleteBooking(ctx, id)
}

// Search finds bookings whose name contains pattern (case-insensitive),
// optionally restricted to a calendar year or a single month of it.
// Results are ordered by day ascending, then id ascending.
func (s *Service) Search(ctx context.Context, pattern string, year, month *int) ([]model.Booking, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, newError(KindMissingParameter, "name", "name is required")
	}

	var from, to *time.Time
	switch {
	case year != nil && month != nil:
		if *month < 1 || *month > 12 {
			return nil, newError(KindInvalidDate, "month", "month must be between 1 and 12")
		}
		f, t := MonthRange(*year, time.Month(*month))
		from, to = &f, &t
	case year != nil:
		f, t := YearRange(*year)
		from, to = &f, &t
	case month != nil:
		return nil, newError(KindMissingParameter, "year", "month requires year")
	}

	return s.store.SearchBookings(ctx, pattern, from, to)
}

// Summary groups the month's bookings by day. Days without bookings are
// omitted; day groups ascend by day and clients ascend by id.
func (s *Service) Summary(ctx context.Context, year, month int) ([]DaySummary, error) {
	if month < 1 || month > 12 {
		return nil, newError(KindInvalidDate, "month", "month must be between 1 and 12")
	}
	from, to := MonthRange(year, time.Month(month))

	// The store returns the range ordered by day then id, so grouping is a
	// single pass.
	rows, err := s.store.ListBookingsInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	summaries := make([]DaySummary, 0)
	for _, b := range rows {
		entry := ClientEntry{ID: b.ID, Name: b.Name}
		if b.Phone != nil {
			entry.Phone = *b.Phone
		}
		if b.Notes != nil {
			entry.Notes = *b.Notes
		}
		if n := len(summaries); n > 0 && summaries[n-1].Day == b.Day {
			summaries[n-1].Clients = append(summaries[n-1].Clients, entry)
			summaries[n-1].Count++
			continue
		}
		summaries = append(summaries, DaySummary{
			Day:     b.Day,
			Count:   1,
			Clients: []ClientEntry{entry},
		})
	}
	return summaries, nil
}
