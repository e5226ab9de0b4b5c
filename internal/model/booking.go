package model

import "time"

// Booking is a reserved slot for a named client on a business day.
// Day is a UTC calendar date in YYYY-MM-DD form, always Monday-Friday.
// Phone and Notes are nil when the client left them blank.
type Booking struct {
	ID        int64
	Day       string
	Name      string
	Phone     *string
	Notes     *string
	CreatedAt time.Time
}
