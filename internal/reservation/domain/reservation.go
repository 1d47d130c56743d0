package domain

import "time"

// Reservation is a booked stay. UserID is always the authenticated
// principal; clients cannot create reservations on behalf of other users.
type Reservation struct {
	ID        string
	UserID    string
	PlaceID   string
	InvoiceID string
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
