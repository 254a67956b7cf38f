package model

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCancelled ReservationStatus = "cancelled"
)

type Reservation struct {
	ID        string            `json:"id"`
	BookID    string            `json:"book_id"`
	UserID    string            `json:"user_id,omitempty"`
	UserEmail string            `json:"user_email,omitempty"`
	Status    ReservationStatus `json:"status,omitempty"`
	CreatedAt string            `json:"created_at,omitempty"`
	FromDate  string            `json:"from_date,omitempty"`
	Until     string            `json:"until,omitempty"`
}

// Created returns whichever creation timestamp the backend sent.
func (r *Reservation) Created() string {
	if r.CreatedAt != "" {
		return r.CreatedAt
	}
	return r.FromDate
}

// Reminder is a reservation that ends within the backend's reminder window.
type Reminder struct {
	ReservationID string `json:"reservation_id"`
	BookTitle     string `json:"book_title"`
	DaysLeft      int    `json:"days_left"`
}
