package apiclient

import (
	"context"
	"net/http"

	"library-web/internal/model"
)

type bookRef struct {
	BookID string `json:"book_id"`
}

// Reserve creates a reservation for one copy of the book.
func (c *Client) Reserve(ctx context.Context, bookID string) (*model.Reservation, error) {
	var out model.Reservation
	if err := c.do(ctx, http.MethodPost, "/reservations/", nil, bookRef{BookID: bookID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyReservations lists the caller's reservations.
func (c *Client) MyReservations(ctx context.Context) ([]model.Reservation, error) {
	var out []model.Reservation
	if err := c.do(ctx, http.MethodGet, "/reservations/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelReservation cancels one reservation by ID.
func (c *Client) CancelReservation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/reservations/"+pathID(id), nil, nil, nil)
}

// ClearReservations cancels all of the caller's reservations.
func (c *Client) ClearReservations(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/reservations/clear/all", nil, nil, nil)
}

// Reminders lists reservations that end within the backend's reminder window.
func (c *Client) Reminders(ctx context.Context) ([]model.Reminder, error) {
	var out []model.Reminder
	if err := c.do(ctx, http.MethodGet, "/reminders/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
