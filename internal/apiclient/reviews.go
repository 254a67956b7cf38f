package apiclient

import (
	"context"
	"net/http"

	"library-web/internal/model"
)

// ListReviews returns a book's reviews with their average rating.
func (c *Client) ListReviews(ctx context.Context, bookID string) (*model.ReviewList, error) {
	var out model.ReviewList
	if err := c.do(ctx, http.MethodGet, "/books/"+pathID(bookID)+"/reviews", nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []model.Review{}
	}
	return &out, nil
}

// SubmitReview posts a rating and comment for the book.
func (c *Client) SubmitReview(ctx context.Context, bookID string, in model.ReviewInput) (*model.Review, error) {
	var out model.Review
	if err := c.do(ctx, http.MethodPost, "/books/"+pathID(bookID)+"/reviews", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteReview removes a review. The backend only allows librarians.
func (c *Client) DeleteReview(ctx context.Context, reviewID string) error {
	return c.do(ctx, http.MethodDelete, "/books/reviews/"+pathID(reviewID), nil, nil, nil)
}

// Health succeeds when the backend answers GET /health with a 2xx.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}
