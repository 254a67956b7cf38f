package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"library-web/internal/model"
)

// ListBooks fetches the catalog. A free-text query switches to the search
// endpoint; genres are sent as repeated parameters.
func (c *Client) ListBooks(ctx context.Context, q model.BookQuery) ([]model.Book, error) {
	path := "/books/"
	params := url.Values{}
	if q.Query != "" {
		path = "/books/search"
		params.Set("query", q.Query)
	}
	if q.AvailableOnly {
		params.Set("available_only", "true")
	}
	for _, g := range q.Genres {
		params.Add("genres", g)
	}

	var books []model.Book
	if err := c.do(ctx, http.MethodGet, path, params, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook fetches one book by ID.
func (c *Client) GetBook(ctx context.Context, id string) (*model.Book, error) {
	var book model.Book
	if err := c.do(ctx, http.MethodGet, "/books/"+pathID(id), nil, nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateBook sends a librarian edit and returns the stored book.
func (c *Client) UpdateBook(ctx context.Context, id string, update model.BookUpdate) (*model.Book, error) {
	var book model.Book
	if err := c.do(ctx, http.MethodPut, "/books/"+pathID(id), nil, update, &book); err != nil {
		return nil, err
	}
	return &book, nil
}
