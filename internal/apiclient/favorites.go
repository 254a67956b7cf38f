package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"

	"library-web/internal/model"
)

// AddFavorite adds the book to the caller's favorites.
func (c *Client) AddFavorite(ctx context.Context, bookID string) error {
	return c.do(ctx, http.MethodPost, "/favorites/me", nil, bookRef{BookID: bookID}, nil)
}

// favoriteItem is either an expanded book or a bare {book_id} reference.
type favoriteItem struct {
	model.Book
	BookID string `json:"book_id"`
}

// ListFavorites accepts both a bare array and an {items: [...]} envelope.
// Unexpanded entries become books carrying only their ID.
func (c *Client) ListFavorites(ctx context.Context, expand bool) ([]model.Book, error) {
	var params url.Values
	if expand {
		params = url.Values{"expand": {"true"}}
	}

	var raw jsoniter.RawMessage
	if err := c.do(ctx, http.MethodGet, "/favorites/me", params, nil, &raw); err != nil {
		return nil, err
	}

	var items []favoriteItem
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0:
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode favorites: %w", err)
		}
	default:
		var envelope struct {
			Items []favoriteItem `json:"items"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decode favorites: %w", err)
		}
		items = envelope.Items
	}

	books := make([]model.Book, 0, len(items))
	for _, it := range items {
		b := it.Book
		if b.ID == "" {
			b.ID = it.BookID
		}
		books = append(books, b)
	}
	return books, nil
}

// RemoveFavorite removes one book from the caller's favorites.
func (c *Client) RemoveFavorite(ctx context.Context, bookID string) error {
	return c.do(ctx, http.MethodDelete, "/favorites/me/"+pathID(bookID), nil, nil, nil)
}

// ClearFavorites removes every favorite of the caller.
func (c *Client) ClearFavorites(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/favorites/me", nil, nil, nil)
}

// CountFavorites returns how many favorites the caller has.
func (c *Client) CountFavorites(ctx context.Context) (int, error) {
	var out model.FavoriteCount
	if err := c.do(ctx, http.MethodGet, "/favorites/me/count", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
