package model

type Book struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	ISBN          string   `json:"isbn"`
	Description   string   `json:"description,omitempty"`
	PublishedYear *int     `json:"published_year,omitempty"`
	Genres        []string `json:"genres"`
	TotalCopies   int      `json:"total_copies"`
	ReservedCount int      `json:"reserved_count"`
	CoverImage    string   `json:"cover_image,omitempty"`
	IsAvailable   *bool    `json:"is_available,omitempty"`
}

// Available returns the number of copies that can still be reserved.
// The backend guarantees it never goes below zero; the client only reads it.
func (b *Book) Available() int {
	return b.TotalCopies - b.ReservedCount
}

// CanReserve reports whether the reserve control should be enabled.
// An is_available flag can only disable it further.
func (b *Book) CanReserve() bool {
	if b.IsAvailable != nil && !*b.IsAvailable {
		return false
	}
	return b.Available() > 0
}

// BookUpdate is the librarian edit payload. Nil fields are left out of the
// request so the backend keeps their current values.
type BookUpdate struct {
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   *string   `json:"description,omitempty"`
	PublishedYear *int      `json:"published_year,omitempty"`
	Genres        *[]string `json:"genres,omitempty"`
	CoverImage    *string   `json:"cover_image,omitempty"`
	TotalCopies   *int      `json:"total_copies,omitempty"`
}

// BookQuery selects which part of the catalog to list.
type BookQuery struct {
	AvailableOnly bool
	Genres        []string
	Query         string // free-text search, switches to /books/search
}
