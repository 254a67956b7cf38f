package model

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        string `json:"id"`
	BookID    string `json:"book_id,omitempty"`
	UserEmail string `json:"user_email"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ReviewList carries the server-computed aggregate as-is.
type ReviewList struct {
	AverageRating float64  `json:"average_rating"`
	Count         int      `json:"count"`
	Items         []Review `json:"items"`
}

type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
