package ui

import (
	"errors"

	"library-web/internal/model"
)

type ReviewStage int

const (
	NoBookSelected ReviewStage = iota
	BookSelected
	RatingChosen
)

func (s ReviewStage) String() string {
	switch s {
	case BookSelected:
		return "book_selected"
	case RatingChosen:
		return "rating_chosen"
	default:
		return "no_book_selected"
	}
}

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Hints shown when a review cannot be submitted yet.
var (
	HintNoBook        = &HintError{Code: "no_book", Message: "Select a book to review first"}
	HintNotLoggedIn   = &HintError{Code: "not_authenticated", Message: "Log in to leave a review"}
	HintChooseRating  = &HintError{Code: "no_rating", Message: "Choose a rating first"}
	HintLibrarianOnly = &HintError{Code: "librarian_only", Message: "Only librarians can do this"}
)

// HintError is a precondition failure caught before any request is sent.
type HintError struct {
	Code    string
	Message string
}

func (e *HintError) Error() string { return e.Message }

// ReviewSelection tracks which book is targeted for review entry.
// Selecting another book resets rating and comment.
type ReviewSelection struct {
	BookID  string
	Rating  int
	Comment string
}

func (r ReviewSelection) Stage() ReviewStage {
	switch {
	case r.BookID == "":
		return NoBookSelected
	case r.Rating > 0:
		return RatingChosen
	default:
		return BookSelected
	}
}

func (r *ReviewSelection) Select(bookID string) {
	*r = ReviewSelection{BookID: bookID}
}

func (r *ReviewSelection) ChooseRating(n int) error {
	if r.BookID == "" {
		return HintNoBook
	}
	if n < model.MinRating || n > model.MaxRating {
		return ErrInvalidRating
	}
	r.Rating = n
	return nil
}

// Validate returns the first missing precondition for submission.
func (r ReviewSelection) Validate(authenticated bool) error {
	if r.BookID == "" {
		return HintNoBook
	}
	if !authenticated {
		return HintNotLoggedIn
	}
	if r.Rating == 0 {
		return HintChooseRating
	}
	return nil
}

// Submitted returns to BookSelected for the same book.
func (r *ReviewSelection) Submitted() {
	r.Rating = 0
	r.Comment = ""
}
