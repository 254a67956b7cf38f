package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ReviewSelection_Transitions(t *testing.T) {
	var r ReviewSelection
	assert.Equal(t, NoBookSelected, r.Stage())
	assert.ErrorIs(t, r.ChooseRating(3), HintNoBook)

	r.Select("b1")
	assert.Equal(t, BookSelected, r.Stage())

	assert.NoError(t, r.ChooseRating(3))
	r.Comment = "draft"
	assert.Equal(t, RatingChosen, r.Stage())

	r.Select("b2")
	assert.Equal(t, ReviewSelection{BookID: "b2"}, r)

	assert.NoError(t, r.ChooseRating(5))
	r.Submitted()
	assert.Equal(t, BookSelected, r.Stage())
	assert.Equal(t, "b2", r.BookID)
}

func Test_ReviewSelection_ValidateOrder(t *testing.T) {
	tests := []struct {
		name string
		sel  ReviewSelection
		auth bool
		want error
	}{
		{name: "no_book", sel: ReviewSelection{Rating: 3}, auth: false, want: HintNoBook},
		{name: "not_authenticated", sel: ReviewSelection{BookID: "b1"}, auth: false, want: HintNotLoggedIn},
		{name: "no_rating", sel: ReviewSelection{BookID: "b1"}, auth: true, want: HintChooseRating},
		{name: "ready", sel: ReviewSelection{BookID: "b1", Rating: 1}, auth: true, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sel.Validate(tt.auth)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func Test_ReviewStage_String(t *testing.T) {
	assert.Equal(t, "no_book_selected", NoBookSelected.String())
	assert.Equal(t, "book_selected", BookSelected.String())
	assert.Equal(t, "rating_chosen", RatingChosen.String())
}
