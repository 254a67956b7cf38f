package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-web/internal/model"
)

func Test_BookForm_Payload_OmitsBlankAndInvalid(t *testing.T) {
	form := BookForm{
		Title:       " Dune ",
		Author:      "Herbert",
		Description: "  ",
		Year:        "19x5",
		Genres:      " , ",
		CoverImage:  "javascript:alert(1)",
		TotalCopies: "-2",
	}

	payload, err := form.Payload()
	require.NoError(t, err)
	assert.Equal(t, model.BookUpdate{Title: "Dune", Author: "Herbert"}, payload)
}

func Test_BookForm_Payload_AllFields(t *testing.T) {
	form := BookForm{
		Title:       "Dune",
		Author:      "Herbert",
		Description: "Spice",
		Year:        "1965",
		Genres:      "sf, classic,,",
		CoverImage:  "https://covers.example.com/dune.jpg",
		TotalCopies: "0",
	}

	payload, err := form.Payload()
	require.NoError(t, err)
	require.NotNil(t, payload.Description)
	assert.Equal(t, "Spice", *payload.Description)
	require.NotNil(t, payload.PublishedYear)
	assert.Equal(t, 1965, *payload.PublishedYear)
	require.NotNil(t, payload.Genres)
	assert.Equal(t, []string{"sf", "classic"}, *payload.Genres)
	require.NotNil(t, payload.CoverImage)
	require.NotNil(t, payload.TotalCopies)
	assert.Equal(t, 0, *payload.TotalCopies)
}

func Test_BookForm_Payload_RequiredFields(t *testing.T) {
	_, err := BookForm{Author: "Herbert"}.Payload()
	assert.ErrorIs(t, err, HintTitleRequired)

	_, err = BookForm{Title: "Dune"}.Payload()
	assert.ErrorIs(t, err, HintAuthorRequired)
}

func Test_FormFromBook_RoundTrip(t *testing.T) {
	year := 1965
	book := model.Book{ID: "b1", Title: "Dune", Author: "Herbert", PublishedYear: &year, Genres: []string{"sf", "classic"}, TotalCopies: 3}

	var e Editor
	e.Open(book)
	assert.True(t, e.IsOpen)
	assert.Equal(t, "b1", e.BookID)
	assert.Equal(t, "1965", e.Form.Year)
	assert.Equal(t, "sf, classic", e.Form.Genres)
	assert.Equal(t, "3", e.Form.TotalCopies)

	e.Close()
	assert.Equal(t, Editor{}, e)
}
