package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-web/internal/model"
	"library-web/internal/ui"
)

// lineWith returns the first line of html containing all parts.
func lineWith(html string, parts ...string) string {
	for _, line := range strings.Split(html, "\n") {
		ok := true
		for _, p := range parts {
			if !strings.Contains(line, p) {
				ok = false
				break
			}
		}
		if ok {
			return line
		}
	}
	return ""
}

func Test_Books_ReserveDisabledWhenNothingAvailable(t *testing.T) {
	books := []model.Book{
		{ID: "b1", Title: "Dune", TotalCopies: 2, ReservedCount: 1},
		{ID: "b2", Title: "Emma", TotalCopies: 1, ReservedCount: 1},
		{ID: "b3", Title: "Odyssey", TotalCopies: 0, ReservedCount: 0},
		{ID: "b4", Title: "Ulysses", TotalCopies: 1, ReservedCount: 3},
	}

	html, err := Books(books, View{})
	require.NoError(t, err)

	assert.NotContains(t, lineWith(string(html), "reserve-btn", `data-id="b1"`), "disabled")
	for _, id := range []string{"b2", "b3", "b4"} {
		line := lineWith(string(html), "reserve-btn", `data-id="`+id+`"`)
		require.NotEmpty(t, line, id)
		assert.Contains(t, line, "disabled", id)
	}
}

func Test_Books_IsAvailableFlagOnlyDisables(t *testing.T) {
	no := false
	html, err := Books([]model.Book{{ID: "b1", TotalCopies: 5, IsAvailable: &no}}, View{})
	require.NoError(t, err)
	assert.Contains(t, lineWith(string(html), "reserve-btn"), "disabled")
}

func Test_Books_EscapesInjection(t *testing.T) {
	books := []model.Book{{
		ID:     `x"><script>alert(1)</script>`,
		Title:  "<script>alert(1)</script>",
		Author: "<img src=x onerror=alert(1)>",
		Genres: []string{"<b>sf</b>"},
	}}

	html, err := Books(books, View{Session: model.Session{Role: model.RoleLibrarian}})
	require.NoError(t, err)

	out := string(html)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<img src=x")
	assert.NotContains(t, out, "<b>sf</b>")
	assert.Contains(t, out, "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func Test_Books_EditControlOnlyForLibrarian(t *testing.T) {
	books := []model.Book{{ID: "b1", Title: "Dune"}, {ID: "b2", Title: "Emma"}}

	html, err := Books(books, View{Session: model.Session{Token: "T", Role: model.RoleLibrarian}})
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(html), "edit-btn"))

	html, err = Books(books, View{Session: model.Session{Token: "T", Role: model.RoleUser}})
	require.NoError(t, err)
	assert.NotContains(t, string(html), "edit-btn")
}

func Test_Books_BusyControl(t *testing.T) {
	books := []model.Book{{ID: "b1", TotalCopies: 3}}

	html, err := Books(books, View{Busy: map[string]bool{ui.ControlReserve("b1"): true}})
	require.NoError(t, err)

	line := lineWith(string(html), "reserve-btn")
	assert.Contains(t, line, `aria-busy="true"`)
	assert.Contains(t, line, "disabled")
}

func Test_Books_CoverImageOnlySafeURLs(t *testing.T) {
	books := []model.Book{
		{ID: "b1", CoverImage: "https://covers.example.com/1.jpg"},
		{ID: "b2", CoverImage: "javascript:alert(1)"},
	}

	html, err := Books(books, View{})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(html), `class="cover"`))
	assert.NotContains(t, string(html), "javascript:")
}

func Test_Reservations_FallbackEmail(t *testing.T) {
	reservations := []model.Reservation{{ID: "r1", BookID: "b1", Status: model.ReservationActive, FromDate: "2026-10-01"}}

	html, err := Reservations(reservations, View{Session: model.Session{Email: "a@x.com"}})
	require.NoError(t, err)
	assert.Contains(t, string(html), "User: a@x.com")
	assert.Contains(t, string(html), "Created: 2026-10-01")
	assert.Contains(t, string(html), "/actions/reservations/r1/cancel")
}

func Test_Favorites_Empty(t *testing.T) {
	html, err := Favorites(nil, View{})
	require.NoError(t, err)
	assert.Contains(t, string(html), "No favorites")
}

func Test_Reviews_CommentMarkdownIsSafe(t *testing.T) {
	list := &model.ReviewList{AverageRating: 4.5, Count: 1, Items: []model.Review{
		{ID: "v1", UserEmail: "a@x.com", Rating: 4, Comment: "**great** <script>alert(1)</script>"},
	}}

	html, err := Reviews(list, View{Review: ui.ReviewSelection{BookID: "b1", Rating: 2}})
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, "<strong>great</strong>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "Average: 4.5 (1)")
	assert.Contains(t, out, `data-stage="rating_chosen"`)
	assert.Equal(t, 2, strings.Count(out, "star active"))
	assert.NotContains(t, out, "delete-review-btn")
}

func Test_Reviews_RatingButtonsPostWithComment(t *testing.T) {
	html, err := Reviews(&model.ReviewList{}, View{Review: ui.ReviewSelection{BookID: "b1", Comment: "draft"}})
	require.NoError(t, err)

	out := string(html)
	form := strings.Index(out, `id="reviewForm"`)
	end := strings.Index(out, "</form>")
	require.True(t, form >= 0 && end > form)
	inside := out[form:end]
	assert.Equal(t, 5, strings.Count(inside, `formaction="/actions/reviews/rating"`))
	assert.Contains(t, inside, ">draft</textarea>")
	assert.Equal(t, 1, strings.Count(out, "<form"))
}

func Test_Reviews_NoSelection(t *testing.T) {
	html, err := Reviews(nil, View{})
	require.NoError(t, err)
	assert.Contains(t, string(html), `data-stage="no_book_selected"`)
	assert.NotContains(t, string(html), "reviewForm")
}

func Test_Editor_GatedOnRoleAndOpen(t *testing.T) {
	var e ui.Editor
	e.Open(model.Book{ID: "b1", Title: `"Dune"`, Author: "Herbert"})

	html, err := Editor(e, View{Session: model.Session{Role: model.RoleUser}})
	require.NoError(t, err)
	assert.Empty(t, html)

	html, err = Editor(ui.Editor{}, View{Session: model.Session{Role: model.RoleLibrarian}})
	require.NoError(t, err)
	assert.Empty(t, html)

	html, err = Editor(e, View{Session: model.Session{Role: model.RoleLibrarian}})
	require.NoError(t, err)
	assert.Contains(t, string(html), `value="&#34;Dune&#34;"`)
}

func Test_FavoriteBadge(t *testing.T) {
	n := 3
	assert.Equal(t, "3", FavoriteBadge(&n))
	assert.Equal(t, "0", FavoriteBadge(nil))
}

func Test_HealthBadge(t *testing.T) {
	html, err := HealthBadge(ui.HealthOffline)
	require.NoError(t, err)
	assert.Contains(t, string(html), ">offline<")
}

func Test_Toast(t *testing.T) {
	html, err := Toast(ui.Toast{Message: "<b>saved</b>", Kind: ui.ToastSuccess, Timeout: ui.DefaultToastTimeout})
	require.NoError(t, err)
	assert.Contains(t, string(html), `data-timeout="2500"`)
	assert.Contains(t, string(html), "toast show success")
	assert.NotContains(t, string(html), "<b>")

	html, err = Toast(ui.Toast{})
	require.NoError(t, err)
	assert.Empty(t, html)
}

func Test_EscapeHTML(t *testing.T) {
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", EscapeHTML("<script>alert(1)</script>"))
	assert.Equal(t, "&amp;lt;", EscapeHTML("&lt;"))
	assert.Equal(t, "&quot;&#039;", EscapeHTML(`"'`))
	assert.NotContains(t, EscapeHTML(EscapeHTML("<script>")), "<script>")
}
