package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-web/internal/model"
)

type staticCreds struct{ token, email string }

func (s staticCreds) Token() string { return s.token }
func (s staticCreds) Email() string { return s.email }

func newTestClient(t *testing.T, h http.HandlerFunc, creds Credentials) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api/", WithCredentials(creds))
	require.NoError(t, err)
	return c
}

func Test_ResolveBase(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		origin string
		want   string
	}{
		{name: "default_relative", base: "", origin: "http://backend:8000", want: "http://backend:8000/api"},
		{name: "trailing_slash_trimmed", base: "/api/", origin: "http://backend:8000", want: "http://backend:8000/api"},
		{name: "absolute_kept", base: "https://lib.example.com/v1/", origin: "http://ignored", want: "https://lib.example.com/v1"},
		{name: "root", base: "/", origin: "http://backend:8000/", want: "http://backend:8000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveBase(tt.base, tt.origin)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_ResolveBase_RejectsRelativeOrigin(t *testing.T) {
	_, err := ResolveBase("/api", "localhost")
	assert.ErrorIs(t, err, ErrInvalidOrigin)
}

func Test_AuthHeaders_AttachedIndependently(t *testing.T) {
	c, err := New("http://x/api")
	require.NoError(t, err)

	assert.Empty(t, c.AuthHeaders())

	h := c.As(staticCreds{token: "T"}).AuthHeaders()
	assert.Equal(t, "Bearer T", h.Get("Authorization"))
	assert.Empty(t, h.Get("X-User-Email"))

	h = c.As(staticCreds{email: "a@x.com"}).AuthHeaders()
	assert.Empty(t, h.Get("Authorization"))
	assert.Equal(t, "a@x.com", h.Get("X-User-Email"))
}

func Test_ListBooks_QueryParameters(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `[{"id":"b1","title":"Dune","total_copies":2,"reserved_count":1,"genres":["sf"]}]`)
	}, staticCreds{token: "T", email: "a@x.com"})

	books, err := c.ListBooks(context.Background(), model.BookQuery{AvailableOnly: true, Genres: []string{"sf", "classic"}})
	require.NoError(t, err)

	assert.Equal(t, "/api/books/", gotPath)
	assert.Equal(t, []string{"true"}, gotQuery["available_only"])
	assert.Equal(t, []string{"sf", "classic"}, gotQuery["genres"])
	assert.Equal(t, "Bearer T", gotAuth)
	require.Len(t, books, 1)
	assert.Equal(t, 1, books[0].Available())
}

func Test_ListBooks_SearchEndpoint(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		_, _ = io.WriteString(w, `[]`)
	}, nil)

	books, err := c.ListBooks(context.Background(), model.BookQuery{Query: "python"})
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.Equal(t, "/api/books/search", gotPath)
	assert.Equal(t, "python", gotQuery)
}

func Test_APIError_Message(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "detail_string", status: 409, body: `{"detail":"No copies available"}`, want: "No copies available"},
		{name: "detail_validation_array", status: 422, body: `{"detail":[{"msg":"field required","loc":["body","email"]}]}`, want: "field required"},
		{name: "plain_text", status: 500, body: "boom", want: "boom"},
		{name: "empty_body", status: 404, body: "", want: "Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, nil)

			_, err := c.Reserve(context.Background(), "b1")
			require.Error(t, err)
			assert.Equal(t, tt.want, Message(err))
		})
	}
}

func Test_IsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(&APIError{StatusCode: http.StatusUnauthorized}))
	assert.False(t, IsUnauthorized(&APIError{StatusCode: http.StatusConflict}))
	assert.False(t, IsUnauthorized(io.EOF))
}

func Test_Login_RoleFromResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/login", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"email":"a@x.com","password":"pw"}`, string(body))
		_, _ = io.WriteString(w, `{"access_token":"T","role":"librarian"}`)
	}, nil)

	res, err := c.Login(context.Background(), "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "T", res.AccessToken)
	assert.Equal(t, model.RoleLibrarian, res.Role)
}

func Test_Login_RoleFromTokenClaims(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "a@x.com",
		"role": "librarian",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"access_token":"`+token+`","token_type":"bearer"}`)
	}, nil)

	res, err := c.Login(context.Background(), "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, model.RoleLibrarian, res.Role)
}

func Test_Login_MissingToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	}, nil)

	_, err := c.Login(context.Background(), "a@x.com", "pw")
	assert.ErrorIs(t, err, ErrNoToken)
}

func Test_RoleFromToken_Garbage(t *testing.T) {
	assert.Equal(t, model.RoleUser, RoleFromToken("not-a-jwt"))
}

func Test_ListFavorites_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{name: "bare_array", body: `[{"id":"b1","title":"Dune"}]`, want: []string{"b1"}},
		{name: "envelope_expanded", body: `{"user":"a@x.com","count":1,"items":[{"id":"b2","title":"Emma"}]}`, want: []string{"b2"}},
		{name: "envelope_refs", body: `{"user":"a@x.com","count":2,"items":[{"book_id":"b3"},{"book_id":"b4"}]}`, want: []string{"b3", "b4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}, staticCreds{email: "a@x.com"})

			books, err := c.ListFavorites(context.Background(), true)
			require.NoError(t, err)
			ids := make([]string, 0, len(books))
			for _, b := range books {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func Test_CountFavorites(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/favorites/me/count", r.URL.Path)
		_, _ = io.WriteString(w, `{"user":"a@x.com","count":3}`)
	}, staticCreds{email: "a@x.com"})

	n, err := c.CountFavorites(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func Test_UpdateBook_OmitsUnsetFields(t *testing.T) {
	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/books/b1", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		_, _ = io.WriteString(w, `{"id":"b1","title":"New","author":"A"}`)
	}, nil)

	year := 1999
	_, err := c.UpdateBook(context.Background(), "b1", model.BookUpdate{Title: "New", Author: "A", PublishedYear: &year})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"New","author":"A","published_year":1999}`, body)
}

func Test_ListReviews_NilItemsBecomeEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"average_rating":0,"count":0}`)
	}, nil)

	list, err := c.ListReviews(context.Background(), "b1")
	require.NoError(t, err)
	assert.NotNil(t, list.Items)
	assert.Empty(t, list.Items)
}

func Test_WithTimeout_LeavesPassedClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	c, err := New("http://api.example.com/api", WithHTTPClient(shared), WithTimeout(time.Second))
	require.NoError(t, err)

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, time.Second, c.http.Timeout)
	assert.NotSame(t, shared, c.http)
}
