package ui

import (
	"net/url"
	"strconv"
	"strings"

	"library-web/internal/model"
)

// BookForm holds the editor's raw input values.
type BookForm struct {
	Title       string
	Author      string
	Description string
	Year        string
	Genres      string
	CoverImage  string
	TotalCopies string
}

func FormFromBook(b model.Book) BookForm {
	f := BookForm{
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		Genres:      strings.Join(b.Genres, ", "),
		CoverImage:  b.CoverImage,
		TotalCopies: strconv.Itoa(b.TotalCopies),
	}
	if b.PublishedYear != nil {
		f.Year = strconv.Itoa(*b.PublishedYear)
	}
	return f
}

// fieldRule copies one form field into the payload. Only required fields
// return errors; optional ones are left out when blank or invalid.
type fieldRule interface {
	Apply(f BookForm, out *model.BookUpdate) error
}

var bookRules = []fieldRule{
	titleRule{},
	authorRule{},
	descriptionRule{},
	yearRule{},
	genresRule{},
	coverRule{},
	copiesRule{},
}

// Payload validates the form and builds the update request.
func (f BookForm) Payload() (model.BookUpdate, error) {
	var out model.BookUpdate
	for _, rule := range bookRules {
		if err := rule.Apply(f, &out); err != nil {
			return model.BookUpdate{}, err
		}
	}
	return out, nil
}

var (
	HintTitleRequired  = &HintError{Code: "title_required", Message: "Title is required"}
	HintAuthorRequired = &HintError{Code: "author_required", Message: "Author is required"}
)

type titleRule struct{}

func (titleRule) Apply(f BookForm, out *model.BookUpdate) error {
	out.Title = strings.TrimSpace(f.Title)
	if out.Title == "" {
		return HintTitleRequired
	}
	return nil
}

type authorRule struct{}

func (authorRule) Apply(f BookForm, out *model.BookUpdate) error {
	out.Author = strings.TrimSpace(f.Author)
	if out.Author == "" {
		return HintAuthorRequired
	}
	return nil
}

type descriptionRule struct{}

func (descriptionRule) Apply(f BookForm, out *model.BookUpdate) error {
	if d := strings.TrimSpace(f.Description); d != "" {
		out.Description = &d
	}
	return nil
}

type yearRule struct{}

func (yearRule) Apply(f BookForm, out *model.BookUpdate) error {
	year, err := strconv.Atoi(strings.TrimSpace(f.Year))
	if err == nil && year > 0 {
		out.PublishedYear = &year
	}
	return nil
}

type genresRule struct{}

func (genresRule) Apply(f BookForm, out *model.BookUpdate) error {
	if genres := SplitList(f.Genres); len(genres) > 0 {
		out.Genres = &genres
	}
	return nil
}

type coverRule struct{}

func (coverRule) Apply(f BookForm, out *model.BookUpdate) error {
	raw := strings.TrimSpace(f.CoverImage)
	u, err := url.Parse(raw)
	if raw == "" || err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil
	}
	out.CoverImage = &raw
	return nil
}

type copiesRule struct{}

func (copiesRule) Apply(f BookForm, out *model.BookUpdate) error {
	n, err := strconv.Atoi(strings.TrimSpace(f.TotalCopies))
	if err == nil && n >= 0 {
		out.TotalCopies = &n
	}
	return nil
}

// SplitList splits a comma-separated list, trimming items and dropping empties.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Editor is the librarian book dialog. Closing discards all edits.
type Editor struct {
	IsOpen bool
	BookID string
	Form   BookForm
}

func (e *Editor) Open(b model.Book) {
	*e = Editor{IsOpen: true, BookID: b.ID, Form: FormFromBook(b)}
}

func (e *Editor) Close() {
	*e = Editor{}
}
