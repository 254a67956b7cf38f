// Package render turns fetched lists into HTML fragments. Every function is
// a pure function of its input; all server- and user-supplied text is
// escaped.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"library-web/internal/model"
	"library-web/internal/ui"
)

//go:embed templates/*.html
var templateFS embed.FS

// mdRenderer escapes raw HTML in review comments (WithUnsafe is not set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes & < > " and '. Escaping already-escaped text escapes
// the ampersands again, so nothing it returns can form a tag.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// View carries what the renderers need beyond the list itself.
type View struct {
	Session   model.Session
	Busy      map[string]bool
	CSRFField template.HTML
	Review    ui.ReviewSelection
}

func (v View) busy(control string) bool { return v.Busy[control] }

var funcs = template.FuncMap{
	"dash": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "—"
		}
		return s
	},
	"join": func(items []string) string { return strings.Join(items, ", ") },
	"safeURL": func(s string) template.URL {
		if !isSafeImageURL(s) {
			return ""
		}
		return template.URL(s)
	},
	"markdown": Markdown,
	"stars": func(n int) string {
		if n < 0 {
			n = 0
		}
		if n > model.MaxRating {
			n = model.MaxRating
		}
		return strings.Repeat("★", n) + strings.Repeat("☆", model.MaxRating-n)
	},
	"ratings":             func() []int { return []int{1, 2, 3, 4, 5} },
	"rating":              func(f float64) string { return fmt.Sprintf("%.1f", f) },
	"controlDeleteReview": ui.ControlDeleteReview,
}

var tmpl = template.Must(template.New("render").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))

// isSafeImageURL allows absolute http(s) URLs and site-relative paths.
func isSafeImageURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return u.Host == "" && strings.HasPrefix(u.Path, "/")
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Markdown renders a review comment. Raw HTML in the input is omitted.
func Markdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(s), &buf); err != nil {
		return template.HTML(EscapeHTML(s))
	}
	return template.HTML(buf.String())
}

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

type bookItem struct {
	model.Book
	Copies      int
	CanReserve  bool
	ReserveBusy bool
	FavBusy     bool
	Selected    bool
}

// Books renders the catalog. The reserve control is disabled when no copy
// is available; librarians get an edit control on every item.
func Books(books []model.Book, v View) (template.HTML, error) {
	items := make([]bookItem, 0, len(books))
	for _, b := range books {
		items = append(items, bookItem{
			Book:        b,
			Copies:      b.Available(),
			CanReserve:  b.CanReserve(),
			ReserveBusy: v.busy(ui.ControlReserve(b.ID)),
			FavBusy:     v.busy(ui.ControlFavorite(b.ID)),
			Selected:    v.Review.BookID != "" && v.Review.BookID == b.ID,
		})
	}
	return execute("books.html", map[string]any{
		"Items":     items,
		"Librarian": v.Session.IsLibrarian(),
		"CSRFField": v.CSRFField,
	})
}

type reservationItem struct {
	model.Reservation
	User      string
	CreatedOn string
	Busy      bool
}

// Reservations renders the visitor's reservations. Entries without an email
// show the session's email.
func Reservations(reservations []model.Reservation, v View) (template.HTML, error) {
	items := make([]reservationItem, 0, len(reservations))
	for _, r := range reservations {
		user := r.UserEmail
		if user == "" {
			user = v.Session.Email
		}
		items = append(items, reservationItem{
			Reservation: r,
			User:        user,
			CreatedOn:   r.Created(),
			Busy:        v.busy(ui.ControlCancel(r.ID)),
		})
	}
	return execute("reservations.html", map[string]any{
		"Items":     items,
		"CSRFField": v.CSRFField,
		"ClearBusy": v.busy(ui.ControlClearReservations),
	})
}

type favoriteItem struct {
	model.Book
	Busy bool
}

// Favorites renders the favorites toolbar and list.
func Favorites(books []model.Book, v View) (template.HTML, error) {
	items := make([]favoriteItem, 0, len(books))
	for _, b := range books {
		items = append(items, favoriteItem{Book: b, Busy: v.busy(ui.ControlRemoveFavorite(b.ID))})
	}
	return execute("favorites.html", map[string]any{
		"Items":     items,
		"CSRFField": v.CSRFField,
		"LoadBusy":  v.busy(ui.ControlLoadFavorites),
		"ClearBusy": v.busy(ui.ControlClearFavorites),
	})
}

// Reviews renders the review panel for the selected book: aggregate, list,
// and the star/comment form.
func Reviews(list *model.ReviewList, v View) (template.HTML, error) {
	if list == nil {
		list = &model.ReviewList{}
	}
	return execute("reviews.html", map[string]any{
		"List":          list,
		"Selection":     v.Review,
		"Stage":         v.Review.Stage().String(),
		"Authenticated": v.Session.Authenticated(),
		"Librarian":     v.Session.IsLibrarian(),
		"CSRFField":     v.CSRFField,
		"SubmitBusy":    v.busy(ui.ControlSubmitReview),
		"Busy":          v.Busy,
	})
}

func Reminders(reminders []model.Reminder) (template.HTML, error) {
	return execute("reminders.html", reminders)
}

// Editor renders the librarian dialog; closed dialogs and non-librarians
// render nothing.
func Editor(e ui.Editor, v View) (template.HTML, error) {
	if !e.IsOpen || !v.Session.IsLibrarian() {
		return "", nil
	}
	return execute("editor.html", map[string]any{
		"Editor":    e,
		"CSRFField": v.CSRFField,
		"Busy":      v.busy(ui.ControlSaveBook),
	})
}

// FavoriteBadge is the count badge text; unknown counts render as 0.
func FavoriteBadge(count *int) string {
	if count == nil {
		return "0"
	}
	return fmt.Sprintf("%d", *count)
}

// HealthBadge renders the backend status badge.
func HealthBadge(h ui.Health) (template.HTML, error) {
	label := "unknown"
	switch h {
	case ui.HealthOnline:
		label = "online"
	case ui.HealthOffline:
		label = "offline"
	}
	return execute("health.html", label)
}

// Toast renders the notification; an empty message renders nothing.
func Toast(t ui.Toast) (template.HTML, error) {
	if t.Message == "" {
		return "", nil
	}
	return execute("toast.html", map[string]any{
		"Message":   t.Message,
		"Kind":      string(t.Kind),
		"TimeoutMS": t.Timeout.Milliseconds(),
	})
}
