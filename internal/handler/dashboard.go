package handler

import (
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"library-web/internal/model"
	"library-web/internal/render"
	"library-web/internal/ui"
)

type dashboardPage struct {
	Email         string
	Role          model.Role
	Librarian     bool
	Query         model.BookQuery
	GenresText    string
	LoadBusy      bool
	FavoriteCount string
	Health        template.HTML
	Books         template.HTML
	Reservations  template.HTML
	Favorites     template.HTML
	Reviews       template.HTML
	Reminders     template.HTML
	Editor        template.HTML
	Toast         template.HTML
	CSRFField     template.HTML
}

// HandleDashboard fills the visitor's lists on first view and renders every
// panel from the last successful fetch.
func (s *Server) HandleDashboard(c *gin.Context) {
	v := s.open(c)
	v.dash.Bootstrap(c.Request.Context())
	toast, _ := s.takeFlashes(v)
	v.save(c)

	snap := v.state.Snapshot()
	sess := v.store.Session()
	view := render.View{
		Session:   sess,
		Busy:      snap.Busy,
		CSRFField: csrfField(c),
		Review:    snap.Review,
	}

	page := dashboardPage{
		Email:         sess.Email,
		Role:          sess.Role,
		Librarian:     sess.IsLibrarian(),
		Query:         snap.Query,
		GenresText:    strings.Join(snap.Query.Genres, ", "),
		LoadBusy:      snap.Busy[ui.ControlLoadBooks],
		FavoriteCount: render.FavoriteBadge(snap.FavoriteCount),
		CSRFField:     view.CSRFField,
	}

	var err error
	fragment := func(dst *template.HTML, fn func() (template.HTML, error)) {
		if err != nil {
			return
		}
		*dst, err = fn()
	}
	fragment(&page.Health, func() (template.HTML, error) { return render.HealthBadge(snap.Health) })
	fragment(&page.Books, func() (template.HTML, error) { return render.Books(snap.Books, view) })
	fragment(&page.Reservations, func() (template.HTML, error) { return render.Reservations(snap.Reservations, view) })
	fragment(&page.Favorites, func() (template.HTML, error) { return render.Favorites(snap.Favorites, view) })
	fragment(&page.Reviews, func() (template.HTML, error) { return render.Reviews(snap.Reviews, view) })
	fragment(&page.Reminders, func() (template.HTML, error) { return render.Reminders(snap.Reminders) })
	fragment(&page.Editor, func() (template.HTML, error) { return render.Editor(snap.Editor, view) })
	fragment(&page.Toast, func() (template.HTML, error) { return render.Toast(toast) })
	if err != nil {
		log.Printf("[ERROR] Failed to render dashboard: %v", err)
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	s.renderPage(c, http.StatusOK, "dashboard.html", page)
}
