package handler

import (
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"golang.org/x/text/unicode/norm"

	"library-web/internal/apiclient"
	"library-web/internal/middleware"
	"library-web/internal/session"
	"library-web/internal/ui"
)

//go:embed templates/*.html
var pageFS embed.FS

//go:embed static
var staticFS embed.FS

var pages = template.Must(template.ParseFS(pageFS, "templates/*.html"))

// flashAuth marks flashes meant for the auth view's inline message rather
// than the toast.
const flashAuth = "auth"

// Server serves the dashboard and auth views and turns form posts into
// dashboard operations.
type Server struct {
	client       *apiclient.Client
	cookies      *session.CookieStore
	registry     *ui.Registry
	toastTimeout time.Duration
}

// NewServer creates the front end over an API client, cookie sessions and visitor states.
func NewServer(client *apiclient.Client, cookies *session.CookieStore, registry *ui.Registry, toastTimeout time.Duration) *Server {
	if toastTimeout <= 0 {
		toastTimeout = ui.DefaultToastTimeout
	}
	return &Server{
		client:       client,
		cookies:      cookies,
		registry:     registry,
		toastTimeout: toastTimeout,
	}
}

// Routes registers every page and action. authLimit guards the login and
// register posts.
func (s *Server) Routes(r gin.IRouter, authLimit gin.HandlerFunc) {
	static, _ := fs.Sub(staticFS, "static")
	r.StaticFS("/static", http.FS(static))

	r.GET("/health", s.HandleHealth)
	r.GET("/ready", s.HandleReadiness)
	r.GET("/api-status", s.HandleAPIStatus)

	r.GET("/", middleware.RequireAuth(s.authenticated, "/auth"), s.HandleDashboard)
	r.GET("/auth", s.HandleAuthPage)

	auth := r.Group("/auth", authLimit)
	{
		auth.POST("/login", s.HandleLogin)
		auth.POST("/register", s.HandleRegister)
	}

	r.POST("/actions/logout", s.HandleLogout)

	actions := r.Group("/actions", middleware.RequireAuth(s.authenticated, "/auth"))
	{
		actions.POST("/books/load", s.action(s.loadBooks))
		actions.POST("/books/:id/reserve", s.action(s.reserve))
		actions.POST("/books/:id/favorite", s.action(s.addFavorite))
		actions.POST("/books/:id/reviews", s.action(s.selectForReview))
		actions.POST("/books/:id/edit", s.action(s.openEditor))

		actions.POST("/reservations/:id/cancel", s.action(s.cancelReservation))
		actions.POST("/reservations/clear", s.action(s.clearReservations))

		actions.POST("/favorites/load", s.action(s.loadFavorites))
		actions.POST("/favorites/count", s.action(s.countFavorites))
		actions.POST("/favorites/clear", s.action(s.clearFavorites))
		actions.POST("/favorites/:id/remove", s.action(s.removeFavorite))

		actions.POST("/reviews/rating", s.action(s.chooseRating))
		actions.POST("/reviews/submit", s.action(s.submitReview))
		actions.POST("/reviews/:id/delete", s.action(s.deleteReview))

		actions.POST("/editor/save", s.action(s.saveEditor))
		actions.POST("/editor/close", s.action(s.closeEditor))
	}
}

// visit is one request's view of a visitor: their cookie session, their
// UI state and a dashboard bound to both.
type visit struct {
	storage *session.CookieStorage
	store   *session.Store
	state   *ui.State
	dash    *ui.Dashboard
}

// open binds the request to its visitor. Only signed-in visitors get a
// registered state; anonymous requests work on a throwaway one so they
// never grow the registry.
func (s *Server) open(c *gin.Context) *visit {
	storage := s.cookies.Open(c.Request)
	store := session.New(storage)

	state := ui.NewState()
	if store.Authenticated() {
		id := storage.VisitorID()
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			storage.SetVisitorID(id)
		}
		state = s.registry.Get(id)
	}

	notifier := ui.NotifierFunc(func(t ui.Toast) {
		storage.AddFlash(session.Flash{Kind: string(t.Kind), Message: t.Message})
	})

	return &visit{
		storage: storage,
		store:   store,
		state:   state,
		dash:    ui.NewDashboard(s.client.As(store), store, state, notifier, ui.WithToastTimeout(s.toastTimeout)),
	}
}

// forgetVisitor drops the visitor's registered state and ID. The next
// authenticated request starts from a fresh state.
func (s *Server) forgetVisitor(v *visit) {
	if id := v.storage.VisitorID(); id != "" {
		s.registry.Remove(id)
		v.storage.SetVisitorID("")
	}
}

// save writes the session cookie. It must run before anything is written
// to the response body.
func (v *visit) save(c *gin.Context) {
	if err := v.storage.Save(c.Request, c.Writer); err != nil {
		log.Printf("[ERROR] Failed to save session: %v", err)
	}
}

func (s *Server) authenticated(c *gin.Context) bool {
	return session.New(s.cookies.Open(c.Request)).Authenticated()
}

// takeFlashes splits pending flashes into the latest toast and the latest
// auth message. Only the newest toast is shown.
func (s *Server) takeFlashes(v *visit) (toast ui.Toast, authMessage string) {
	for _, f := range v.storage.Flashes() {
		if f.Kind == flashAuth {
			authMessage = f.Message
			continue
		}
		toast = ui.Toast{Message: f.Message, Kind: ui.ToastKind(f.Kind), Timeout: s.toastTimeout}
	}
	return toast, authMessage
}

func (s *Server) renderPage(c *gin.Context, status int, name string, data any) {
	var b strings.Builder
	if err := pages.ExecuteTemplate(&b, name, data); err != nil {
		log.Printf("[ERROR] Failed to render %s: %v", name, err)
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", []byte(b.String()))
}

// formValue returns the trimmed, NFC-normalized form field.
func formValue(c *gin.Context, key string) string {
	return norm.NFC.String(strings.TrimSpace(c.PostForm(key)))
}

func csrfField(c *gin.Context) template.HTML {
	return csrf.TemplateField(c.Request)
}
