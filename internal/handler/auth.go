package handler

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-web/internal/apiclient"
	"library-web/internal/model"
	"library-web/internal/render"
	"library-web/internal/session"
	"library-web/internal/ui"
)

type authPage struct {
	Message       string
	Email         string
	Authenticated bool
	Toast         template.HTML
	CSRFField     template.HTML
}

// HandleAuthPage renders the login and register forms with any pending message.
func (s *Server) HandleAuthPage(c *gin.Context) {
	v := s.open(c)
	toast, message := s.takeFlashes(v)
	v.save(c)

	toastHTML, _ := render.Toast(toast)
	s.renderPage(c, http.StatusOK, "auth.html", authPage{
		Message:       message,
		Email:         v.store.Email(),
		Authenticated: v.store.Authenticated(),
		Toast:         toastHTML,
		CSRFField:     csrfField(c),
	})
}

func authFailure(err error) string {
	var hint *ui.HintError
	if errors.As(err, &hint) {
		return hint.Message
	}
	return apiclient.Message(err)
}

// HandleLogin logs in and opens the dashboard, or returns to the auth view with the reason.
func (s *Server) HandleLogin(c *gin.Context) {
	v := s.open(c)
	err := v.dash.Login(c.Request.Context(), formValue(c, "email"), c.PostForm("password"))
	if err != nil {
		v.storage.AddFlash(session.Flash{Kind: flashAuth, Message: authFailure(err)})
		v.save(c)
		c.Redirect(http.StatusSeeOther, "/auth")
		return
	}
	s.forgetVisitor(v)
	v.save(c)
	c.Redirect(http.StatusSeeOther, "/")
}

// HandleRegister creates the account and logs in right away when the backend allows it.
func (s *Server) HandleRegister(c *gin.Context) {
	v := s.open(c)
	role := model.ParseRole(c.PostForm("role"))
	res, err := v.dash.Register(c.Request.Context(), formValue(c, "email"), c.PostForm("password"), role)
	if err != nil {
		v.storage.AddFlash(session.Flash{Kind: flashAuth, Message: authFailure(err)})
		v.save(c)
		c.Redirect(http.StatusSeeOther, "/auth")
		return
	}

	if !res.LoggedIn {
		v.storage.AddFlash(session.Flash{Kind: flashAuth, Message: res.Message})
		v.save(c)
		c.Redirect(http.StatusSeeOther, "/auth")
		return
	}
	s.forgetVisitor(v)
	v.storage.AddFlash(session.Flash{Kind: string(ui.ToastSuccess), Message: res.Message})
	v.save(c)
	c.Redirect(http.StatusSeeOther, "/")
}

// HandleLogout clears the session and sends the visitor to the auth view.
func (s *Server) HandleLogout(c *gin.Context) {
	v := s.open(c)
	v.dash.Logout()
	s.forgetVisitor(v)
	v.save(c)
	c.Redirect(http.StatusSeeOther, "/auth")
}
