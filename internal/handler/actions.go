package handler

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"library-web/internal/model"
	"library-web/internal/session"
	"library-web/internal/ui"
)

var errInvalidID = errors.New("invalid id")

// formConfirmer approves a destructive action when the post carries
// confirm=yes, which only the confirmation page sends.
type formConfirmer struct {
	approved bool
	prompt   string
}

func (f *formConfirmer) Confirm(prompt string) bool {
	f.prompt = prompt
	return f.approved
}

type operation func(c *gin.Context, v *visit, confirm ui.Confirmer) error

type confirmPage struct {
	Prompt    string
	Action    string
	CSRFField template.HTML
}

// action runs op for the visitor and redirects back to the dashboard. An
// unconfirmed destructive op renders the confirmation page instead.
func (s *Server) action(op operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := s.open(c)
		confirm := &formConfirmer{approved: c.PostForm("confirm") == "yes"}

		err := op(c, v, confirm)
		if errors.Is(err, ui.ErrNotConfirmed) && confirm.prompt != "" {
			v.save(c)
			s.renderPage(c, http.StatusOK, "confirm.html", confirmPage{
				Prompt:    confirm.prompt,
				Action:    c.Request.URL.Path,
				CSRFField: csrfField(c),
			})
			return
		}

		v.save(c)
		c.Redirect(http.StatusSeeOther, "/")
	}
}

func pathID(c *gin.Context, v *visit) (string, error) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		v.storage.AddFlash(session.Flash{Kind: string(ui.ToastDanger), Message: "Invalid ID"})
		return "", errInvalidID
	}
	return id, nil
}

func (s *Server) loadBooks(c *gin.Context, v *visit, _ ui.Confirmer) error {
	return v.dash.LoadBooks(c.Request.Context(), model.BookQuery{
		AvailableOnly: c.PostForm("available_only") != "",
		Genres:        ui.SplitList(formValue(c, "genres")),
		Query:         formValue(c, "query"),
	})
}

func (s *Server) reserve(c *gin.Context, v *visit, confirm ui.Confirmer) error {
	id, err := pathID(c, v)
	if err != nil {
		return err
	}
	return v.dash.Reserve(c.Request.Context(), id, confirm)
}

func (s *Server) addFavorite(c *gin.Context, v *visit, _ ui.Confirmer) error {
	id, err := pathID(c, v)
	if err != nil {
		return err
	}
	return v.dash.AddFavorite(c.Request.Context(), id)
}

func (s *Server) selectForReview(c *gin.Context, v *visit, _ ui.Confirmer) error {
	id, err := pathID(c, v)
	if err != nil {
		return err
	}
	return v.dash.SelectBookForReview(c.Request.Context(), id)
}

func (s *Server) openEditor(c *gin.Context, v *visit, _ ui.Confirmer) error {
	id, err := pathID(c, v)
	if err != nil {
		return err
	}
	return v.dash.OpenEditor(c.Request.Context(), id)
}

func (s *Server) cancelReservation(c *gin.Context, v *visit, confirm ui.Confirmer) error {
	id, err := pathID(c, v)
	if err != nil {
		return err
	}
	return v.dash.CancelReservation(c.Request.Context(), id, confirm)
}

func (s *Server) clearReservations(c *gin.Context, v *visit, confirm ui.Confirmer) error {
	return v.dash.ClearReservations(c.Request.Context(), confirm)
}

func (s *Server) loadFavorites(c *gin.Context, v *visit, _ ui.Confirmer) error {
	return v.dash.LoadFavorites(c.Request.Context())
}

func (s *Server) countFavorites(c *gin.Context, v *visit, _ ui.Confirmer) error {
	v.dash.CountFavorites(c.Request.Context())
	return nil
}

func (s *Server) clearFavorites(c *gin.Context, v *visit, confirm ui.Confirmer) error {
	return v.dash.ClearFavorites(c.Request.Context(), confirm)
}

func (s *Server) removeFavorite(c *gin.Context, v *visit, confirm ui.Confirmer) error {
	id, err := pathID(c, v)
	if err != nil {
		return err
	}
	return v.dash.RemoveFavorite(c.Request.Context(), id, confirm)
}

// chooseRating is posted from the review form, so the comment typed so far
// comes along and is kept.
func (s *Server) chooseRating(c *gin.Context, v *visit, _ ui.Confirmer) error {
	if comment, ok := c.GetPostForm("comment"); ok {
		v.dash.KeepComment(norm.NFC.String(comment))
	}
	n, _ := strconv.Atoi(c.PostForm("rating"))
	err := v.dash.ChooseRating(n)
	if errors.Is(err, ui.ErrInvalidRating) {
		v.storage.AddFlash(session.Flash{Kind: string(ui.ToastWarning), Message: "Rating must be between 1 and 5"})
	}
	return err
}

func (s *Server) submitReview(c *gin.Context, v *visit, _ ui.Confirmer) error {
	return v.dash.SubmitReview(c.Request.Context(), norm.NFC.String(c.PostForm("comment")))
}

func (s *Server) deleteReview(c *gin.Context, v *visit, confirm ui.Confirmer) error {
	id, err := pathID(c, v)
	if err != nil {
		return err
	}
	return v.dash.DeleteReview(c.Request.Context(), id, confirm)
}

func (s *Server) saveEditor(c *gin.Context, v *visit, _ ui.Confirmer) error {
	return v.dash.SaveEditor(c.Request.Context(), ui.BookForm{
		Title:       formValue(c, "title"),
		Author:      formValue(c, "author"),
		Description: norm.NFC.String(c.PostForm("description")),
		Year:        formValue(c, "published_year"),
		Genres:      formValue(c, "genres"),
		CoverImage:  formValue(c, "cover_image"),
		TotalCopies: formValue(c, "total_copies"),
	})
}

func (s *Server) closeEditor(c *gin.Context, v *visit, _ ui.Confirmer) error {
	v.dash.CloseEditor()
	return nil
}
