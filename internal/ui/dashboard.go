package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"library-web/internal/apiclient"
	"library-web/internal/model"
	"library-web/internal/session"
)

// API is the subset of the backend client the dashboard drives.
type API interface {
	Register(ctx context.Context, creds model.Credentials) error
	Login(ctx context.Context, email, password string) (*model.LoginResult, error)
	ListBooks(ctx context.Context, q model.BookQuery) ([]model.Book, error)
	GetBook(ctx context.Context, id string) (*model.Book, error)
	UpdateBook(ctx context.Context, id string, update model.BookUpdate) (*model.Book, error)
	Reserve(ctx context.Context, bookID string) (*model.Reservation, error)
	MyReservations(ctx context.Context) ([]model.Reservation, error)
	CancelReservation(ctx context.Context, id string) error
	ClearReservations(ctx context.Context) error
	Reminders(ctx context.Context) ([]model.Reminder, error)
	AddFavorite(ctx context.Context, bookID string) error
	ListFavorites(ctx context.Context, expand bool) ([]model.Book, error)
	RemoveFavorite(ctx context.Context, bookID string) error
	ClearFavorites(ctx context.Context) error
	CountFavorites(ctx context.Context) (int, error)
	ListReviews(ctx context.Context, bookID string) (*model.ReviewList, error)
	SubmitReview(ctx context.Context, bookID string, in model.ReviewInput) (*model.Review, error)
	DeleteReview(ctx context.Context, reviewID string) error
	Health(ctx context.Context) error
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

var (
	// ErrNotConfirmed means the user declined; no request was sent.
	ErrNotConfirmed = errors.New("action not confirmed")
	// ErrBusy means the control's previous request is still running.
	ErrBusy = errors.New("control is busy")

	HintCredentials  = &HintError{Code: "credentials", Message: "Enter email and password"}
	HintEditorClosed = &HintError{Code: "editor_closed", Message: "Open a book for editing first"}
)

// Dashboard runs user events for one visitor: it issues the request, then
// re-fetches every list the event could have affected. Failures end up as
// toasts and never propagate past the triggering control.
type Dashboard struct {
	api          API
	session      *session.Store
	state        *State
	notifier     Notifier
	toastTimeout time.Duration
}

// DashboardOption configures a Dashboard.
type DashboardOption func(*Dashboard)

// WithToastTimeout overrides how long toasts stay visible. Non-positive values are ignored.
func WithToastTimeout(timeout time.Duration) DashboardOption {
	return func(d *Dashboard) {
		if timeout > 0 {
			d.toastTimeout = timeout
		}
	}
}

// NewDashboard binds the API, the visitor's session and state, and where toasts go.
func NewDashboard(api API, store *session.Store, state *State, notifier Notifier, opts ...DashboardOption) *Dashboard {
	d := &Dashboard{
		api:          api,
		session:      store,
		state:        state,
		notifier:     notifier,
		toastTimeout: DefaultToastTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the visitor state the dashboard updates.
func (d *Dashboard) State() *State { return d.state }

func (d *Dashboard) toast(kind ToastKind, format string, args ...any) {
	d.notifier.Notify(Toast{Message: fmt.Sprintf(format, args...), Kind: kind, Timeout: d.toastTimeout})
}

func (d *Dashboard) hint(err error) error {
	var h *HintError
	if errors.As(err, &h) {
		d.toast(ToastWarning, "%s", h.Message)
	}
	return err
}

func confirmed(c Confirmer, prompt string) bool {
	return c != nil && c.Confirm(prompt)
}

// ---------- auth ----------

// AuthResult tells the auth view what happened.
type AuthResult struct {
	LoggedIn bool
	Message  string
}

// Register creates the account and logs in right away. When the automatic
// login fails the account still exists and the user is told to log in.
func (d *Dashboard) Register(ctx context.Context, email, password string, role model.Role) (AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return AuthResult{}, HintCredentials
	}
	if model.ParseRole(string(role)) == "" {
		role = model.RoleUser
	}

	if err := d.api.Register(ctx, model.Credentials{Email: email, Password: password, Role: role}); err != nil {
		return AuthResult{}, err
	}

	if err := d.Login(ctx, email, password); err != nil {
		log.Printf("[WARN] Auto-login after registration failed email=%s: %v", email, err)
		return AuthResult{Message: "Registered. Please log in."}, nil
	}
	return AuthResult{LoggedIn: true, Message: "Registered and logged in"}, nil
}

// Login stores the token, email and role on success and starts from an empty state.
func (d *Dashboard) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return HintCredentials
	}

	res, err := d.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	d.state.Reset()
	d.session.SetToken(res.AccessToken)
	d.session.SetEmail(email)
	d.session.SetRole(res.Role)
	log.Printf("[INFO] Logged in email=%s role=%s", email, res.Role)
	return nil
}

// Logout clears token, email and role. Callers send the visitor to the
// auth view afterwards.
func (d *Dashboard) Logout() {
	d.session.Clear()
	d.state.Reset()
	d.toast(ToastInfo, "Logged out")
}

// ---------- books ----------

// Bootstrap fills an empty dashboard on first view.
func (d *Dashboard) Bootstrap(ctx context.Context) {
	if d.state.Snapshot().Loaded {
		return
	}
	d.state.update(func(s *State) { s.loaded = true })
	d.CheckHealth(ctx)
	_ = d.LoadBooks(ctx, d.state.Snapshot().Query)
	d.LoadReservations(ctx)
	d.CountFavorites(ctx)
	d.LoadReminders(ctx)
}

// LoadBooks fetches the catalog with q and remembers q for later refreshes.
func (d *Dashboard) LoadBooks(ctx context.Context, q model.BookQuery) error {
	release, ok := d.state.Acquire(ControlLoadBooks)
	if !ok {
		return ErrBusy
	}
	defer release()

	d.state.update(func(s *State) { s.query = q })
	return d.refreshBooks(ctx)
}

func (d *Dashboard) refreshBooks(ctx context.Context) error {
	q := d.state.Snapshot().Query
	books, err := d.api.ListBooks(ctx, q)
	if err != nil {
		log.Printf("[ERROR] Failed to load books: %v", err)
		d.toast(ToastDanger, "Failed to load books")
		return err
	}
	d.state.update(func(s *State) { s.books = books })
	return nil
}

// Reserve asks for confirmation, reserves the book, then reloads reservations and books.
func (d *Dashboard) Reserve(ctx context.Context, bookID string, c Confirmer) error {
	if !confirmed(c, fmt.Sprintf("Reserve book %s?", bookID)) {
		return ErrNotConfirmed
	}
	release, ok := d.state.Acquire(ControlReserve(bookID))
	if !ok {
		return ErrBusy
	}
	defer release()

	if _, err := d.api.Reserve(ctx, bookID); err != nil {
		d.toast(ToastDanger, "Reservation failed: %s", apiclient.Message(err))
		return err
	}
	d.LoadReservations(ctx)
	_ = d.refreshBooks(ctx)
	d.toast(ToastSuccess, "Reservation created")
	return nil
}

// ---------- reservations ----------

// LoadReservations is optional: failures are swallowed.
func (d *Dashboard) LoadReservations(ctx context.Context) {
	reservations, err := d.api.MyReservations(ctx)
	if err != nil {
		log.Printf("[WARN] Reservations unavailable: %v", err)
		return
	}
	d.state.update(func(s *State) { s.reservations = reservations })
}

// CancelReservation asks for confirmation, cancels, then reloads reservations and books.
func (d *Dashboard) CancelReservation(ctx context.Context, reservationID string, c Confirmer) error {
	if !confirmed(c, fmt.Sprintf("Cancel reservation %s?", reservationID)) {
		return ErrNotConfirmed
	}
	release, ok := d.state.Acquire(ControlCancel(reservationID))
	if !ok {
		return ErrBusy
	}
	defer release()

	if err := d.api.CancelReservation(ctx, reservationID); err != nil {
		d.toast(ToastDanger, "Cancel failed: %s", apiclient.Message(err))
		return err
	}
	d.LoadReservations(ctx)
	_ = d.refreshBooks(ctx)
	d.toast(ToastInfo, "Reservation cancelled")
	return nil
}

// ClearReservations cancels everything, then reloads reservations, books and favorites.
func (d *Dashboard) ClearReservations(ctx context.Context, c Confirmer) error {
	if !confirmed(c, "Cancel all reservations?") {
		return ErrNotConfirmed
	}
	release, ok := d.state.Acquire(ControlClearReservations)
	if !ok {
		return ErrBusy
	}
	defer release()

	if err := d.api.ClearReservations(ctx); err != nil {
		log.Printf("[ERROR] Failed to clear reservations: %v", err)
		d.toast(ToastDanger, "Clear failed")
		return err
	}
	d.LoadReservations(ctx)
	_ = d.refreshBooks(ctx)
	d.refreshFavorites(ctx)
	d.toast(ToastInfo, "Reservations cleared")
	return nil
}

// LoadReminders is optional: failures are swallowed.
func (d *Dashboard) LoadReminders(ctx context.Context) {
	reminders, err := d.api.Reminders(ctx)
	if err != nil {
		log.Printf("[WARN] Reminders unavailable: %v", err)
		return
	}
	d.state.update(func(s *State) { s.reminders = reminders })
}

// ---------- favorites ----------

// AddFavorite adds the book, then reloads favorites and the count.
func (d *Dashboard) AddFavorite(ctx context.Context, bookID string) error {
	release, ok := d.state.Acquire(ControlFavorite(bookID))
	if !ok {
		return ErrBusy
	}
	defer release()

	if err := d.api.AddFavorite(ctx, bookID); err != nil {
		d.toast(ToastDanger, "Could not add to favorites: %s", apiclient.Message(err))
		return err
	}
	d.refreshFavorites(ctx)
	d.toast(ToastInfo, "Added to favorites")
	return nil
}

// LoadFavorites reloads the favorites list and the count badge.
func (d *Dashboard) LoadFavorites(ctx context.Context) error {
	release, ok := d.state.Acquire(ControlLoadFavorites)
	if !ok {
		return ErrBusy
	}
	defer release()

	if !d.refreshFavorites(ctx) {
		return errors.New("favorites unavailable")
	}
	return nil
}

// refreshFavorites reloads the list and the count badge. Backends that
// cannot expand favorites into books fail with a 5xx; the plain list of
// book IDs is used then.
func (d *Dashboard) refreshFavorites(ctx context.Context) bool {
	favorites, err := d.api.ListFavorites(ctx, true)
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 500 {
		log.Printf("[WARN] Expanded favorites unavailable, loading IDs only: %v", err)
		favorites, err = d.api.ListFavorites(ctx, false)
	}
	if err != nil {
		log.Printf("[ERROR] Failed to load favorites: %v", err)
		d.toast(ToastDanger, "Failed to load favorites")
		return false
	}
	d.state.update(func(s *State) { s.favorites = favorites })
	d.CountFavorites(ctx)
	return true
}

// RemoveFavorite asks for confirmation, removes the book, then reloads favorites.
func (d *Dashboard) RemoveFavorite(ctx context.Context, bookID string, c Confirmer) error {
	if !confirmed(c, fmt.Sprintf("Remove book %s from favorites?", bookID)) {
		return ErrNotConfirmed
	}
	release, ok := d.state.Acquire(ControlRemoveFavorite(bookID))
	if !ok {
		return ErrBusy
	}
	defer release()

	if err := d.api.RemoveFavorite(ctx, bookID); err != nil {
		d.toast(ToastDanger, "Remove failed: %s", apiclient.Message(err))
		return err
	}
	d.refreshFavorites(ctx)
	d.toast(ToastInfo, "Removed")
	return nil
}

// ClearFavorites is best-effort: a failed request is only logged.
func (d *Dashboard) ClearFavorites(ctx context.Context, c Confirmer) error {
	if !confirmed(c, "Clear favorites?") {
		return ErrNotConfirmed
	}
	release, ok := d.state.Acquire(ControlClearFavorites)
	if !ok {
		return ErrBusy
	}
	defer release()

	if err := d.api.ClearFavorites(ctx); err != nil {
		log.Printf("[WARN] Clearing favorites failed: %v", err)
	}
	d.refreshFavorites(ctx)
	d.toast(ToastInfo, "Favorites cleared")
	return nil
}

// CountFavorites updates the badge; failures are swallowed.
func (d *Dashboard) CountFavorites(ctx context.Context) {
	n, err := d.api.CountFavorites(ctx)
	if err != nil {
		log.Printf("[WARN] Favorite count unavailable: %v", err)
		return
	}
	d.state.update(func(s *State) { s.favoriteCount = &n })
}

// ---------- reviews ----------

// SelectBookForReview targets bookID, resetting rating and comment, and
// loads its reviews.
func (d *Dashboard) SelectBookForReview(ctx context.Context, bookID string) error {
	d.state.update(func(s *State) {
		s.review.Select(bookID)
		s.reviews = nil
	})
	return d.loadReviews(ctx, bookID)
}

func (d *Dashboard) loadReviews(ctx context.Context, bookID string) error {
	list, err := d.api.ListReviews(ctx, bookID)
	if err != nil {
		log.Printf("[ERROR] Failed to load reviews book=%s: %v", bookID, err)
		d.toast(ToastDanger, "Failed to load reviews")
		return err
	}
	d.state.update(func(s *State) {
		if s.review.BookID == bookID {
			s.reviews = list
		}
	})
	return nil
}

// KeepComment stores the comment typed so far so it survives re-rendering.
// Without a selected book there is nothing to attach it to.
func (d *Dashboard) KeepComment(comment string) {
	d.state.update(func(s *State) {
		if s.review.BookID != "" {
			s.review.Comment = comment
		}
	})
}

// ChooseRating sets the star rating for the selected book.
func (d *Dashboard) ChooseRating(n int) error {
	var err error
	d.state.update(func(s *State) { err = s.review.ChooseRating(n) })
	if err != nil {
		return d.hint(err)
	}
	return nil
}

// SubmitReview sends the review when a book is selected, the visitor is
// logged in and a rating was chosen. Otherwise it shows a hint and sends
// nothing.
func (d *Dashboard) SubmitReview(ctx context.Context, comment string) error {
	var sel ReviewSelection
	d.state.update(func(s *State) {
		s.review.Comment = comment
		sel = s.review
	})
	if err := sel.Validate(d.session.Authenticated()); err != nil {
		return d.hint(err)
	}

	release, ok := d.state.Acquire(ControlSubmitReview)
	if !ok {
		return ErrBusy
	}
	defer release()

	in := model.ReviewInput{Rating: sel.Rating, Comment: strings.TrimSpace(sel.Comment)}
	if _, err := d.api.SubmitReview(ctx, sel.BookID, in); err != nil {
		d.toast(ToastDanger, "Review failed: %s", apiclient.Message(err))
		return err
	}
	d.state.update(func(s *State) {
		if s.review.BookID == sel.BookID {
			s.review.Submitted()
		}
	})
	_ = d.loadReviews(ctx, sel.BookID)
	d.toast(ToastSuccess, "Review added")
	return nil
}

// DeleteReview removes a review; librarians only.
func (d *Dashboard) DeleteReview(ctx context.Context, reviewID string, c Confirmer) error {
	if !d.session.Role().IsLibrarian() {
		return d.hint(HintLibrarianOnly)
	}
	if !confirmed(c, fmt.Sprintf("Delete review %s?", reviewID)) {
		return ErrNotConfirmed
	}
	release, ok := d.state.Acquire(ControlDeleteReview(reviewID))
	if !ok {
		return ErrBusy
	}
	defer release()

	if err := d.api.DeleteReview(ctx, reviewID); err != nil {
		d.toast(ToastDanger, "Delete failed: %s", apiclient.Message(err))
		return err
	}
	if bookID := d.state.Snapshot().Review.BookID; bookID != "" {
		_ = d.loadReviews(ctx, bookID)
	}
	d.toast(ToastInfo, "Review deleted")
	return nil
}

// ---------- librarian editor ----------

// OpenEditor loads the book into the edit dialog, from the last fetched list
// when present and from the backend otherwise.
func (d *Dashboard) OpenEditor(ctx context.Context, bookID string) error {
	if !d.session.Role().IsLibrarian() {
		return d.hint(HintLibrarianOnly)
	}

	var book *model.Book
	for _, b := range d.state.Snapshot().Books {
		if b.ID == bookID {
			b := b
			book = &b
			break
		}
	}
	if book == nil {
		fetched, err := d.api.GetBook(ctx, bookID)
		if err != nil {
			d.toast(ToastDanger, "Failed to load book: %s", apiclient.Message(err))
			return err
		}
		book = fetched
	}
	d.state.update(func(s *State) { s.editor.Open(*book) })
	return nil
}

// CloseEditor discards the edit dialog.
func (d *Dashboard) CloseEditor() {
	d.state.update(func(s *State) { s.editor.Close() })
}

// SaveEditor validates form and sends the update. Invalid input keeps the
// dialog open with what was typed.
func (d *Dashboard) SaveEditor(ctx context.Context, form BookForm) error {
	if !d.session.Role().IsLibrarian() {
		return d.hint(HintLibrarianOnly)
	}
	editor := d.state.Snapshot().Editor
	if !editor.IsOpen {
		return d.hint(HintEditorClosed)
	}
	d.state.update(func(s *State) { s.editor.Form = form })

	payload, err := form.Payload()
	if err != nil {
		return d.hint(err)
	}

	release, ok := d.state.Acquire(ControlSaveBook)
	if !ok {
		return ErrBusy
	}
	defer release()

	if _, err := d.api.UpdateBook(ctx, editor.BookID, payload); err != nil {
		log.Printf("[ERROR] Failed to save book=%s: %v", editor.BookID, err)
		d.toast(ToastDanger, "Save failed: %s", apiclient.Message(err))
		return err
	}
	d.CloseEditor()
	_ = d.refreshBooks(ctx)
	d.toast(ToastSuccess, "Book saved")
	return nil
}

// ---------- health ----------

// CheckHealth asks the backend for its health and updates the status badge.
func (d *Dashboard) CheckHealth(ctx context.Context) Health {
	health := HealthOnline
	if err := d.api.Health(ctx); err != nil {
		log.Printf("[WARN] Backend health check failed: %v", err)
		health = HealthOffline
	}
	d.state.update(func(s *State) { s.health = health })
	return health
}
