package ui

// Control identifiers used for busy tracking and rendering.
const (
	ControlLoadBooks         = "load-books"
	ControlLoadFavorites     = "load-favs"
	ControlClearFavorites    = "clear-favs"
	ControlClearReservations = "clear-res"
	ControlSubmitReview      = "submit-review"
	ControlSaveBook          = "save-book"
)

func ControlReserve(bookID string) string        { return "reserve:" + bookID }
func ControlFavorite(bookID string) string       { return "fav:" + bookID }
func ControlCancel(reservationID string) string  { return "cancel:" + reservationID }
func ControlRemoveFavorite(bookID string) string { return "remove-fav:" + bookID }
func ControlDeleteReview(reviewID string) string { return "delete-review:" + reviewID }
