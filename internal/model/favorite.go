package model

type Favorite struct {
	BookID string `json:"book_id"`
}

type FavoriteCount struct {
	User  string `json:"user,omitempty"`
	Count int    `json:"count"`
}
