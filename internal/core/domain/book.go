package domain

import "time"

const (
	BookTitleMaxLen = 255
	DateLayout      = "2006-01-02"
)

// Book is the catalog record managed by the CRUD controller.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ReleaseDate time.Time `json:"release_date"`
}
