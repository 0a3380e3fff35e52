package catalog

import (
	"context"
	"time"
)

// Book представляет одну книгу каталога в том виде, в котором её отдает листинг
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Genre       string    `json:"genre"`
	Description string    `json:"description"`
	Rating      float64   `json:"rating"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}

// Genre is read-only for the browser; filtering keys off Name, never ID.
type Genre struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ListResult содержит одну страницу результатов листинга
type ListResult struct {
	Items      []Book
	Total      int
	TotalPages int
}

// ListingService is the catalog listing collaborator. Absent query fields
// mean "unconstrained"; equal queries must return the same page.
type ListingService interface {
	List(ctx context.Context, q Query) (*ListResult, error)
}

// GenreService supplies the value domain for the genre filter.
type GenreService interface {
	ListAllGenres(ctx context.Context) ([]Genre, error)
}
