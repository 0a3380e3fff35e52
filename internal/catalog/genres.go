package catalog

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Directory кэширует справочник жанров для фильтра по жанру.
// Genres are read-only for the browser, so one load per session is enough.
type Directory struct {
	svc GenreService

	mu     sync.Mutex
	genres []Genre
	names  []string
}

func NewDirectory(svc GenreService) *Directory {
	return &Directory{svc: svc}
}

// Load fetches all genres and orders them with a locale-aware collator, so
// Cyrillic and Latin names interleave the way a human expects rather than
// by raw byte value.
func (d *Directory) Load(ctx context.Context) error {
	genres, err := d.svc.ListAllGenres(ctx)
	if err != nil {
		return err
	}

	cl := collate.New(language.Und, collate.Loose)
	sort.Slice(genres, func(i, j int) bool {
		return cl.CompareString(genres[i].Name, genres[j].Name) < 0
	})

	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}

	d.mu.Lock()
	d.genres = genres
	d.names = names
	d.mu.Unlock()
	return nil
}

// Names returns the sorted genre names for completion and validation.
func (d *Directory) Names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.names
}

// Has reports whether name is a known genre.
func (d *Directory) Has(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range d.names {
		if n == name {
			return true
		}
	}
	return false
}
