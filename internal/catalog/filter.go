package catalog

// SortKey перечисляет поддерживаемые сортировки листинга
type SortKey string

const (
	SortNone       SortKey = ""
	SortRatingDesc SortKey = "rating_desc"
	SortNewest     SortKey = "created_at_desc"
	SortTitleAsc   SortKey = "title_asc"
)

// FilterState holds every filter dimension of the book listing view.
// It is a value type: each reducer returns a fresh copy, the previous
// state is never mutated. PendingSearchText is the text-box buffer and
// diverges from SearchText until CommitSearch — we do not fire a request
// per keystroke.
type FilterState struct {
	SearchText        string
	PendingSearchText string
	MinRating         int // 0..5, 0 = no minimum
	Genre             string
	Author            string
	Sort              SortKey
	OnlyAvailable     bool
	Page              int
	PageSize          int
}

// NewFilterState возвращает чистое состояние с первой страницей
func NewFilterState(pageSize int) FilterState {
	return FilterState{Page: 1, PageSize: pageSize}
}

// WithPendingSearch only updates the text-box buffer. No page reset:
// nothing committed has changed yet.
func (s FilterState) WithPendingSearch(text string) FilterState {
	s.PendingSearchText = text
	return s
}

// CommitSearch applies the pending buffer (search button / Enter).
func (s FilterState) CommitSearch() FilterState {
	s.SearchText = s.PendingSearchText
	s.Page = 1
	return s
}

// ToggleMinRating selects r, or deselects back to 0 when r is already
// the current minimum. r must be in 1..5 — the caller validates at the
// UI edge.
func (s FilterState) ToggleMinRating(r int) FilterState {
	if r == s.MinRating {
		s.MinRating = 0
	} else {
		s.MinRating = r
	}
	s.Page = 1
	return s
}

func (s FilterState) WithGenre(name string) FilterState {
	s.Genre = name
	s.Page = 1
	return s
}

func (s FilterState) WithAuthor(text string) FilterState {
	s.Author = text
	s.Page = 1
	return s
}

func (s FilterState) WithSort(key SortKey) FilterState {
	s.Sort = key
	s.Page = 1
	return s
}

func (s FilterState) WithOnlyAvailable(flag bool) FilterState {
	s.OnlyAvailable = flag
	s.Page = 1
	return s
}

// WithPage is the one reducer that keeps the page it is given. The caller
// clamps n to [1, totalPages]; this type does not know totalPages.
func (s FilterState) WithPage(n int) FilterState {
	s.Page = n
	return s
}

// Cleared сбрасывает все фильтры, размер страницы сохраняется
func (s FilterState) Cleared() FilterState {
	return NewFilterState(s.PageSize)
}

// HasActiveFilters reports whether any committed filter is set.
// PendingSearchText is deliberately excluded: an uncommitted edit of the
// search box is not an active filter.
func (s FilterState) HasActiveFilters() bool {
	return s.OnlyAvailable ||
		s.MinRating > 0 ||
		s.Genre != "" ||
		s.Author != "" ||
		s.Sort != SortNone ||
		s.SearchText != ""
}
