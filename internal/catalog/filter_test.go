package catalog

import "testing"

func TestReducersResetPage(t *testing.T) {
	tests := []struct {
		name      string
		reduce    func(FilterState) FilterState
		wantReset bool
	}{
		{"commit search", func(s FilterState) FilterState { return s.CommitSearch() }, true},
		{"toggle rating", func(s FilterState) FilterState { return s.ToggleMinRating(3) }, true},
		{"set genre", func(s FilterState) FilterState { return s.WithGenre("Fiction") }, true},
		{"set author", func(s FilterState) FilterState { return s.WithAuthor("King") }, true},
		{"set sort", func(s FilterState) FilterState { return s.WithSort(SortTitleAsc) }, true},
		{"set available", func(s FilterState) FilterState { return s.WithOnlyAvailable(true) }, true},
		{"clear", func(s FilterState) FilterState { return s.Cleared() }, true},
		{"pending search keeps page", func(s FilterState) FilterState { return s.WithPendingSearch("x") }, false},
		{"set page keeps itself", func(s FilterState) FilterState { return s.WithPage(7) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewFilterState(10).WithPage(5)
			got := tt.reduce(s)
			if tt.wantReset && got.Page != 1 {
				t.Errorf("expected page reset to 1, got %d", got.Page)
			}
			if !tt.wantReset && got.Page == 1 {
				t.Errorf("page should not have been reset")
			}
		})
	}
}

func TestToggleMinRating(t *testing.T) {
	s := NewFilterState(10).ToggleMinRating(3)
	if s.MinRating != 3 {
		t.Fatalf("expected 3, got %d", s.MinRating)
	}
	s = s.ToggleMinRating(3)
	if s.MinRating != 0 {
		t.Fatalf("repeat of the same rating must deselect, got %d", s.MinRating)
	}
	s = s.ToggleMinRating(4).ToggleMinRating(2)
	if s.MinRating != 2 {
		t.Fatalf("different rating must replace, got %d", s.MinRating)
	}
}

func TestPendingSearchIsDecoupled(t *testing.T) {
	s := NewFilterState(10).WithPendingSearch("dune")
	if s.SearchText != "" {
		t.Fatalf("pending edit must not commit, got %q", s.SearchText)
	}
	if s.HasActiveFilters() {
		t.Fatal("uncommitted search box edit is not an active filter")
	}

	s = s.CommitSearch()
	if s.SearchText != "dune" {
		t.Fatalf("commit must apply the buffer, got %q", s.SearchText)
	}
	if !s.HasActiveFilters() {
		t.Fatal("committed search is an active filter")
	}
}

func TestHasActiveFilters(t *testing.T) {
	tests := []struct {
		name   string
		reduce func(FilterState) FilterState
		want   bool
	}{
		{"fresh state", func(s FilterState) FilterState { return s }, false},
		{"page change only", func(s FilterState) FilterState { return s.WithPage(3) }, false},
		{"pending only", func(s FilterState) FilterState { return s.WithPendingSearch("x") }, false},
		{"committed search", func(s FilterState) FilterState { return s.WithPendingSearch("x").CommitSearch() }, true},
		{"rating", func(s FilterState) FilterState { return s.ToggleMinRating(1) }, true},
		{"genre", func(s FilterState) FilterState { return s.WithGenre("Horror") }, true},
		{"author", func(s FilterState) FilterState { return s.WithAuthor("King") }, true},
		{"sort", func(s FilterState) FilterState { return s.WithSort(SortRatingDesc) }, true},
		{"available", func(s FilterState) FilterState { return s.WithOnlyAvailable(true) }, true},
		{"cleared after everything", func(s FilterState) FilterState {
			return s.WithGenre("Horror").ToggleMinRating(5).WithOnlyAvailable(true).Cleared()
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.reduce(NewFilterState(10)).HasActiveFilters()
			if got != tt.want {
				t.Errorf("HasActiveFilters() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClearedPreservesPageSize(t *testing.T) {
	s := NewFilterState(25).WithGenre("Horror").WithPage(9).Cleared()
	if s.PageSize != 25 {
		t.Fatalf("page size is a view constant, got %d", s.PageSize)
	}
	if s != NewFilterState(25) {
		t.Fatalf("cleared state must equal a fresh one, got %+v", s)
	}
}
