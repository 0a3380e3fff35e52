package shell

import "testing"

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"spaces only", "   ", nil},
		{"single word", "clear", []string{"clear"}},
		{"plain words", "genre horror", []string{"genre", "horror"}},
		{"quoted argument", `author "Stephen King"`, []string{"author", "Stephen King"}},
		{"cyrillic quoted", `author "Стивен Кинг"`, []string{"author", "Стивен Кинг"}},
		{"unterminated quote", `search "war and`, []string{"search", "war and"}},
		{"extra whitespace", "  page   3  ", []string{"page", "3"}},
		{"empty quotes", `genre ""`, []string{"genre", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("want %q, got %q", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("want %q, got %q", tt.want, got)
				}
			}
		})
	}
}
