package shell

import "unicode"

// Split tokenizes a browser command line. Words are separated by spaces;
// double quotes group words with spaces into one argument, so
// `author "Стивен Кинг"` is two tokens.
func Split(input string) []string {
	var (
		args  []string
		runes = []rune(input)
		pos   = 0
	)
	for pos < len(runes) {
		for pos < len(runes) && unicode.IsSpace(runes[pos]) {
			pos++
		}
		if pos >= len(runes) {
			break
		}

		if runes[pos] == '"' {
			pos++ // eat opening quote
			start := pos
			for pos < len(runes) && runes[pos] != '"' {
				pos++
			}
			args = append(args, string(runes[start:pos]))
			if pos < len(runes) {
				pos++ // eat closing quote
			}
			continue
		}

		start := pos
		for pos < len(runes) && !unicode.IsSpace(runes[pos]) {
			pos++
		}
		args = append(args, string(runes[start:pos]))
	}
	return args
}
