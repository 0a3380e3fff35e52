package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"kniga/internal/catalog"
	"kniga/internal/client"
	"kniga/internal/config"
	"kniga/internal/history"
	"kniga/internal/logger"
	"kniga/internal/middleware"
	"kniga/internal/shell"
)

var commands = []string{
	"search", "genre", "author", "rating", "sort", "available",
	"page", "next", "prev", "clear", "filters", "genres", "history",
	"refresh", "help", "exit", "quit",
}

var sortKeys = map[string]catalog.SortKey{
	"none":   catalog.SortNone,
	"rating": catalog.SortRatingDesc,
	"newest": catalog.SortNewest,
	"title":  catalog.SortTitleAsc,
}

func main() {
	cfg := config.Get()
	logger.SetDebug(cfg.Catalog.Debug)
	log := logrus.StandardLogger()

	api := client.New(cfg.Catalog, log)
	ctrl := catalog.NewController(api, cfg.Browser.PageSize)
	genres := catalog.NewDirectory(api)

	hist, err := history.Open(cfg.Browser.HistoryDB)
	if err != nil {
		log.WithError(err).Fatal("history db unavailable")
	}
	defer hist.Close()

	if cfg.Metrics.Port > 0 {
		go serveMetrics(cfg.MetricsAddr(), log)
	}

	ctx := logger.ContextWithID(context.Background(), fmt.Sprintf("s%d", time.Now().Unix()))

	updates := make(chan struct{}, 8)
	ctrl.OnUpdate(func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	})

	if err := genres.Load(ctx); err != nil {
		log.WithError(err).Warn("genre directory unavailable, completion disabled")
	}

	rl := liner.NewLiner()
	defer rl.Close()
	rl.SetCtrlCAborts(true)
	rl.SetCompleter(func(line string) []string { return complete(line, genres.Names()) })
	if f, err := os.Open(cfg.Browser.HistoryFile); err == nil {
		rl.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(cfg.Browser.HistoryFile); err == nil {
			rl.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println("Kniga Catalog Browser (type 'help' for commands)")

	// Первая страница без фильтров
	ctrl.Refresh(ctx)
	render(waitDone(ctrl, updates, cfg.Catalog.Timeout), ctrl)

	for {
		input, err := rl.Prompt("\033[32mkniga>\033[0m ")
		if err != nil {
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		rl.AppendHistory(input)

		args := shell.Split(input)
		cmd, rest := args[0], args[1:]

		switch cmd {
		case "exit", "quit":
			return

		case "help":
			printHelp()
			continue

		case "search":
			text := strings.Join(rest, " ")
			ctrl.SetPendingSearch(text)
			ctrl.CommitSearch(ctx)
			if err := hist.Add(text); err != nil {
				log.WithError(err).Warn("history write failed")
			}

		case "genre":
			name := strings.Join(rest, " ")
			if name != "" && len(genres.Names()) > 0 && !genres.Has(name) {
				fmt.Printf("Unknown genre: %s (try 'genres')\n", name)
				continue
			}
			ctrl.SetGenre(ctx, name)

		case "author":
			ctrl.SetAuthor(ctx, strings.Join(rest, " "))

		case "rating":
			if len(rest) != 1 {
				fmt.Println("Usage: rating <1-5>")
				continue
			}
			r, err := strconv.Atoi(rest[0])
			if err != nil || r < 1 || r > 5 {
				// Валидация на границе UI: ядро рейтинг не проверяет
				fmt.Println("Rating must be 1..5")
				continue
			}
			ctrl.ToggleMinRating(ctx, r)

		case "sort":
			if len(rest) != 1 {
				fmt.Println("Usage: sort <none|rating|newest|title>")
				continue
			}
			key, ok := sortKeys[rest[0]]
			if !ok {
				fmt.Println("Usage: sort <none|rating|newest|title>")
				continue
			}
			ctrl.SetSort(ctx, key)

		case "available":
			ctrl.SetOnlyAvailable(ctx, !ctrl.Snapshot().State.OnlyAvailable)

		case "page":
			if len(rest) != 1 {
				fmt.Println("Usage: page <n>")
				continue
			}
			n, err := strconv.Atoi(rest[0])
			if err != nil {
				fmt.Println("Usage: page <n>")
				continue
			}
			ctrl.SetPage(ctx, n)

		case "next":
			ctrl.NextPage(ctx)

		case "prev":
			ctrl.PrevPage(ctx)

		case "clear":
			ctrl.Clear(ctx)

		case "filters":
			printFilters(ctrl.Snapshot().State, ctrl.HasActiveFilters())
			continue

		case "genres":
			for _, name := range genres.Names() {
				fmt.Println("  " + name)
			}
			continue

		case "history":
			entries, err := hist.Recent(10)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			for _, e := range entries {
				fmt.Printf("  %s  %s\n", e.At.Format("2006-01-02 15:04"), e.Query)
			}
			continue

		case "refresh":
			ctrl.Refresh(ctx)

		default:
			// Всё прочее трактуем как поиск
			ctrl.SetPendingSearch(input)
			ctrl.CommitSearch(ctx)
			if err := hist.Add(input); err != nil {
				log.WithError(err).Warn("history write failed")
			}
		}

		render(waitDone(ctrl, updates, cfg.Catalog.Timeout), ctrl)
	}
}

// waitDone drains update notifications until the in-flight fetch settles.
func waitDone(ctrl *catalog.Controller, updates <-chan struct{}, timeout time.Duration) catalog.Snapshot {
	deadline := time.After(timeout + time.Second)
	for {
		snap := ctrl.Snapshot()
		if snap.Status != catalog.StatusLoading {
			return snap
		}
		select {
		case <-updates:
		case <-deadline:
			return ctrl.Snapshot()
		}
	}
}

func render(snap catalog.Snapshot, ctrl *catalog.Controller) {
	switch snap.Status {
	case catalog.StatusFailed:
		fmt.Printf("No results: %v (try 'refresh')\n", snap.Err)
		return
	case catalog.StatusLoading:
		fmt.Println("Still loading...")
		return
	}
	if snap.Result == nil || len(snap.Result.Items) == 0 {
		fmt.Println("No results found.")
		return
	}

	fmt.Printf("\n%-30s | %-20s | %-14s | %-6s | %s\n", "Title", "Author", "Genre", "Rating", "Avail")
	fmt.Println(strings.Repeat("-", 86))
	for _, b := range snap.Result.Items {
		avail := " "
		if b.Available {
			avail = "+"
		}
		fmt.Printf("%-30s | %-20s | %-14s | %-6.1f | %s\n",
			truncate(b.Title, 30), truncate(b.Author, 20), truncate(b.Genre, 14), b.Rating, avail)
	}
	fmt.Printf("\nTotal: %d  Page %d/%d\n", snap.Result.Total, snap.State.Page, snap.Result.TotalPages)
	fmt.Println(renderWindow(ctrl.Window(), snap.State.Page))
}

func renderWindow(tokens []catalog.PageToken, current int) string {
	if len(tokens) == 0 {
		return ""
	}
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		switch {
		case t.IsEllipsis():
			parts = append(parts, "…")
		case int(t) == current:
			parts = append(parts, fmt.Sprintf("[%d]", t))
		default:
			parts = append(parts, strconv.Itoa(int(t)))
		}
	}
	return strings.Join(parts, " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func printFilters(s catalog.FilterState, active bool) {
	if !active {
		fmt.Println("No active filters.")
		return
	}
	if s.SearchText != "" {
		fmt.Printf("  search:    %s\n", s.SearchText)
	}
	if s.MinRating > 0 {
		fmt.Printf("  rating:    >= %d\n", s.MinRating)
	}
	if s.Genre != "" {
		fmt.Printf("  genre:     %s\n", s.Genre)
	}
	if s.Author != "" {
		fmt.Printf("  author:    %s\n", s.Author)
	}
	if s.Sort != catalog.SortNone {
		fmt.Printf("  sort:      %s\n", s.Sort)
	}
	if s.OnlyAvailable {
		fmt.Println("  available: only")
	}
}

func printHelp() {
	fmt.Println(`Commands:
  search <text>   commit a text search (empty clears it)
  genre <name>    filter by genre (empty clears it)
  author <text>   filter by author (empty clears it)
  rating <1-5>    minimum rating, repeat to deselect
  sort <key>      none | rating | newest | title
  available       toggle available-only
  page <n>        go to page n
  next / prev     page navigation
  clear           drop every filter
  filters         show active filters
  genres          list known genres
  history         recent committed searches
  refresh         re-run the current query
  exit            leave`)
}

func complete(line string, genreNames []string) []string {
	if rest, ok := strings.CutPrefix(line, "genre "); ok {
		var out []string
		for _, name := range genreNames {
			if strings.HasPrefix(strings.ToLower(name), strings.ToLower(rest)) {
				out = append(out, "genre "+name)
			}
		}
		return out
	}
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, strings.ToLower(line)) {
			out = append(out, c)
		}
	}
	return out
}

func serveMetrics(addr string, log *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Infof("metrics exporter on %s", addr)
	if err := http.ListenAndServe(addr, middleware.RequestLogger(log)(mux)); err != nil {
		log.WithError(err).Error("metrics exporter stopped")
	}
}
