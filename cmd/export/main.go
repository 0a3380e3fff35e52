package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"kniga/internal/catalog"
	"kniga/internal/client"
	"kniga/internal/config"
	"kniga/internal/logger"
)

// export walks every page of one catalog query and dumps the books as
// NDJSON, one object per line.
func main() {
	outPath := flag.String("out", "books.ndjson", "Output NDJSON file")
	search := flag.String("search", "", "Committed search text")
	genre := flag.String("genre", "", "Genre name filter")
	author := flag.String("author", "", "Author text filter")
	rating := flag.Int("rating", 0, "Minimum rating (1-5, 0 = off)")
	available := flag.Bool("available", false, "Only available books")
	sortKey := flag.String("sort", "", "Sort key: rating_desc, created_at_desc, title_asc")
	flag.Parse()

	cfg := config.Get()
	logger.SetDebug(cfg.Catalog.Debug)
	log := logrus.StandardLogger()

	if *rating < 0 || *rating > 5 {
		log.Fatalf("rating must be 0..5, got %d", *rating)
	}

	st := catalog.NewFilterState(cfg.Browser.PageSize)
	if *search != "" {
		st = st.WithPendingSearch(*search).CommitSearch()
	}
	if *genre != "" {
		st = st.WithGenre(*genre)
	}
	if *author != "" {
		st = st.WithAuthor(*author)
	}
	if *rating > 0 {
		st = st.ToggleMinRating(*rating)
	}
	if *available {
		st = st.WithOnlyAvailable(true)
	}
	if *sortKey != "" {
		st = st.WithSort(catalog.SortKey(*sortKey))
	}

	api := client.New(cfg.Catalog, log)
	ctx := context.Background()

	f, err := os.Create(*outPath)
	if err != nil {
		log.WithError(err).Fatal("cannot create output file")
	}
	defer f.Close()
	enc := json.NewEncoder(f)

	first, err := api.List(ctx, catalog.BuildQuery(st))
	if err != nil {
		log.WithError(err).Fatal("catalog unavailable")
	}
	if first.Total == 0 {
		log.Info("nothing matches the query")
		return
	}

	bar := progressbar.Default(int64(first.TotalPages), "📚 exporting")

	exported := 0
	writePage := func(res *catalog.ListResult) {
		for _, b := range res.Items {
			if err := enc.Encode(b); err != nil {
				log.WithError(err).Fatal("write failed")
			}
			exported++
		}
		_ = bar.Add(1)
	}

	writePage(first)
	for page := 2; page <= first.TotalPages; page++ {
		st = st.WithPage(page)
		res, err := api.List(ctx, catalog.BuildQuery(st))
		if err != nil {
			log.WithError(err).WithField("page", page).Fatal("page fetch failed")
		}
		writePage(res)
	}

	log.WithFields(logrus.Fields{
		"books": exported,
		"pages": first.TotalPages,
		"file":  *outPath,
	}).Info("export complete")
}
