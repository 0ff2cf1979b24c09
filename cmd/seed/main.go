package main

import (
	"context"
	"errors"
	"flag"

	"bookcatalog/internal/catalog"
	"bookcatalog/internal/config"
	"bookcatalog/internal/platform/logger"
	"bookcatalog/internal/platform/postgres"

	"github.com/rs/zerolog/log"
)

type seedBook struct {
	title string
	isbn  string
	date  string
}

type seedAuthor struct {
	author catalog.AddAuthorInput
	books  []seedBook
}

var seedData = []seedAuthor{
	{
		author: catalog.AddAuthorInput{Name: "Jane Austen", BirthDate: "1775-12-16", DateOfDeath: "1817-07-18"},
		books: []seedBook{
			{title: "Pride and Prejudice", isbn: "9780141439518", date: "1813-01-28"},
			{title: "Emma", isbn: "9780141439587", date: "1815-12-23"},
		},
	},
	{
		author: catalog.AddAuthorInput{Name: "George Orwell", BirthDate: "1903-06-25", DateOfDeath: "1950-01-21"},
		books: []seedBook{
			{title: "Nineteen Eighty-Four", isbn: "9780451524935", date: "1949-06-08"},
			{title: "Animal Farm", isbn: "9780451526342", date: "1945-08-17"},
		},
	},
	{
		author: catalog.AddAuthorInput{Name: "Chimamanda Ngozi Adichie", BirthDate: "1977-09-15"},
		books: []seedBook{
			{title: "Half of a Yellow Sun", isbn: "9781400095209", date: "2006-08-11"},
		},
	},
	{
		author: catalog.AddAuthorInput{Name: "Haruki Murakami", BirthDate: "1949-01-12"},
		books: []seedBook{
			{title: "Norwegian Wood", isbn: "9780375704024", date: "1987-09-04"},
			{title: "Kafka on the Shore", isbn: "9781400079278", date: "2002-09-12"},
		},
	},
}

func main() {
	migrate := flag.Bool("migrate", true, "apply migrations before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger.Init(cfg.Env, cfg.LogLevel)

	ctx := log.Logger.WithContext(context.Background())
	pool, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer pool.Close()

	if *migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
	}

	svc := catalog.NewService(catalog.NewPostgresRepo(pool, cfg.QueryTimeout))

	existing, err := svc.ListBooks(ctx, catalog.SortByTitle, "")
	if err != nil {
		log.Fatal().Err(err).Msg("list books")
	}
	if len(existing) > 0 {
		log.Info().Int("books", len(existing)).Msg("catalog not empty, nothing to seed")
		return
	}

	var added, skipped int
	for _, sa := range seedData {
		author, err := svc.AddAuthor(ctx, sa.author)
		if err != nil {
			log.Fatal().Err(err).Str("author", sa.author.Name).Msg("seed author")
		}
		for _, sb := range sa.books {
			_, err := svc.AddBook(ctx, catalog.AddBookInput{
				Title:           sb.title,
				ISBN:            sb.isbn,
				PublicationYear: sb.date,
				AuthorID:        author.ID,
			})
			switch {
			case err == nil:
				added++
			case errors.Is(err, catalog.ErrDuplicateISBN):
				skipped++
				log.Warn().Str("isbn", sb.isbn).Msg("book already seeded")
			default:
				log.Fatal().Err(err).Str("title", sb.title).Msg("seed book")
			}
		}
	}

	log.Info().Int("books_added", added).Int("books_skipped", skipped).Msg("seed complete")
}
