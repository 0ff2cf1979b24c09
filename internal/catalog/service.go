package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Service provides catalog business logic on top of a Repository.
type Service struct {
	repo Repository
	now  func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used to decide whether a date lies in the future.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new catalog service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListBooks returns every book joined with its author, optionally filtered by a
// case-insensitive substring of the title or author name.
func (s *Service) ListBooks(ctx context.Context, sortBy SortBy, search string) ([]BookWithAuthor, error) {
	q := ListQuery{SortBy: ParseSortBy(string(sortBy)), Search: search}
	books, err := s.repo.ListBooks(ctx, q)
	if err != nil {
		return nil, storageErr("list books", err)
	}
	return books, nil
}

// ListAuthors returns all authors ordered by name.
func (s *Service) ListAuthors(ctx context.Context) ([]Author, error) {
	authors, err := s.repo.ListAuthors(ctx)
	if err != nil {
		return nil, storageErr("list authors", err)
	}
	return authors, nil
}

// AddAuthor validates in and persists a new author.
func (s *Service) AddAuthor(ctx context.Context, in AddAuthorInput) (Author, error) {
	author, err := validateAuthor(in, s.now())
	if err != nil {
		return Author{}, err
	}

	err = s.repo.WithTx(ctx, func(tx Repository) error {
		return tx.CreateAuthor(ctx, &author)
	})
	if err != nil {
		return Author{}, storageErr("create author", err)
	}

	zerolog.Ctx(ctx).Info().Int64("author_id", author.ID).Str("name", author.Name).Msg("author created")
	return author, nil
}

// AddBook validates in and persists a new book for an existing author.
func (s *Service) AddBook(ctx context.Context, in AddBookInput) (Book, error) {
	book, err := validateBook(in, s.now())
	if err != nil {
		return Book{}, err
	}
	if book.AuthorID <= 0 {
		return Book{}, unknownAuthor()
	}

	err = s.repo.WithTx(ctx, func(tx Repository) error {
		if _, err := tx.FindAuthorByID(ctx, book.AuthorID); err != nil {
			return err
		}
		return tx.CreateBook(ctx, &book)
	})
	if err != nil {
		if errors.Is(err, ErrUnknownAuthor) {
			return Book{}, unknownAuthor()
		}
		return Book{}, storageErr("create book", err)
	}

	zerolog.Ctx(ctx).Info().Int64("book_id", book.ID).Int64("author_id", book.AuthorID).Msg("book created")
	return book, nil
}

// DeleteBook removes a book and, when it was the author's last one, the author too.
// Both deletions commit together or not at all.
func (s *Service) DeleteBook(ctx context.Context, id int64) (DeleteResult, error) {
	var res DeleteResult

	err := s.repo.WithTx(ctx, func(tx Repository) error {
		book, err := tx.FindBookByID(ctx, id)
		if err != nil {
			return err
		}
		res = DeleteResult{DeletedTitle: book.Title, AuthorID: book.AuthorID}

		if err := tx.DeleteBook(ctx, id); err != nil {
			return fmt.Errorf("delete book %d: %w", id, err)
		}

		remaining, err := tx.CountBooksByAuthor(ctx, book.AuthorID)
		if err != nil {
			return fmt.Errorf("count books of author %d: %w", book.AuthorID, err)
		}
		if remaining == 0 {
			if err := tx.DeleteAuthor(ctx, book.AuthorID); err != nil {
				return fmt.Errorf("delete author %d: %w", book.AuthorID, err)
			}
			res.AuthorDeleted = true
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return DeleteResult{}, ErrNotFound
		}
		zerolog.Ctx(ctx).Error().Err(err).Int64("book_id", id).Msg("delete book rolled back")
		return DeleteResult{}, &StorageError{Op: "delete book", Err: err}
	}

	logEvent := zerolog.Ctx(ctx).Info().Int64("book_id", id).Int64("author_id", res.AuthorID)
	logEvent.Bool("author_deleted", res.AuthorDeleted).Msg("book deleted")
	return res, nil
}

func unknownAuthor() error {
	return &ValidationError{Field: "author_id", Message: "Selected author does not exist.", Err: ErrUnknownAuthor}
}
