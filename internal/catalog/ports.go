package catalog

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=catalog

// Repository defines the contract for catalog storage. Every method runs against the
// handle it was called on; use WithTx to group calls into one transaction.
type Repository interface {
	// ListBooks returns books joined with their authors, filtered and ordered by q.
	ListBooks(ctx context.Context, q ListQuery) ([]BookWithAuthor, error)
	// ListAuthors returns every author ordered by name.
	ListAuthors(ctx context.Context) ([]Author, error)
	// FindAuthorByID returns ErrUnknownAuthor when no author has the id.
	FindAuthorByID(ctx context.Context, id int64) (Author, error)
	// FindBookByID returns ErrNotFound when no book has the id.
	FindBookByID(ctx context.Context, id int64) (Book, error)
	// CreateAuthor inserts a and sets its generated ID.
	CreateAuthor(ctx context.Context, a *Author) error
	// CreateBook inserts b and sets its generated ID. A duplicate ISBN yields
	// ErrDuplicateISBN, a dangling author id yields ErrUnknownAuthor.
	CreateBook(ctx context.Context, b *Book) error
	DeleteBook(ctx context.Context, id int64) error
	CountBooksByAuthor(ctx context.Context, authorID int64) (int, error)
	DeleteAuthor(ctx context.Context, id int64) error
	// WithTx runs fn inside a transaction. The transaction commits when fn returns nil
	// and rolls back otherwise.
	WithTx(ctx context.Context, fn func(Repository) error) error
}
