package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	isbnUniqueConstraint  = "books_isbn_key"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PostgresRepo struct {
	db      querier
	timeout time.Duration
}

var _ Repository = (*PostgresRepo)(nil)

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) WithTx(ctx context.Context, fn func(Repository) error) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(&PostgresRepo{db: tx, timeout: r.timeout}); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *PostgresRepo) ListBooks(ctx context.Context, q ListQuery) ([]BookWithAuthor, error) {
	where := ""
	args := []any{}
	if q.Search != "" {
		where = `WHERE b.title ILIKE $1 ESCAPE '\' OR a.name ILIKE $1 ESCAPE '\'`
		args = append(args, "%"+likeEscaper.Replace(q.Search)+"%")
	}

	orderBy := "b.title ASC, b.id ASC"
	if q.SortBy == SortByAuthor {
		orderBy = "a.name ASC, b.id ASC"
	}

	query := fmt.Sprintf(`
		SELECT b.id, b.title, b.isbn, b.publication_year, b.author_id,
		       a.id, a.name, a.birth_date, a.date_of_death
		FROM books b
		JOIN authors a ON a.id = b.author_id
		%s
		ORDER BY %s`, where, orderBy)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []BookWithAuthor{}
	for rows.Next() {
		var b BookWithAuthor
		if err := rows.Scan(
			&b.ID, &b.Title, &b.ISBN, &b.PublicationYear, &b.AuthorID,
			&b.Author.ID, &b.Author.Name, &b.Author.BirthDate, &b.Author.DateOfDeath,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) ListAuthors(ctx context.Context) ([]Author, error) {
	const query = `
		SELECT id, name, birth_date, date_of_death
		FROM authors
		ORDER BY name ASC, id ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Author{}
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Name, &a.BirthDate, &a.DateOfDeath); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) FindAuthorByID(ctx context.Context, id int64) (Author, error) {
	const query = `
		SELECT id, name, birth_date, date_of_death
		FROM authors
		WHERE id = $1`

	var a Author
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(&a.ID, &a.Name, &a.BirthDate, &a.DateOfDeath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Author{}, ErrUnknownAuthor
		}
		return Author{}, err
	}
	return a, nil
}

func (r *PostgresRepo) FindBookByID(ctx context.Context, id int64) (Book, error) {
	const query = `
		SELECT id, title, isbn, publication_year, author_id
		FROM books
		WHERE id = $1`

	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(&b.ID, &b.Title, &b.ISBN, &b.PublicationYear, &b.AuthorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) CreateAuthor(ctx context.Context, a *Author) error {
	const query = `
		INSERT INTO authors (name, birth_date, date_of_death)
		VALUES ($1, $2, $3)
		RETURNING id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, query, a.Name, a.BirthDate, a.DateOfDeath).Scan(&a.ID); err != nil {
		return fmt.Errorf("insert author: %w", err)
	}
	return nil
}

func (r *PostgresRepo) CreateBook(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (title, isbn, publication_year, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, b.Title, b.ISBN, b.PublicationYear, b.AuthorID).Scan(&b.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch {
			case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == isbnUniqueConstraint:
				return ErrDuplicateISBN
			case pgErr.Code == pgForeignKeyViolation:
				return ErrUnknownAuthor
			}
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *PostgresRepo) DeleteBook(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, "DELETE FROM books WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) CountBooksByAuthor(ctx context.Context, authorID int64) (int, error) {
	var count int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM books WHERE author_id = $1", authorID).Scan(&count)
	return count, err
}

func (r *PostgresRepo) DeleteAuthor(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, "DELETE FROM authors WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUnknownAuthor
	}
	return nil
}
