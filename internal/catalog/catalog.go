package catalog

import (
	"time"
)

// DateLayout is the ISO calendar date format accepted for every date field.
const DateLayout = "2006-01-02"

// Author represents a book author.
type Author struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	BirthDate   time.Time  `json:"birth_date"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
}

// Book represents a catalog book. PublicationYear holds a full date.
type Book struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	ISBN            string    `json:"isbn"`
	PublicationYear time.Time `json:"publication_year"`
	AuthorID        int64     `json:"author_id"`
}

// BookWithAuthor is a book row joined with its author.
type BookWithAuthor struct {
	Book
	Author Author `json:"author"`
}

// SortBy selects the ordering of a book listing.
type SortBy string

const (
	SortByTitle  SortBy = "title"
	SortByAuthor SortBy = "author"
)

// ParseSortBy maps a raw query value to a SortBy. Anything but "author" sorts by title.
func ParseSortBy(raw string) SortBy {
	if SortBy(raw) == SortByAuthor {
		return SortByAuthor
	}
	return SortByTitle
}

// ListQuery defines the filter and ordering for listing books.
type ListQuery struct {
	SortBy SortBy
	Search string
}

// AddAuthorInput carries the raw form values for a new author.
type AddAuthorInput struct {
	Name        string
	BirthDate   string
	DateOfDeath string
}

// AddBookInput carries the raw form values for a new book.
type AddBookInput struct {
	Title           string
	ISBN            string
	PublicationYear string
	AuthorID        int64
}

// DeleteResult describes what a book deletion removed.
type DeleteResult struct {
	DeletedTitle  string `json:"deleted_title"`
	AuthorID      int64  `json:"author_id"`
	AuthorDeleted bool   `json:"author_deleted"`
}
