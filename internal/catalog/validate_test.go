package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.June, 15, 18, 30, 0, 0, time.UTC)

func TestValidateAuthor(t *testing.T) {
	tests := []struct {
		name      string
		in        AddAuthorInput
		wantErr   error
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing name",
			in:        AddAuthorInput{Name: "", BirthDate: "1990-01-01"},
			wantErr:   ErrMissingField,
			wantField: "name",
			wantMsg:   "Name is required.",
		},
		{
			name:      "whitespace name",
			in:        AddAuthorInput{Name: "   ", BirthDate: "1990-01-01"},
			wantErr:   ErrMissingField,
			wantField: "name",
		},
		{
			name:      "missing name wins over bad date",
			in:        AddAuthorInput{Name: "", BirthDate: "not-a-date"},
			wantErr:   ErrMissingField,
			wantField: "name",
		},
		{
			name:      "empty birthdate",
			in:        AddAuthorInput{Name: "Ann", BirthDate: ""},
			wantErr:   ErrInvalidDate,
			wantField: "birthdate",
			wantMsg:   "Invalid birthdate format.",
		},
		{
			name:      "malformed birthdate",
			in:        AddAuthorInput{Name: "Ann", BirthDate: "01/02/1990"},
			wantErr:   ErrInvalidDate,
			wantField: "birthdate",
		},
		{
			name:      "impossible birthdate",
			in:        AddAuthorInput{Name: "Ann", BirthDate: "1990-02-30"},
			wantErr:   ErrInvalidDate,
			wantField: "birthdate",
		},
		{
			name:      "future birthdate",
			in:        AddAuthorInput{Name: "Ann", BirthDate: "2024-06-16"},
			wantErr:   ErrFutureDate,
			wantField: "birthdate",
			wantMsg:   "Birthdate cannot be in the future.",
		},
		{
			name:      "malformed death date",
			in:        AddAuthorInput{Name: "Ann", BirthDate: "1990-01-01", DateOfDeath: "yesterday"},
			wantErr:   ErrInvalidDate,
			wantField: "date_of_death",
			wantMsg:   "Invalid death date format.",
		},
		{
			name:      "future death date",
			in:        AddAuthorInput{Name: "Ann", BirthDate: "1990-01-01", DateOfDeath: "2030-01-01"},
			wantErr:   ErrFutureDate,
			wantField: "date_of_death",
			wantMsg:   "Death date cannot be in the future.",
		},
		{
			name:      "death before birth",
			in:        AddAuthorInput{Name: "Ann", BirthDate: "1990-01-01", DateOfDeath: "1989-12-31"},
			wantErr:   ErrDeathBeforeBirth,
			wantField: "date_of_death",
			wantMsg:   "Death date must be after birth date.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateAuthor(tt.in, fixedNow)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantField, ve.Field)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, ve.Message)
			}
		})
	}
}

func TestValidateAuthor_Valid(t *testing.T) {
	t.Run("born today", func(t *testing.T) {
		a, err := validateAuthor(AddAuthorInput{Name: " Ann ", BirthDate: "2024-06-15"}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "Ann", a.Name)
		assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), a.BirthDate)
		assert.Nil(t, a.DateOfDeath)
	})

	t.Run("died on birth day", func(t *testing.T) {
		a, err := validateAuthor(AddAuthorInput{Name: "Ann", BirthDate: "1900-03-04", DateOfDeath: "1900-03-04"}, fixedNow)
		require.NoError(t, err)
		require.NotNil(t, a.DateOfDeath)
		assert.Equal(t, a.BirthDate, *a.DateOfDeath)
	})

	t.Run("blank death date is ignored", func(t *testing.T) {
		a, err := validateAuthor(AddAuthorInput{Name: "Ann", BirthDate: "1900-03-04", DateOfDeath: "  "}, fixedNow)
		require.NoError(t, err)
		assert.Nil(t, a.DateOfDeath)
	})
}

func TestValidateBook(t *testing.T) {
	tests := []struct {
		name      string
		in        AddBookInput
		wantErr   error
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing title",
			in:        AddBookInput{ISBN: "123", PublicationYear: "2000-01-01", AuthorID: 1},
			wantErr:   ErrMissingField,
			wantField: "title",
			wantMsg:   "All fields are required.",
		},
		{
			name:      "missing isbn",
			in:        AddBookInput{Title: "T", PublicationYear: "2000-01-01", AuthorID: 1},
			wantErr:   ErrMissingField,
			wantField: "isbn",
		},
		{
			name:      "missing publication date",
			in:        AddBookInput{Title: "T", ISBN: "123", AuthorID: 1},
			wantErr:   ErrMissingField,
			wantField: "publication_year",
		},
		{
			name:      "bad publication date",
			in:        AddBookInput{Title: "T", ISBN: "123", PublicationYear: "2000", AuthorID: 1},
			wantErr:   ErrInvalidDate,
			wantField: "publication_year",
			wantMsg:   "Invalid publication date.",
		},
		{
			name:      "future publication date",
			in:        AddBookInput{Title: "T", ISBN: "123", PublicationYear: "2099-01-01", AuthorID: 1},
			wantErr:   ErrFutureDate,
			wantField: "publication_year",
			wantMsg:   "Publication date can't be in the future.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateBook(tt.in, fixedNow)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, ve.Message)
			}
		})
	}
}

func TestValidateBook_Valid(t *testing.T) {
	b, err := validateBook(AddBookInput{Title: " Dune ", ISBN: " 9780441013593 ", PublicationYear: "1965-08-01", AuthorID: 7}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, "9780441013593", b.ISBN)
	assert.Equal(t, time.Date(1965, time.August, 1, 0, 0, 0, 0, time.UTC), b.PublicationYear)
	assert.Equal(t, int64(7), b.AuthorID)
}

func TestParseSortBy(t *testing.T) {
	assert.Equal(t, SortByAuthor, ParseSortBy("author"))
	assert.Equal(t, SortByTitle, ParseSortBy("title"))
	assert.Equal(t, SortByTitle, ParseSortBy(""))
	assert.Equal(t, SortByTitle, ParseSortBy("AUTHOR"))
	assert.Equal(t, SortByTitle, ParseSortBy("year"))
}

func TestStorageErr(t *testing.T) {
	base := errors.New("connection reset")

	err := storageErr("list books", base)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "list books: connection reset", err.Error())

	assert.Same(t, ErrNotFound, storageErr("x", ErrNotFound))
	assert.Nil(t, storageErr("x", nil))

	wrapped := storageErr("outer", err)
	assert.Equal(t, err, wrapped)
}
