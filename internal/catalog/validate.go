package catalog

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// check is one step of a validation pipeline.
type check func() error

// runChecks runs checks in order and returns the first failure.
func runChecks(checks ...check) error {
	for _, c := range checks {
		if err := c(); err != nil {
			return err
		}
	}
	return nil
}

func required(field, value, message string) check {
	return func() error {
		if err := validation.Validate(value, validation.Required); err != nil {
			return &ValidationError{Field: field, Message: message, Err: ErrMissingField}
		}
		return nil
	}
}

// requiredAll reports a single MissingField naming the first empty field.
func requiredAll(message string, fields ...[2]string) check {
	return func() error {
		for _, f := range fields {
			if err := required(f[0], f[1], message)(); err != nil {
				return err
			}
		}
		return nil
	}
}

func isoDate(field, value, message string) check {
	return func() error {
		if err := validation.Validate(value, validation.Required, validation.Date(DateLayout)); err != nil {
			return &ValidationError{Field: field, Message: message, Err: ErrInvalidDate}
		}
		return nil
	}
}

func notAfter(field, value string, limit time.Time, message string) check {
	return func() error {
		if err := validation.Validate(value, validation.Date(DateLayout).Max(limit)); err != nil {
			return &ValidationError{Field: field, Message: message, Err: ErrFutureDate}
		}
		return nil
	}
}

func notBefore(field, value string, limit time.Time, message string) check {
	return func() error {
		if err := validation.Validate(value, validation.Date(DateLayout).Min(limit)); err != nil {
			return &ValidationError{Field: field, Message: message, Err: ErrDeathBeforeBirth}
		}
		return nil
	}
}

// parseDate must only be called on values that already passed isoDate.
func parseDate(value string) time.Time {
	t, _ := time.Parse(DateLayout, value)
	return t
}

// today returns the calendar date of now as midnight UTC, comparable with parsed dates.
func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// validateAuthor runs the add-author pipeline and returns the author to persist.
func validateAuthor(in AddAuthorInput, now time.Time) (Author, error) {
	name := strings.TrimSpace(in.Name)
	deathText := strings.TrimSpace(in.DateOfDeath)
	day := today(now)

	err := runChecks(
		required("name", name, "Name is required."),
		isoDate("birthdate", in.BirthDate, "Invalid birthdate format."),
		notAfter("birthdate", in.BirthDate, day, "Birthdate cannot be in the future."),
	)
	if err != nil {
		return Author{}, err
	}

	author := Author{Name: name, BirthDate: parseDate(in.BirthDate)}
	if deathText == "" {
		return author, nil
	}

	err = runChecks(
		isoDate("date_of_death", deathText, "Invalid death date format."),
		notAfter("date_of_death", deathText, day, "Death date cannot be in the future."),
		notBefore("date_of_death", deathText, author.BirthDate, "Death date must be after birth date."),
	)
	if err != nil {
		return Author{}, err
	}

	death := parseDate(deathText)
	author.DateOfDeath = &death
	return author, nil
}

// validateBook runs the add-book pipeline. Author existence is checked by the service
// inside the write transaction.
func validateBook(in AddBookInput, now time.Time) (Book, error) {
	title := strings.TrimSpace(in.Title)
	isbn := strings.TrimSpace(in.ISBN)

	err := runChecks(
		requiredAll("All fields are required.",
			[2]string{"title", title},
			[2]string{"isbn", isbn},
			[2]string{"publication_year", in.PublicationYear},
		),
		isoDate("publication_year", in.PublicationYear, "Invalid publication date."),
		notAfter("publication_year", in.PublicationYear, today(now), "Publication date can't be in the future."),
	)
	if err != nil {
		return Book{}, err
	}

	return Book{
		Title:           title,
		ISBN:            isbn,
		PublicationYear: parseDate(in.PublicationYear),
		AuthorID:        in.AuthorID,
	}, nil
}
