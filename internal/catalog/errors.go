package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidDate      = errors.New("invalid date")
	ErrFutureDate       = errors.New("date is in the future")
	ErrDeathBeforeBirth = errors.New("date of death precedes birth date")
	ErrUnknownAuthor    = errors.New("author does not exist")
	ErrNotFound         = errors.New("book not found")
	ErrStorage          = errors.New("storage error")
	ErrDuplicateISBN    = errors.New("a book with this ISBN already exists")
)

// ValidationError is returned when user input fails the validation pipeline.
// Message is safe to show to the user as is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StorageError wraps a failure reported by the store. It matches ErrStorage.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// storageErr wraps err as a StorageError unless it already carries a domain meaning.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnknownAuthor) {
		return err
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
