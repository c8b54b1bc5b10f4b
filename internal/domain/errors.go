package domain

import (
	"errors"
	"fmt"
)

// Core errors. All of them are recoverable at the chat boundary.
var (
	// ErrStorage matches every *StorageError via errors.Is.
	ErrStorage = errors.New("storage error")

	// ErrInsufficientData is returned when the catalog is too small to build a quiz.
	ErrInsufficientData = errors.New("not enough distinct translations to build a quiz")

	// ErrUnknownTopic is returned when a topic is not in the catalog.
	ErrUnknownTopic = errors.New("unknown topic")

	// ErrNoActiveQuestion is returned when an answer arrives with no matching pending question.
	ErrNoActiveQuestion = errors.New("no active question")

	// ErrNoTopicSelected is returned when a word or quiz is requested before choosing a topic.
	ErrNoTopicSelected = errors.New("no topic selected")

	// ErrInvalidCountry is returned for country codes that are not ISO 3166 regions.
	ErrInvalidCountry = errors.New("invalid country code")

	// ErrAccessDenied is returned when a non-admin calls an admin action.
	ErrAccessDenied = errors.New("access denied")
)

// StorageError wraps a persistence failure (I/O, constraint violation).
// Callers must not assume it was retried.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorage) true for any StorageError
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// NewStorageError wraps err, returning nil for a nil err
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
