package repository

import (
	"errors"

	"gorm.io/gorm"
)

// StorageCode classifies storage failures so callers can tell "not found"
// from "constraint violation" from "connection failure".
type StorageCode string

const (
	StorageNotFound   StorageCode = "not_found"
	StorageConflict   StorageCode = "conflict"
	StorageConnection StorageCode = "connection"
	StorageInternal   StorageCode = "internal"
)

// StorageError wraps the underlying ORM error with an operation name and a
// code. The cause is for server logs; clients see only a generic message.
type StorageError struct {
	Op   string
	Code StorageCode
	Err  error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + string(e.Code) + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

// translate classifies a GORM error. Nil passes through.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	code := StorageInternal
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		code = StorageNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		code = StorageConflict
	case errors.Is(err, gorm.ErrInvalidDB):
		code = StorageConnection
	}
	return &StorageError{Op: op, Code: code, Err: err}
}

// IsNotFound reports whether err is a not_found storage error.
func IsNotFound(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Code == StorageNotFound
}

// IsConflict reports whether err is a conflict storage error.
func IsConflict(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Code == StorageConflict
}
