package service

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrorKind is the machine-readable error taxonomy surfaced to API callers.
type ErrorKind string

const (
	KindNotFound   ErrorKind = "not_found"
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindPermission ErrorKind = "permission"
)

// Error carries an error kind and a human-readable message. Message text is
// informational; callers dispatch on the kind.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Permissionf(format string, args ...any) error {
	return &Error{Kind: KindPermission, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the error kind, or "" for errors outside the taxonomy.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

const pqUniqueViolation = "23505"

// isUniqueViolation reports whether err is a database unique-constraint
// failure. Toggle and subscribe writes check existence before inserting, but
// two concurrent identical requests can both pass that check; the unique
// index then rejects the loser and the violation must surface as a conflict,
// not a crash. The postgres pool is opened through lib/pq, so its error codes
// are checked alongside gorm's translated sentinel (sqlite in tests).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// asConflict maps unique violations to a conflict error with the given
// message and returns other errors unchanged.
func asConflict(err error, format string, args ...any) error {
	if isUniqueViolation(err) {
		return Conflictf(format, args...)
	}
	return err
}
