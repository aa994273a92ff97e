// file: internals/helpers/errkind.go
package helper

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

/* ===============================
   Structured error kinds
=================================*/

// Kind lets callers branch on what went wrong instead of matching message
// text. The upsert contract depends on this: KindDuplicate is a success.
type Kind int

const (
	KindUnknown Kind = iota
	KindDuplicate
	KindValidation
	KindNotFound
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindDuplicate:
		return "duplicate"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// KindError wraps an error with its classified kind.
type KindError struct {
	Kind Kind
	Err  error
}

func (e *KindError) Error() string { return e.Err.Error() }
func (e *KindError) Unwrap() error { return e.Err }

func NewKindError(kind Kind, err error) *KindError {
	return &KindError{Kind: kind, Err: err}
}

// Classify maps gorm / postgres errors onto a Kind.
//
// SQLSTATE classes used:
//   - 23505 unique_violation        → duplicate
//   - 23xxx other integrity errors  → validation
//   - 08xxx connection errors       → transient
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var ke *KindError
	if errors.As(err, &ke) {
		return ke.Kind
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return KindNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return KindDuplicate
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return KindDuplicate
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "23":
			return KindValidation
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08":
			return KindTransient
		}
	}

	return KindUnknown
}

func IsDuplicate(err error) bool { return Classify(err) == KindDuplicate }
func IsNotFound(err error) bool  { return Classify(err) == KindNotFound }
