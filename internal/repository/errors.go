// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values let handlers tell a missing record
// apart from a dangling reference or a blocked delete without looking at
// driver specifics.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested id does not exist.  Handlers
// translate it into a 400 response.
var ErrNotFound = errors.New("record not found")

// ErrInvalidReference is returned when a foreign id supplied on write does
// not resolve to an existing record (director of a movie, actor or movie of
// a casting).
var ErrInvalidReference = errors.New("referenced record does not exist")

// ErrHasDependents is returned when a delete would orphan dependent rows
// that are not cascaded, such as the movies of a director.  Handlers
// translate it into a 422 response.
var ErrHasDependents = errors.New("record still has dependent records")

// ErrInvalidValue is returned when the database rejects a column value
// (out of range, too long, wrong type).
var ErrInvalidValue = errors.New("invalid column value")

// MySQL server error numbers the store distinguishes.
const (
	mysqlErrRowIsReferenced = 1451 // ER_ROW_IS_REFERENCED_2
	mysqlErrNoReferencedRow = 1452 // ER_NO_REFERENCED_ROW_2
	mysqlErrDataTooLong     = 1406 // ER_DATA_TOO_LONG
	mysqlErrOutOfRange      = 1264 // ER_WARN_DATA_OUT_OF_RANGE
	mysqlErrBadValue        = 1366 // ER_TRUNCATED_WRONG_VALUE_FOR_FIELD
)

// classify maps driver errors onto the sentinels above.  Errors it does not
// recognise are returned untouched.
func classify(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case mysqlErrNoReferencedRow:
		return fmt.Errorf("%w: %s", ErrInvalidReference, me.Message)
	case mysqlErrRowIsReferenced:
		return fmt.Errorf("%w: %s", ErrHasDependents, me.Message)
	case mysqlErrDataTooLong, mysqlErrOutOfRange, mysqlErrBadValue:
		return fmt.Errorf("%w: %s", ErrInvalidValue, me.Message)
	}
	return err
}
