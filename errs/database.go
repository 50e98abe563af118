package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

var (
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
	ErrForeignKeyConstraint      = errors.New("foreign key constraint violation")
)

// postgres SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause == nil {
		return &ApiErr{StatusCode: http.StatusInternalServerError, err: ErrDatabaseQuery, Details: details}
	}

	// Already classified further down the stack
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	if errors.Is(cause, gorm.ErrRecordNotFound) {
		return NewNotFound(entity)
	}

	var pgErr *pgconn.PgError
	if errors.As(cause, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return NewUniqueConstraintViolationError(entity, pgErr.ConstraintName, cause)
		case pgForeignKeyViolation:
			return NewForeignKeyConstraintError(entity, pgErr.TableName, cause)
		}
	}

	// Drivers without typed errors (sqlite in tests) still carry the usual wording
	errStr := strings.ToLower(cause.Error())
	switch {
	case strings.Contains(errStr, "duplicate key"), strings.Contains(errStr, "unique constraint"):
		return NewUniqueConstraintViolationError(entity, "", cause)
	case strings.Contains(errStr, "foreign key constraint"):
		return NewForeignKeyConstraintError(entity, "", cause)
	case strings.Contains(errStr, "connection"):
		return &ApiErr{
			StatusCode: http.StatusServiceUnavailable,
			err:        ErrDatabaseConnection,
			Details:    "Unable to connect to database",
			Cause:      cause,
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func NewUniqueConstraintViolationError(entity, constraint string, cause error) *ApiErr {
	details := fmt.Sprintf("%s already exists", entity)
	if constraint != "" {
		details = fmt.Sprintf("%s already exists (%s)", entity, constraint)
	}
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrUniqueConstraintViolation,
		Details:    details,
		Cause:      cause,
	}
}

func NewForeignKeyConstraintError(entity, referencedEntity string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrForeignKeyConstraint,
		Details:    fmt.Sprintf("Foreign key constraint violation: %s references %s", entity, referencedEntity),
		Cause:      cause,
		Field:      "foreign_key",
	}
}

func IsUniqueConstraintViolationError(err error) bool {
	return errors.Is(err, ErrUniqueConstraintViolation)
}

func IsForeignKeyConstraintError(err error) bool {
	return errors.Is(err, ErrForeignKeyConstraint)
}
