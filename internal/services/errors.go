package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error kinds. Handlers classify with errors.Is against these.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBusy         = errors.New("busy")
	ErrInternal     = errors.New("internal error")
)

var (
	ErrUserNotFound           = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrSlotNotFound           = fmt.Errorf("%w: slot not found", ErrNotFound)
	ErrQuestionNotFound       = fmt.Errorf("%w: question not found", ErrNotFound)
	ErrBookingNotFound        = fmt.Errorf("%w: booking not found", ErrNotFound)
	ErrCoachNotFound          = fmt.Errorf("%w: coach not found", ErrNotFound)
	ErrSlotAlreadyBooked      = fmt.Errorf("%w: slot is already booked", ErrConflict)
	ErrSlotNotAvailable       = fmt.Errorf("%w: slot is not available", ErrConflict)
	ErrSlotBusy               = fmt.Errorf("%w: slot is being booked, retry shortly", ErrBusy)
	ErrBookingViewUnavailable = fmt.Errorf("%w: booking saved but could not be loaded", ErrInternal)
	ErrQuestionMissingOptions = fmt.Errorf("%w: choice question has no options", ErrInternal)
	ErrRiskScoreOutOfRange    = fmt.Errorf("%w: risk score must be between 0 and 100", ErrInvalidInput)
)

const (
	pgUniqueViolation      = "23505"
	pgCheckViolation       = "23514"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
)

// translateStorageError maps database failures onto the error kinds. Errors
// that are already classified pass through unchanged; anything unknown becomes
// ErrInternal with the cause kept for logging.
func translateStorageError(err error) error {
	if err == nil || isClassified(err) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrBusy, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgDeadlockDetected, pgQueryCanceled:
			return fmt.Errorf("%w: %w", ErrBusy, err)
		case pgSerializationFailure, pgUniqueViolation:
			return fmt.Errorf("%w: %w", ErrConflict, err)
		case pgCheckViolation, pgForeignKeyViolation:
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	return fmt.Errorf("%w: %w", ErrInternal, err)
}

func isClassified(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrBusy) ||
		errors.Is(err, ErrInternal)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
