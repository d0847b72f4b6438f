package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslateStorageError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "lock timeout", err: &pgconn.PgError{Code: "55P03"}, want: ErrBusy},
		{name: "deadlock", err: &pgconn.PgError{Code: "40P01"}, want: ErrBusy},
		{name: "deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), want: ErrBusy},
		{name: "serialization", err: &pgconn.PgError{Code: "40001"}, want: ErrConflict},
		{name: "unique", err: &pgconn.PgError{Code: "23505"}, want: ErrConflict},
		{name: "check", err: &pgconn.PgError{Code: "23514"}, want: ErrInvalidInput},
		{name: "unknown", err: errors.New("boom"), want: ErrInternal},
		{name: "already classified", err: ErrSlotAlreadyBooked, want: ErrSlotAlreadyBooked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateStorageError(tt.err)
			if !errors.Is(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if translateStorageError(nil) != nil {
		t.Fatalf("expected nil to stay nil")
	}
}

func TestTranslateStorageErrorKeepsCause(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "XX000", Message: "internal"}
	got := translateStorageError(pgErr)

	var target *pgconn.PgError
	if !errors.As(got, &target) || target != pgErr {
		t.Fatalf("expected the original error to stay reachable, got %v", got)
	}
}

func TestTranslateBookingErrorNarrowsBusy(t *testing.T) {
	got := translateBookingError(&pgconn.PgError{Code: "55P03"})
	if !errors.Is(got, ErrSlotBusy) || !errors.Is(got, ErrBusy) {
		t.Fatalf("expected ErrSlotBusy, got %v", got)
	}

	got = translateBookingError(&pgconn.PgError{Code: "40001"})
	if !errors.Is(got, ErrConflict) || errors.Is(got, ErrBusy) {
		t.Fatalf("expected a plain conflict, got %v", got)
	}
}

func TestSpecificErrorsWrapKinds(t *testing.T) {
	pairs := []struct {
		err  error
		kind error
	}{
		{ErrUserNotFound, ErrNotFound},
		{ErrSlotNotFound, ErrNotFound},
		{ErrSlotAlreadyBooked, ErrConflict},
		{ErrSlotNotAvailable, ErrConflict},
		{ErrSlotBusy, ErrBusy},
		{ErrBookingViewUnavailable, ErrInternal},
		{ErrQuestionMissingOptions, ErrInternal},
	}
	for _, pair := range pairs {
		if !errors.Is(pair.err, pair.kind) {
			t.Fatalf("expected %v to wrap %v", pair.err, pair.kind)
		}
	}
}
