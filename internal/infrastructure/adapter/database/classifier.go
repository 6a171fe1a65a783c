package database

import (
	"errors"
	"strings"

	"github.com/bookkeeper-app/bookkeeper/internal/domain/port/persistence"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes, class 40 (transaction rollback).
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"
	pgCodeUniqueViolation      = "23505"
)

// transientMessages is the enumerated fallback for errors whose driver
// detail was lost in wrapping. Matching whole known server messages, never
// arbitrary substrings of error text.
var transientMessages = []string{
	"could not serialize access",
	"deadlock detected",
}

// classify labels a postgres failure for the retry loop. Only errors that
// represent a race between concurrent transactions are transient; retrying
// anything else would loop uselessly and mask the real defect, so unknown
// errors default to fatal.
func classify(err error) persistence.ErrorClass {
	if err == nil {
		return persistence.ErrorClassFatal
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeSerializationFailure, pgCodeDeadlockDetected:
			return persistence.ErrorClassTransient
		}
		return persistence.ErrorClassFatal
	}

	msg := strings.ToLower(err.Error())
	for _, m := range transientMessages {
		if strings.Contains(msg, m) {
			return persistence.ErrorClassTransient
		}
	}

	return persistence.ErrorClassFatal
}

// IsDuplicateKey reports whether the error is a unique constraint violation
func IsDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgCodeUniqueViolation
	}
	return false
}
