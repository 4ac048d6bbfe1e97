package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	// unique_violation
	pgUniqueViolation = "23505"
	// serialization_failure / deadlock_detected。トランザクション再試行で解消しうる
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// Postgresの一意制約違反かどうか
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// リトライで解消しうる競合（デッドロック・直列化失敗）かどうか
func isRetryableConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}
