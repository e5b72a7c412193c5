package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
	codeDatetimeOverflow    = "22008"
)

func pgError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}

// IsUniqueViolation reports whether err is a unique-constraint violation. If
// constraint is non-empty, the violated constraint name must also contain it.
func IsUniqueViolation(err error, constraint string) bool {
	pgErr := pgError(err)
	if pgErr == nil || pgErr.Code != codeUniqueViolation {
		return false
	}
	if constraint == "" {
		return true
	}
	return strings.Contains(pgErr.ConstraintName, constraint)
}

func IsForeignKeyViolation(err error) bool {
	pgErr := pgError(err)
	return pgErr != nil && pgErr.Code == codeForeignKeyViolation
}

func IsInvalidInput(err error) bool {
	pgErr := pgError(err)
	if pgErr == nil {
		return false
	}
	switch pgErr.Code {
	case codeInvalidText, codeDatetimeOverflow:
		return true
	}
	return false
}

func ErrorMessage(err error) string {
	if pgErr := pgError(err); pgErr != nil {
		if msg := strings.TrimSpace(pgErr.Message); msg != "" {
			return msg
		}
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
