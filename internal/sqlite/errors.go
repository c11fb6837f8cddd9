package sqlite

import (
	"errors"
	"strings"

	"github.com/rpggio/spectator/internal/repository"
)

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "CHECK constraint failed")
}

// mapWriteError translates constraint failures into repository errors.
func mapWriteError(err error) error {
	switch {
	case isForeignKeyViolation(err):
		return errors.Join(repository.ErrForeignKeyViolation, err)
	case isUniqueViolation(err):
		return errors.Join(repository.ErrDuplicate, err)
	case isCheckViolation(err):
		return errors.Join(repository.ErrInvalidInput, err)
	}
	return err
}

// requireAffected returns repository.ErrNotFound when no row changed.
func requireAffected(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
