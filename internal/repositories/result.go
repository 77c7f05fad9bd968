package repositories

import (
	"database/sql"
	"fmt"

	"travelbooking/internal/domain"
)

// requireAffected turns a zero-row write into a NotFoundError.
func requireAffected(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", resource, err)
	}
	if n == 0 {
		return domain.NotFoundError{Resource: resource}
	}
	return nil
}
