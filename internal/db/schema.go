package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Tables lists the tables the migrations create.
var Tables = []string{"users", "travel_services", "bookings", "booking_passengers", "reviews"}

// MissingTables returns the names in want that do not exist in the current
// schema, in the order given.
func MissingTables(ctx context.Context, db *sqlx.DB, want ...string) ([]string, error) {
	if len(want) == 0 {
		return nil, nil
	}
	q, args, err := sqlx.In(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name IN (?)`, want)
	if err != nil {
		return nil, err
	}
	var found []string
	if err := db.SelectContext(ctx, &found, db.Rebind(q), args...); err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(found))
	for _, name := range found {
		have[name] = true
	}
	var missing []string
	for _, name := range want {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
