package sqlite

import "database/sql"

// schema sets up the single key-value table the application state lives in.
// Each logical key holds one JSON document; updated_at is a Unix timestamp
// maintained on every write.
const schema = `
CREATE TABLE IF NOT EXISTS bill_state (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
