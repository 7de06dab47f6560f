// db.go
//
// Database bootstrap for the server binary: open the SQLite file and apply
// the embedded migrations before any handler runs.

package main

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/schema"
)

// openDB opens dsn and brings its schema up to date.
func openDB(dsn string) (*sql.DB, error) {
	db, err := schema.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	if err := schema.Apply(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dsn, err)
	}
	log.Info().Str("dsn", dsn).Msg("database ready")
	return db, nil
}
