// Package database owns the SQLite connection and schema migrations for
// Hearthcloud Core.
//
// The handle embeds *sql.DB, so repositories use the standard query API;
// this package only adds lifecycle concerns: opening with the right
// pragmas, applying embedded migrations, and health checking.
//
// # Concurrency Model
//
// SQLite permits one writer. The pool is pinned to a single connection,
// which also guarantees the DSN pragmas (WAL, busy timeout, foreign
// keys) govern every statement. Reads proceed during writes under WAL.
//
// # Migrations
//
// Migrations are .up.sql/.down.sql pairs embedded into the binary and
// applied oldest-first, each in its own transaction. They are written
// additive-only: new columns are nullable or defaulted, and columns are
// never dropped or renamed, so a rollback cannot strand data.
//
// # Usage
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
package database
