// Package inspect prints schema facts of the workout database through the pgx
// database/sql driver, independent of the gorm models.
package inspect

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Tables checked by Run.
var Tables = []string{"roles", "users", "workouts", "screenshots"}

// Run connects to dsn and prints row counts and foreign keys.
func Run(ctx context.Context, w io.Writer, dsn string) error {
	if dsn == "" {
		return fmt.Errorf("dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}

	fmt.Fprintln(w, "Tables:")
	for _, t := range Tables {
		var exists bool
		if err := db.QueryRowContext(ctx, `SELECT to_regclass($1) IS NOT NULL`, "public."+t).Scan(&exists); err != nil {
			return fmt.Errorf("check %s: %w", t, err)
		}
		if !exists {
			fmt.Fprintf(w, "- %s: missing\n", t)
			continue
		}
		var n int64
		// table names come from the fixed list above
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+t).Scan(&n); err != nil {
			return fmt.Errorf("count %s: %w", t, err)
		}
		fmt.Fprintf(w, "- %s: %d rows\n", t, n)
	}
	return printForeignKeys(ctx, w, db)
}

func printForeignKeys(ctx context.Context, w io.Writer, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
		  con.conname AS constraint_name,
		  rel.relname AS table_name,
		  confrel.relname AS referenced_table,
		  pg_get_constraintdef(con.oid) AS definition
		FROM pg_constraint con
		JOIN pg_class rel ON rel.oid = con.conrelid
		JOIN pg_class confrel ON confrel.oid = con.confrelid
		WHERE con.contype = 'f' AND rel.relname = ANY($1)
		ORDER BY rel.relname, con.conname;
	`, Tables)
	if err != nil {
		return fmt.Errorf("query constraints: %w", err)
	}
	defer rows.Close()

	fmt.Fprintln(w, "Foreign keys:")
	for rows.Next() {
		var cname, table, reftable, def string
		if err := rows.Scan(&cname, &table, &reftable, &def); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		fmt.Fprintf(w, "- %s: %s -> %s\n    def: %s\n", cname, table, reftable, def)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows err: %w", err)
	}
	return nil
}
