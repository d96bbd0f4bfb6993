package inspect

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"
)

var tableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// TruncateStatement builds the TRUNCATE for the requested tables. Only names
// from Tables are accepted; blanks are ignored.
func TruncateStatement(requested []string) (string, error) {
	var quoted []string
	for _, t := range requested {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !tableName.MatchString(t) || !slices.Contains(Tables, t) {
			return "", fmt.Errorf("table %q cannot be reset", t)
		}
		q := `"` + t + `"`
		if !slices.Contains(quoted, q) {
			quoted = append(quoted, q)
		}
	}
	if len(quoted) == 0 {
		return "", fmt.Errorf("no tables to reset")
	}
	return fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", ")), nil
}

// Reset truncates the requested tables. With dryRun it only prints the statement.
func Reset(ctx context.Context, w io.Writer, dsn string, requested []string, dryRun bool) error {
	stmt, err := TruncateStatement(requested)
	if err != nil {
		return err
	}
	if dryRun {
		fmt.Fprintf(w, "dry-run: %s\n", stmt)
		return nil
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	fmt.Fprintf(w, "executed: %s\n", stmt)
	return nil
}
