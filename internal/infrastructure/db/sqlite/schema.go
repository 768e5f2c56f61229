package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

// Column is one row of PRAGMA table_info.
type Column struct {
	CID     int
	Name    string
	Type    string
	NotNull bool
	Default string
	PK      bool
}

// TableInfo describes a table and how many rows it holds.
type TableInfo struct {
	Name    string
	Rows    int64
	Columns []Column
}

// Inspector reads the live schema of the embedded store.
type Inspector struct {
	db *sql.DB
}

func NewInspector(db *sql.DB) *Inspector {
	return &Inspector{db: db}
}

// Tables lists user tables, excluding SQLite internals and the migration ledger.
func (i *Inspector) Tables(ctx context.Context) ([]string, error) {
	rows, err := i.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master
		 WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name != 'goose_db_version'
		 ORDER BY name`)
	if err != nil {
		return nil, mapError("list tables", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, mapError("scan table name", err)
		}
		out = append(out, name)
	}
	return out, mapError("list tables", rows.Err())
}

// Describe returns columns and row count for each named table, or for every
// table when none are named. Unknown names are an error.
func (i *Inspector) Describe(ctx context.Context, names ...string) ([]TableInfo, error) {
	known, err := i.Tables(ctx)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		names = known
	}

	out := make([]TableInfo, 0, len(names))
	for _, name := range names {
		if !slices.Contains(known, name) {
			return nil, fmt.Errorf("unknown table %q", name)
		}
		cols, err := i.columns(ctx, name)
		if err != nil {
			return nil, err
		}
		// name is checked against sqlite_master above, so quoting it is safe.
		var n int64
		if err := i.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %q`, name)).Scan(&n); err != nil {
			return nil, mapError("count "+name, err)
		}
		out = append(out, TableInfo{Name: name, Rows: n, Columns: cols})
	}
	return out, nil
}

func (i *Inspector) columns(ctx context.Context, table string) ([]Column, error) {
	rows, err := i.db.QueryContext(ctx,
		`SELECT cid, name, type, "notnull", dflt_value, pk FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, mapError("table info "+table, err)
	}
	defer func() { _ = rows.Close() }()

	var out []Column
	for rows.Next() {
		var (
			c       Column
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&c.CID, &c.Name, &c.Type, &notNull, &dflt, &pk); err != nil {
			return nil, mapError("scan column", err)
		}
		c.NotNull, c.PK, c.Default = notNull != 0, pk != 0, dflt.String
		out = append(out, c)
	}
	return out, mapError("table info "+table, rows.Err())
}

// requiredTables must exist for the store to serve requests.
var requiredTables = []string{"accounts", "vlx_bookings"}

// Ping checks the connection and that the store's tables are present. It backs
// the readiness check of the sqlite backend.
func (i *Inspector) Ping(ctx context.Context) error {
	if err := i.db.PingContext(ctx); err != nil {
		return mapError("ping", err)
	}
	tables, err := i.Tables(ctx)
	if err != nil {
		return err
	}
	for _, name := range requiredTables {
		if !slices.Contains(tables, name) {
			return fmt.Errorf("ping: table %s missing: %w", name, domain.ErrStoreUnavailable)
		}
	}
	return nil
}
