package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

const accountColumns = `id, username, email, password_hash, full_name, roles, allowed_apps, status, created_at, updated_at`

// AccountRepository is the embedded credential store.
type AccountRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db, now: time.Now}
}

// FindByLogin matches identifier against username or email among active
// accounts. TEXT equality is case-sensitive.
func (r *AccountRepository) FindByLogin(ctx context.Context, identifier string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts
		 WHERE (username = ? OR email = ?) AND status = ?
		 ORDER BY id LIMIT 1`,
		identifier, identifier, string(domain.AccountActive))

	acc, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, mapError("find account", err)
	}
	return acc, nil
}

// Upsert is a single statement keyed on email. On conflict only the password
// hash, full name, roles, allowed apps and updated_at change.
func (r *AccountRepository) Upsert(ctx context.Context, d domain.AccountDraft) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	roles, err := encodeList(d.Roles)
	if err != nil {
		return nil, err
	}
	apps, err := encodeList(d.AllowedApps)
	if err != nil {
		return nil, err
	}
	now := formatTime(r.now())

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO accounts (username, email, password_hash, full_name, roles, allowed_apps, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET
		     password_hash = excluded.password_hash,
		     full_name     = excluded.full_name,
		     roles         = excluded.roles,
		     allowed_apps  = excluded.allowed_apps,
		     updated_at    = excluded.updated_at
		 RETURNING `+accountColumns,
		d.Username, d.Email, d.PasswordHash, d.FullName, roles, apps, string(d.InsertStatus()), now, now)

	acc, err := scanAccount(row)
	if err != nil {
		return nil, mapError("upsert account", err)
	}
	return acc, nil
}

// Count returns the number of stored accounts.
func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, mapError("count accounts", err)
	}
	return n, nil
}

// ListAccounts returns accounts of every status ordered by id. A non-empty app
// keeps only accounts whose allowed_apps array contains it.
func (r *AccountRepository) ListAccounts(ctx context.Context, app string, limit int) ([]domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + accountColumns + ` FROM accounts`
	args := []any{}
	if app != "" {
		query += ` WHERE EXISTS (
		     SELECT 1 FROM json_each(CASE WHEN json_valid(allowed_apps) THEN allowed_apps ELSE '[]' END)
		     WHERE value = ?)`
		args = append(args, app)
	}
	query += ` ORDER BY id LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list accounts", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]domain.Account, 0)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, mapError("scan account", err)
		}
		out = append(out, *acc)
	}
	return out, mapError("list accounts", rows.Err())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		acc              domain.Account
		roles, apps      string
		status           string
		created, updated string
	)
	if err := row.Scan(&acc.ID, &acc.Username, &acc.Email, &acc.PasswordHash, &acc.FullName,
		&roles, &apps, &status, &created, &updated); err != nil {
		return nil, err
	}

	var err error
	if acc.Roles, err = decodeList(roles); err != nil {
		return nil, fmt.Errorf("decode roles of account %d: %w", acc.ID, err)
	}
	if acc.AllowedApps, err = decodeList(apps); err != nil {
		return nil, fmt.Errorf("decode allowed_apps of account %d: %w", acc.ID, err)
	}
	acc.Status = domain.AccountStatus(status)
	if acc.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if acc.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &acc, nil
}

func encodeList(in []string) (string, error) {
	if in == nil {
		in = []string{}
	}
	b, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

// decodeList accepts the JSON array the schema stores. An empty column reads
// as an empty list.
func decodeList(s string) ([]string, error) {
	if s == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
