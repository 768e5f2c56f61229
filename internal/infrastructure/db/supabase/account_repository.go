package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

const usersTable = "users"

// AccountRepository stores accounts in the users table.
type AccountRepository struct {
	client *Client
	now    func() time.Time
}

func NewAccountRepository(client *Client) *AccountRepository {
	return &AccountRepository{client: client, now: time.Now}
}

// userRow mirrors the users table. roles and allowed_apps are JSON text columns
// in older projects and json/array columns in newer ones, so both are accepted.
type userRow struct {
	ID           int64      `json:"id,omitempty"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash"`
	FullName     string     `json:"full_name"`
	Roles        stringList `json:"roles"`
	AllowedApps  stringList `json:"allowed_apps"`
	Status       string     `json:"status"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func (u userRow) toDomain() *domain.Account {
	acc := &domain.Account{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Roles:        []string(u.Roles),
		AllowedApps:  []string(u.AllowedApps),
		Status:       domain.AccountStatus(u.Status),
	}
	if acc.Roles == nil {
		acc.Roles = []string{}
	}
	if acc.AllowedApps == nil {
		acc.AllowedApps = []string{}
	}
	if u.CreatedAt != nil {
		acc.CreatedAt = u.CreatedAt.UTC()
	}
	if u.UpdatedAt != nil {
		acc.UpdatedAt = u.UpdatedAt.UTC()
	}
	return acc
}

func (r *AccountRepository) FindByLogin(ctx context.Context, identifier string) (*domain.Account, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("or", fmt.Sprintf("(username.eq.%s,email.eq.%s)", quote(identifier), quote(identifier)))
	q.Set("status", "eq."+string(domain.AccountActive))
	q.Set("order", "id.asc")
	q.Set("limit", "1")

	var rows []userRow
	if _, err := r.client.do(ctx, http.MethodGet, usersTable, q, nil, &rows); err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return rows[0].toDomain(), nil
}

// ListAccounts returns accounts of every status ordered by id. allowed_apps may
// be a JSON text column, so the app filter runs after decoding.
func (r *AccountRepository) ListAccounts(ctx context.Context, app string, limit int) ([]domain.Account, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "id.asc")
	if app == "" && limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var rows []userRow
	if _, err := r.client.do(ctx, http.MethodGet, usersTable, q, nil, &rows); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		acc := row.toDomain()
		if app != "" && !acc.CanUse(app) {
			continue
		}
		out = append(out, *acc)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Count returns the exact number of rows in the users table.
func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.client.count(ctx, usersTable, nil)
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

// Upsert looks the email up, then PATCHes the mutable fields or POSTs a new
// row. A concurrent insert loses at the unique index and surfaces as
// domain.ErrDuplicateIdentifier.
func (r *AccountRepository) Upsert(ctx context.Context, d domain.AccountDraft) (*domain.Account, error) {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("email", "eq."+d.Email)

	var existing []struct {
		ID int64 `json:"id"`
	}
	if _, err := r.client.do(ctx, http.MethodGet, usersTable, q, nil, &existing); err != nil {
		return nil, fmt.Errorf("upsert account lookup: %w", err)
	}

	now := r.now().UTC()
	if len(existing) > 0 {
		return r.update(ctx, existing[0].ID, d, now)
	}
	return r.insert(ctx, d, now)
}

func (r *AccountRepository) update(ctx context.Context, id int64, d domain.AccountDraft, now time.Time) (*domain.Account, error) {
	body := map[string]any{
		"password_hash": d.PasswordHash,
		"full_name":     d.FullName,
		"roles":         stringList(d.Roles),
		"allowed_apps":  stringList(d.AllowedApps),
		"updated_at":    now,
	}
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))

	var rows []userRow
	if _, err := r.client.do(ctx, http.MethodPatch, usersTable, q, body, &rows); err != nil {
		return nil, fmt.Errorf("update account %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("update account %d: no row returned: %w", id, domain.ErrStoreUnavailable)
	}
	return rows[0].toDomain(), nil
}

func (r *AccountRepository) insert(ctx context.Context, d domain.AccountDraft, now time.Time) (*domain.Account, error) {
	row := userRow{
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FullName:     d.FullName,
		Roles:        d.Roles,
		AllowedApps:  d.AllowedApps,
		Status:       string(d.InsertStatus()),
		CreatedAt:    &now,
		UpdatedAt:    &now,
	}

	var rows []userRow
	if _, err := r.client.do(ctx, http.MethodPost, usersTable, nil, row, &rows); err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert account: no row returned: %w", domain.ErrStoreUnavailable)
	}
	return rows[0].toDomain(), nil
}

// stringList writes a JSON-encoded string, the shape the users table has always
// stored, and reads either that or a native array.
type stringList []string

func (l stringList) MarshalJSON() ([]byte, error) {
	in := []string(l)
	if in == nil {
		in = []string{}
	}
	inner, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(inner))
}

func (l *stringList) UnmarshalJSON(b []byte) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*l = arr
		return nil
	}
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("list column: %w", err)
	}
	if s == nil || *s == "" {
		*l = nil
		return nil
	}
	if err := json.Unmarshal([]byte(*s), &arr); err != nil {
		return fmt.Errorf("list column: %w", err)
	}
	*l = arr
	return nil
}
