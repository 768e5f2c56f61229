package domain

import (
	"slices"
	"time"
)

// AccountStatus is the lifecycle state of an account. Only active accounts may
// authenticate.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountDisabled  AccountStatus = "disabled"
)

// Valid reports whether s is one of the known account statuses.
func (s AccountStatus) Valid() bool {
	switch s {
	case AccountActive, AccountSuspended, AccountDisabled:
		return true
	}
	return false
}

// DefaultApp is the application a login is scoped to when the caller names none.
const DefaultApp = "vanelux"

// Account models a person who may log into one or more VaneLux applications.
type Account struct {
	ID           int64         `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	FullName     string        `json:"full_name"`
	Roles        []string      `json:"roles"`
	AllowedApps  []string      `json:"allowed_apps"`
	Status       AccountStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// CanUse reports whether the account's allow-list contains app.
func (a *Account) CanUse(app string) bool {
	return slices.Contains(a.AllowedApps, app)
}

// Public returns the projection handed to clients after a successful login.
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		Roles:       cloneStrings(a.Roles),
		AllowedApps: cloneStrings(a.AllowedApps),
	}
}

// Clone returns a detached copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	c.Roles = cloneStrings(a.Roles)
	c.AllowedApps = cloneStrings(a.AllowedApps)
	return &c
}

// PublicAccount never carries the password hash.
type PublicAccount struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	AllowedApps []string `json:"allowed_apps"`
}

// AccountDraft is the input of an upsert keyed on Email.
type AccountDraft struct {
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Roles        []string
	AllowedApps  []string
	// Status applies on insert only; empty means active.
	Status AccountStatus
}

// InsertStatus returns the status a newly created account gets from the draft.
func (d AccountDraft) InsertStatus() AccountStatus {
	if d.Status == "" {
		return AccountActive
	}
	return d.Status
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}
