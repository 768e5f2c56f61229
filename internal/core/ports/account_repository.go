package ports

import (
	"context"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

// AccountRepository is the credential store. Every backend returns detached
// copies and maps uniqueness violations to domain.ErrDuplicateIdentifier.
type AccountRepository interface {
	// FindByLogin matches identifier against username or email among active
	// accounts. Returns domain.ErrAccountNotFound when nothing matches.
	FindByLogin(ctx context.Context, identifier string) (*domain.Account, error)
	// Upsert inserts by email, or updates the mutable fields of the existing row.
	Upsert(ctx context.Context, draft domain.AccountDraft) (*domain.Account, error)
}

// AccountDirectory enumerates stored accounts for operator tooling. Unlike
// FindByLogin it includes suspended and disabled accounts.
type AccountDirectory interface {
	// ListAccounts returns accounts ordered by id. A non-empty app keeps only
	// accounts allowed into it; limit <= 0 means no limit.
	ListAccounts(ctx context.Context, app string, limit int) ([]domain.Account, error)
	Count(ctx context.Context) (int64, error)
}
