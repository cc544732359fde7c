package domain

import "context"

// UserAccount is a login account. RefID links owner/tenant accounts to
// their business record; it is advisory and never validated against
// the owners/tenants tables. A dangling reference degrades the
// actor's visible set to empty rather than erroring.
type UserAccount struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	RefID        *int64
}

// UserRepository defines data access for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *UserAccount) error
	GetByID(ctx context.Context, id int64) (*UserAccount, error)
	GetByUsername(ctx context.Context, username string) (*UserAccount, error)
	Update(ctx context.Context, user *UserAccount) error
	Delete(ctx context.Context, id int64) error
}
