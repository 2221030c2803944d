package directory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/midroc-erp/authcore/rbac"
)

var (
	// ErrDuplicateEmail is returned when a registration or direct creation
	// uses an email already present in either partition.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrIdentityNotFound is returned by lookups that miss, and by
	// approve/reject when the identity is no longer pending.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrUnavailable wraps infrastructure failures of the backing store.
	ErrUnavailable = errors.New("directory unavailable")
)

// Identity is one user account record, active or pending.
type Identity struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         rbac.Role `json:"role"`
	Department   string    `json:"department,omitempty"`
	Approved     bool      `json:"approved"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateInput carries the fields needed to create an identity. The
// password arrives pre-hashed; the directory never sees plaintext.
type CreateInput struct {
	Name         string
	Email        string
	PasswordHash string
	Role         rbac.Role
	Department   string
}

// Store is the account directory contract. All mutations return typed
// errors rather than panicking; only infrastructure failures wrap
// [ErrUnavailable].
type Store interface {
	// Register creates a pending identity. Fails with ErrDuplicateEmail if
	// the email exists in either partition.
	Register(ctx context.Context, input CreateInput) (Identity, error)

	// CreateActive is the administrator path: the identity is created
	// directly in the active partition, bypassing approval.
	CreateActive(ctx context.Context, input CreateInput) (Identity, error)

	// Approve moves a pending identity to the active partition and sets
	// its approval flag. A second call for the same identity fails with
	// ErrIdentityNotFound since it is no longer pending.
	Approve(ctx context.Context, id string) (Identity, error)

	// Reject permanently removes a pending identity. No record is kept.
	Reject(ctx context.Context, id string) error

	// FindByEmail looks the email up across both partitions.
	FindByEmail(ctx context.Context, email string) (Identity, error)

	// FindActiveByEmail looks the email up in the active partition only.
	FindActiveByEmail(ctx context.Context, email string) (Identity, error)

	// FindByID looks an identity up by identifier across both partitions.
	FindByID(ctx context.Context, id string) (Identity, error)

	// ListPending returns the pending partition ordered by creation time
	// descending (most recent request first).
	ListPending(ctx context.Context) ([]Identity, error)

	// UpdatePasswordHash replaces the stored credential hash, e.g. after a
	// parameter upgrade on login.
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// NormalizeEmail canonicalizes an email for uniqueness checks: trimmed and
// lowercased. Uniqueness is defined over the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
