package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a shared Redis instance, suitable when
// multiple clients drive the directory concurrently.
//
// Email uniqueness is the storage layer's job here: Register and
// CreateActive reserve the normalized email key with SETNX before writing
// the identity blob, so two racing registrations with the same email
// cannot both succeed. The pending partition is a sorted set scored by
// creation time, which makes the descending listing a single ZREVRANGE.
type Redis struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time
}

// RedisOption configures a [Redis] store.
type RedisOption func(*Redis)

// WithRedisClock overrides the time source.
func WithRedisClock(fn func() time.Time) RedisOption {
	return func(r *Redis) {
		if fn != nil {
			r.now = fn
		}
	}
}

// NewRedis creates a directory Store on the given client. prefix
// namespaces all keys; it defaults to "dir".
func NewRedis(client redis.UniversalClient, prefix string, opts ...RedisOption) *Redis {
	if prefix == "" {
		prefix = "dir"
	}
	r := &Redis{
		redis:  client,
		prefix: prefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) idKey(id string) string {
	return r.prefix + ":id:" + id
}

func (r *Redis) emailKey(email string) string {
	return r.prefix + ":email:" + email
}

func (r *Redis) pendingKey() string {
	return r.prefix + ":pending"
}

func (r *Redis) create(ctx context.Context, input CreateInput, approved bool) (Identity, error) {
	email := NormalizeEmail(input.Email)

	ident := Identity{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        email,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		Department:   input.Department,
		Approved:     approved,
		CreatedAt:    r.now().UTC(),
	}

	// The email key is the uniqueness arbiter: whoever wins the SETNX owns
	// the address, everyone else gets the duplicate error.
	reserved, err := r.redis.SetNX(ctx, r.emailKey(email), ident.ID, 0).Result()
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !reserved {
		return Identity{}, ErrDuplicateEmail
	}

	data, err := json.Marshal(ident)
	if err != nil {
		_ = r.redis.Del(ctx, r.emailKey(email)).Err()
		return Identity{}, err
	}

	_, err = r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.idKey(ident.ID), data, 0)
		if !approved {
			pipe.ZAdd(ctx, r.pendingKey(), redis.Z{
				Score:  float64(ident.CreatedAt.UnixNano()),
				Member: ident.ID,
			})
		}
		return nil
	})
	if err != nil {
		// Best-effort release of the reservation; a leaked email key is
		// recoverable by an operator, a silent duplicate is not.
		_ = r.redis.Del(ctx, r.emailKey(email)).Err()
		return Identity{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return ident, nil
}

// Register implements [Store].
func (r *Redis) Register(ctx context.Context, input CreateInput) (Identity, error) {
	return r.create(ctx, input, false)
}

// CreateActive implements [Store].
func (r *Redis) CreateActive(ctx context.Context, input CreateInput) (Identity, error) {
	return r.create(ctx, input, true)
}

// Approve implements [Store]. The ZREM on the pending set is the claim:
// exactly one caller removes the member, so a double approval loses the
// race and reports not-found.
func (r *Redis) Approve(ctx context.Context, id string) (Identity, error) {
	removed, err := r.redis.ZRem(ctx, r.pendingKey(), id).Result()
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if removed == 0 {
		return Identity{}, ErrIdentityNotFound
	}

	ident, err := r.FindByID(ctx, id)
	if err != nil {
		return Identity{}, err
	}

	ident.Approved = true
	if err := r.writeIdentity(ctx, ident); err != nil {
		return Identity{}, err
	}

	return ident, nil
}

// Reject implements [Store].
func (r *Redis) Reject(ctx context.Context, id string) error {
	removed, err := r.redis.ZRem(ctx, r.pendingKey(), id).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if removed == 0 {
		return ErrIdentityNotFound
	}

	ident, err := r.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil
		}
		return err
	}

	_, err = r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.idKey(id))
		pipe.Del(ctx, r.emailKey(ident.Email))
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// FindByEmail implements [Store].
func (r *Redis) FindByEmail(ctx context.Context, email string) (Identity, error) {
	id, err := r.redis.Get(ctx, r.emailKey(NormalizeEmail(email))).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Identity{}, ErrIdentityNotFound
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return r.FindByID(ctx, id)
}

// FindActiveByEmail implements [Store].
func (r *Redis) FindActiveByEmail(ctx context.Context, email string) (Identity, error) {
	ident, err := r.FindByEmail(ctx, email)
	if err != nil {
		return Identity{}, err
	}
	if !ident.Approved {
		return Identity{}, ErrIdentityNotFound
	}
	return ident, nil
}

// FindByID implements [Store].
func (r *Redis) FindByID(ctx context.Context, id string) (Identity, error) {
	data, err := r.redis.Get(ctx, r.idKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Identity{}, ErrIdentityNotFound
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var ident Identity
	if err := json.Unmarshal(data, &ident); err != nil {
		return Identity{}, fmt.Errorf("%w: corrupt identity blob: %v", ErrUnavailable, err)
	}
	return ident, nil
}

// ListPending implements [Store].
func (r *Redis) ListPending(ctx context.Context) ([]Identity, error) {
	ids, err := r.redis.ZRevRange(ctx, r.pendingKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	out := make([]Identity, 0, len(ids))
	for _, id := range ids {
		ident, err := r.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrIdentityNotFound) {
				// Blob already gone (e.g. mid-reject); skip the stale member.
				continue
			}
			return nil, err
		}
		out = append(out, ident)
	}

	return out, nil
}

// UpdatePasswordHash implements [Store].
func (r *Redis) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	ident, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	ident.PasswordHash = hash
	return r.writeIdentity(ctx, ident)
}

func (r *Redis) writeIdentity(ctx context.Context, ident Identity) error {
	data, err := json.Marshal(ident)
	if err != nil {
		return err
	}
	if err := r.redis.Set(ctx, r.idKey(ident.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
