package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned by Load when the client has no persisted
// session. Callers treat it as "signed out", not as a failure.
var ErrNoSession = errors.New("no persisted session")

// ErrUnavailable wraps Redis infrastructure failures so callers can
// distinguish "signed out" from "cannot reach the store".
var ErrUnavailable = errors.New("session store unavailable")

// ErrCorruptSnapshot is returned when the persisted blob cannot be
// decoded. Load deletes the blob before returning it, so the next call
// reports ErrNoSession.
var ErrCorruptSnapshot = errors.New("corrupt session snapshot")

const minSlidingTTL = time.Second

// Store persists one Snapshot per client in Redis. The key is
// <prefix>:<clientID>, so each installation of the embedding
// application owns exactly one slot; a second login from the same
// client overwrites the first.
type Store struct {
	redis   redis.UniversalClient
	prefix  string
	ttl     time.Duration
	sliding bool
}

// StoreOption configures a [Store].
type StoreOption func(*Store)

// WithTTL sets the snapshot expiry. Zero means no expiry: the snapshot
// lives until Clear.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSlidingTTL makes Load refresh the expiry on every successful
// read, so an active client never ages out. Requires a TTL of at least
// one second.
func WithSlidingTTL() StoreOption {
	return func(s *Store) {
		s.sliding = true
	}
}

// NewStore creates a session store on the given client. prefix
// namespaces all keys; it defaults to "sess".
func NewStore(client redis.UniversalClient, prefix string, opts ...StoreOption) *Store {
	if prefix == "" {
		prefix = "sess"
	}
	s := &Store{
		redis:  client,
		prefix: prefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ttl < minSlidingTTL {
		s.sliding = false
	}
	return s
}

func (s *Store) key(clientID string) string {
	return s.prefix + ":" + clientID
}

// Save persists the snapshot under the client's slot, replacing any
// previous one.
func (s *Store) Save(ctx context.Context, clientID string, snap *Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(clientID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Load returns the client's persisted snapshot, or ErrNoSession when
// the slot is empty. A blob that fails to decode is deleted and
// reported as ErrCorruptSnapshot.
func (s *Store) Load(ctx context.Context, clientID string) (*Snapshot, error) {
	data, err := s.redis.Get(ctx, s.key(clientID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	snap, err := Decode(data)
	if err != nil {
		_ = s.redis.Del(ctx, s.key(clientID)).Err()
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	if s.sliding {
		// Best effort: a failed EXPIRE only means the slot ages out on
		// the original schedule.
		_ = s.redis.Expire(ctx, s.key(clientID), s.ttl).Err()
	}

	return snap, nil
}

// Clear removes the client's slot. Clearing an empty slot is not an
// error; logout must be idempotent.
func (s *Store) Clear(ctx context.Context, clientID string) error {
	if err := s.redis.Del(ctx, s.key(clientID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
