package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wricardo/gogym/game/service"
)

const (
	DefaultKeyPrefix  = "gogym:session:"
	DefaultIndexKey   = "gogym:sessions"
	DefaultSessionTTL = 24 * time.Hour
)

// RedisPersistence implements SessionPersistence on top of Redis.
// Each session is one JSON value with a TTL; live ids are kept in a set.
type RedisPersistence struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	indexKey  string
}

// NewRedisPersistence wraps an existing client. A ttl of zero keeps sessions forever.
func NewRedisPersistence(client *redis.Client, ttl time.Duration) *RedisPersistence {
	return &RedisPersistence{
		client:    client,
		ttl:       ttl,
		keyPrefix: DefaultKeyPrefix,
		indexKey:  DefaultIndexKey,
	}
}

// NewRedisPersistenceFromURL connects to a redis:// URL and checks the connection
func NewRedisPersistenceFromURL(ctx context.Context, url string, ttl time.Duration) (*RedisPersistence, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisPersistence(client, ttl), nil
}

// Save persists a session snapshot and refreshes its TTL
func (rp *RedisPersistence) Save(ctx context.Context, session *service.Session) error {
	data, err := Snapshot(session)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	id := strings.ToLower(session.ID)
	pipe := rp.client.TxPipeline()
	pipe.Set(ctx, rp.key(id), payload, rp.ttl)
	pipe.SAdd(ctx, rp.indexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write session %s: %w", session.ID, err)
	}
	return nil
}

// Load retrieves a session snapshot and rebuilds its engine
func (rp *RedisPersistence) Load(ctx context.Context, id string) (*service.Session, error) {
	id = strings.ToLower(id)
	payload, err := rp.client.Get(ctx, rp.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		// expired; drop the stale index entry
		rp.client.SRem(ctx, rp.indexKey, id)
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return Restore(&data)
}

// Delete removes a stored session
func (rp *RedisPersistence) Delete(ctx context.Context, id string) error {
	id = strings.ToLower(id)
	pipe := rp.client.TxPipeline()
	del := pipe.Del(ctx, rp.key(id))
	pipe.SRem(ctx, rp.indexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}

	if del.Val() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns the ids of stored sessions, pruning ids whose value expired
func (rp *RedisPersistence) ListAll(ctx context.Context) ([]string, error) {
	ids, err := rp.client.SMembers(ctx, rp.indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	live := make([]string, 0, len(ids))
	for _, id := range ids {
		n, err := rp.client.Exists(ctx, rp.key(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check session %s: %w", id, err)
		}
		if n == 0 {
			rp.client.SRem(ctx, rp.indexKey, id)
			continue
		}
		live = append(live, id)
	}

	sort.Strings(live)
	return live, nil
}

// Exists checks if a session is stored
func (rp *RedisPersistence) Exists(ctx context.Context, id string) (bool, error) {
	n, err := rp.client.Exists(ctx, rp.key(strings.ToLower(id))).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session %s: %w", id, err)
	}
	return n > 0, nil
}

// Touch pushes the expiry of a stored session forward by the TTL
func (rp *RedisPersistence) Touch(ctx context.Context, id string) error {
	if rp.ttl <= 0 {
		return nil
	}
	return rp.client.Expire(ctx, rp.key(strings.ToLower(id)), rp.ttl).Err()
}

// Close closes the underlying client
func (rp *RedisPersistence) Close() error {
	return rp.client.Close()
}

func (rp *RedisPersistence) key(id string) string {
	return rp.keyPrefix + id
}
