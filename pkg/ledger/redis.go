package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bft-labs/expopush/pkg/push"
)

// DefaultRedisKey is the hash that holds pending tickets.
const DefaultRedisKey = "expopush:tickets:pending"

// RedisLedger implements Ledger with a Redis hash keyed by receipt id.
type RedisLedger struct {
	rdb redis.Cmdable
	key string
	ttl time.Duration
}

// NewRedisLedger stores entries under key (DefaultRedisKey when empty). A
// positive ttl is refreshed on every Record, so an abandoned ledger expires.
func NewRedisLedger(rdb redis.Cmdable, key string, ttl time.Duration) *RedisLedger {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisLedger{rdb: rdb, key: key, ttl: ttl}
}

// DialRedis connects to addr and fails fast when the server is unreachable.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// Record implements Ledger.
func (l *RedisLedger) Record(ctx context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	values := make([]any, 0, 2*len(entries))
	for _, e := range entries {
		raw, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode entry %s: %w", e.ID, err)
		}
		values = append(values, string(e.ID), raw)
	}

	_, err := l.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, l.key, values...)
		if l.ttl > 0 {
			p.Expire(ctx, l.key, l.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record tickets: %w", err)
	}
	return nil
}

// Pending implements Ledger.
func (l *RedisLedger) Pending(ctx context.Context) ([]Entry, error) {
	fields, err := l.rdb.HGetAll(ctx, l.key).Result()
	if err != nil {
		return nil, fmt.Errorf("load pending tickets: %w", err)
	}
	out := make([]Entry, 0, len(fields))
	for id, raw := range fields {
		var e Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("decode entry %s: %w", id, err)
		}
		out = append(out, e)
	}
	sortEntries(out)
	return out, nil
}

// Resolve implements Ledger.
func (l *RedisLedger) Resolve(ctx context.Context, ids ...push.ReceiptID) error {
	if len(ids) == 0 {
		return nil
	}
	fields := make([]string, len(ids))
	for i, id := range ids {
		fields[i] = string(id)
	}
	if err := l.rdb.HDel(ctx, l.key, fields...).Err(); err != nil {
		return fmt.Errorf("resolve tickets: %w", err)
	}
	return nil
}

var _ Ledger = (*RedisLedger)(nil)
