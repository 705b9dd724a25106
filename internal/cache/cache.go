// Package cache is the process-local key-value store used by the settlement
// client: nonce counters, cumulative spend, decrypted signing keys, attested
// addresses. Everything is TTL-bounded; a read past expiry is a miss, and any
// miss means "re-derive from remote truth". No persistence is guaranteed.
package cache

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// Kind tags how a stored value is decoded.
type Kind string

const (
	KindService Kind = "service"
	KindBigInt  Kind = "bigint"
	KindBytes   Kind = "bytes"
)

// entry is the stored envelope: the kind travels with the value so readers
// never guess at the encoding.
type entry struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

// Cache wraps a Redis client with a key prefix.
type Cache struct {
	rdb    *redis.Client
	prefix string
}

func New(rdb *redis.Client, prefix string) *Cache {
	return &Cache{rdb: rdb, prefix: prefix}
}

func (c *Cache) key(k string) string { return c.prefix + k }

// SetItem stores a raw value under a kind with an explicit TTL.
func (c *Cache) SetItem(ctx context.Context, key string, value []byte, ttl time.Duration, kind Kind) error {
	raw, err := json.Marshal(entry{Kind: kind, Value: base64.StdEncoding.EncodeToString(value)})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return c.rdb.Set(ctx, c.key(key), raw, ttl).Err()
}

// GetItem returns the value and kind for key; found is false on a miss or an
// expired entry.
func (c *Cache) GetItem(ctx context.Context, key string) (value []byte, kind Kind, found bool, err error) {
	raw, err := c.rdb.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, "", false, nil
	}
	if err != nil {
		return nil, "", false, err
	}
	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, "", false, fmt.Errorf("decode cache entry %q: %w", key, err)
	}
	value, err = base64.StdEncoding.DecodeString(e.Value)
	if err != nil {
		return nil, "", false, fmt.Errorf("decode cache value %q: %w", key, err)
	}
	return value, e.Kind, true, nil
}

// RemoveItem evicts key.
func (c *Cache) RemoveItem(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, c.key(key)).Err()
}

// SetBigInt stores v as a big-integer entry.
func (c *Cache) SetBigInt(ctx context.Context, key string, v *big.Int, ttl time.Duration) error {
	return c.SetItem(ctx, key, []byte(v.String()), ttl, KindBigInt)
}

// GetBigInt reads a big-integer entry.
func (c *Cache) GetBigInt(ctx context.Context, key string) (*big.Int, bool, error) {
	raw, kind, found, err := c.GetItem(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	if kind != KindBigInt {
		return nil, false, fmt.Errorf("cache entry %q: want kind %s, got %s", key, KindBigInt, kind)
	}
	v, ok := new(big.Int).SetString(string(raw), 10)
	if !ok {
		return nil, false, fmt.Errorf("cache entry %q: bad big integer %q", key, raw)
	}
	return v, true, nil
}

// SetJSON stores v marshaled as JSON under the service kind.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	return c.SetItem(ctx, key, raw, ttl, KindService)
}

// GetJSON reads a JSON entry into dest.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, kind, found, err := c.GetItem(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if kind != KindService {
		return false, fmt.Errorf("cache entry %q: want kind %s, got %s", key, KindService, kind)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("unmarshal %q: %w", key, err)
	}
	return true, nil
}

// IncrBy adds delta to a counter key and refreshes its TTL, returning the new
// total. Counters are decimal strings so deltas cover the full unsigned
// 128-bit fee range; writers to the same key must serialize externally (fee
// counters sit under the per-provider locks).
func (c *Cache) IncrBy(ctx context.Context, key string, delta *big.Int, ttl time.Duration) (*big.Int, error) {
	current, err := c.GetCounter(ctx, key)
	if err != nil {
		return nil, err
	}
	total := new(big.Int).Add(current, delta)
	if err := c.rdb.Set(ctx, c.key(key), total.String(), ttl).Err(); err != nil {
		return nil, err
	}
	return total, nil
}

// GetCounter reads an IncrBy counter; returns zero on a miss.
func (c *Cache) GetCounter(ctx context.Context, key string) (*big.Int, error) {
	raw, err := c.rdb.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return big.NewInt(0), nil
	}
	if err != nil {
		return nil, err
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("counter %q: bad value %q", key, raw)
	}
	return v, nil
}

// SetLock takes a set-if-absent advisory lock with a TTL. Returns true when
// this caller won the lock.
func (c *Cache) SetLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, c.key(key), "1", ttl).Result()
}

// RemoveLock releases an advisory lock.
func (c *Cache) RemoveLock(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, c.key(key)).Err()
}
