package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultKVKey     = "mysql2databend:statements"
	DefaultKVChannel = "mysql2databend:statements"
	DefaultKVTTL     = 24 * time.Hour
)

// KVConfig configures the Redis statement buffer.
type KVConfig struct {
	URL     string
	Key     string
	Channel string
	TTL     time.Duration
}

// Entry is one buffered statement.
type Entry struct {
	Seq      int64  `json:"seq"`
	Database string `json:"database,omitempty"`
	SQL      string `json:"sql"`
}

// KV appends statements to a Redis sorted set, scored by their position in
// the dump, and announces each one on a channel so that a replayer can
// follow the conversion live.
type KV struct {
	client   *redis.Client
	key      string
	channel  string
	ttl      time.Duration
	seq      int64
	database string
}

// NewKV connects to the Redis server at config.URL.
func NewKV(ctx context.Context, config KVConfig, retries uint) (*KV, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse KV URL: %w", err)
	}

	client := redis.NewClient(opts)
	_, err = connectWithRetry(ctx, "kv", retries, func() (string, error) {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(pingCtx).Result()
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to KV: %w", err)
	}

	k, err := newKV(ctx, client, config)
	if err != nil {
		client.Close()
		return nil, err
	}
	return k, nil
}

// newKV continues numbering after the highest sequence number already in
// the buffer, so that consecutive runs into one key never share a score.
func newKV(ctx context.Context, client *redis.Client, config KVConfig) (*KV, error) {
	if config.Key == "" {
		config.Key = DefaultKVKey
	}
	if config.Channel == "" {
		config.Channel = DefaultKVChannel
	}
	if config.TTL <= 0 {
		config.TTL = DefaultKVTTL
	}
	k := &KV{
		client:  client,
		key:     config.Key,
		channel: config.Channel,
		ttl:     config.TTL,
	}

	last, err := client.ZRevRangeWithScores(ctx, k.key, 0, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read last sequence number: %w", err)
	}
	if len(last) > 0 {
		k.seq = int64(last[0].Score)
		slog.Info("Appending to existing statement buffer", "key", k.key, "last_seq", k.seq)
	}
	return k, nil
}

// UseDatabase tags the following entries with name.
func (k *KV) UseDatabase(ctx context.Context, name string) error {
	k.database = name
	return nil
}

// Write adds the statement to the buffer with the next sequence number as
// its score, refreshes the TTL and publishes it.
func (k *KV) Write(ctx context.Context, stmt []byte) (int, error) {
	sql := strings.TrimSpace(string(stmt))
	if sql == "" {
		return len(stmt), nil
	}

	entry := Entry{Seq: k.seq + 1, Database: k.database, SQL: sql}
	data, err := json.Marshal(entry)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal statement: %w", err)
	}

	err = k.client.ZAdd(ctx, k.key, redis.Z{
		Score:  float64(entry.Seq),
		Member: data,
	}).Err()
	if err != nil {
		return 0, fmt.Errorf("failed to add statement to KV: %w", err)
	}
	k.seq = entry.Seq

	err = k.client.Expire(ctx, k.key, k.ttl).Err()
	if err != nil {
		return 0, fmt.Errorf("failed to set TTL: %w", err)
	}

	err = k.client.Publish(ctx, k.channel, data).Err()
	if err != nil {
		return 0, fmt.Errorf("failed to publish statement: %w", err)
	}

	return len(stmt), nil
}

// EntriesAfter returns up to count buffered entries with a sequence number
// greater than seq, skipping the first offset of them.
func (k *KV) EntriesAfter(ctx context.Context, seq, offset, count int64) ([]Entry, error) {
	results, err := k.client.ZRangeByScore(ctx, k.key, &redis.ZRangeBy{
		// ( excludes seq itself
		Min:    fmt.Sprintf("(%d", seq),
		Max:    "+inf",
		Offset: offset,
		Count:  count,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get statements from KV: %w", err)
	}

	entries := make([]Entry, len(results))
	for i, result := range results {
		if err := json.Unmarshal([]byte(result), &entries[i]); err != nil {
			return nil, fmt.Errorf("failed to decode statement %d: %w", i, err)
		}
	}
	return entries, nil
}

func (k *KV) Flush(ctx context.Context) error {
	return nil
}

func (k *KV) Close() error {
	return k.client.Close()
}
