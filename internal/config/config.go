// Package config loads reacton's ambient configuration (scheduler bounds,
// query cache defaults, transport address, archive path, CRDT node id)
// from a .env file and environment variables, grounded in evalgo-org-eve's viper
// usage and haricheung-agentic-shell's godotenv bootstrap.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every ambient tunable this module's satellite packages read
// at startup.
type Config struct {
	// FeedbackLoopLimit bounds re-entrant writes during a single flush.
	FeedbackLoopLimit int

	// QueryStaleTime is how long a query result is considered fresh.
	QueryStaleTime time.Duration
	// QueryCacheTime is how long after a query's last fetch its stale
	// result is still served while a background refetch runs. Query entries
	// are not evicted when it elapses.
	QueryCacheTime time.Duration

	// RedisAddr is the transport package's CRDT channel backend.
	RedisAddr string

	// ArchivePath is the recorder/archive SQLite database path.
	ArchivePath string

	// NodeID identifies this process in CRDT vector clocks.
	NodeID string
}

// Load reads .env (if present, via godotenv), then environment variables
// prefixed RECTON_, applying defaults for anything unset.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional; missing .env is not an error

	v := viper.New()
	v.SetEnvPrefix("RECTON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("feedback_loop_limit", 32)
	v.SetDefault("query.stale_time", 30*time.Second)
	v.SetDefault("query.cache_time", 5*time.Minute)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("archive.path", "reacton-sessions.db")
	v.SetDefault("node_id", "reacton-local")

	return &Config{
		FeedbackLoopLimit: v.GetInt("feedback_loop_limit"),
		QueryStaleTime:    v.GetDuration("query.stale_time"),
		QueryCacheTime:    v.GetDuration("query.cache_time"),
		RedisAddr:         v.GetString("redis.addr"),
		ArchivePath:       v.GetString("archive.path"),
		NodeID:            v.GetString("node_id"),
	}, nil
}
