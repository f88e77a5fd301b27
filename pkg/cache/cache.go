// Package cache stores rendered artifacts keyed by a hash of the request
// that produced them.
//
// Backends share the [Cache] interface: [NullCache] disables caching,
// [FileCache] is used by the CLI, and [RedisCache] / [MongoCache] let several
// server instances share one store. [New] picks a backend from configuration.
//
// Keys come from a [Keyer] so that chart and network requests never collide
// and callers can isolate namespaces with [NewScopedKeyer].
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// TTLs for cached artifacts. A config TTL overrides both.
const (
	TTLChart   = 24 * time.Hour
	TTLNetwork = 6 * time.Hour
)

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss with (nil, false, nil); an error is reserved for a
// backend failure. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys from render requests. Requests are serialized to
// JSON, so any struct with stable field tags works.
type Keyer interface {
	ChartKey(req any) string
	NetworkKey(req any) string
}

// Key prefixes; they double as the key type reported to observability hooks.
const (
	KindChart   = "chart"
	KindNetwork = "network"
)

// DefaultKeyer hashes the request with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ChartKey returns "chart:<sha256>".
func (DefaultKeyer) ChartKey(req any) string {
	return hashKey(KindChart, req)
}

// NetworkKey returns "network:<sha256>".
func (DefaultKeyer) NetworkKey(req any) string {
	return hashKey(KindNetwork, req)
}

// hashKey returns "<kind>:<sha256 of the request JSON>".
func hashKey(kind string, req any) string {
	data, _ := json.Marshal(req)
	return kind + ":" + digest(data)
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
