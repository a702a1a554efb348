package types

import (
	"context"
	"time"
)

// Dataset keys for the freshness gate.
const (
	DATASET_CURRENT_RESOURCES = "current_resources"
	DATASET_RESOURCE_TREE     = "resource_tree"
	DATASET_SCHEMATICS        = "schematics"
)

// CacheTimestamp marks the last successful sync of one dataset.
type CacheTimestamp struct {
	DatasetKey  string `json:"dataset_key" db:"dataset_key"`
	LastUpdated int64  `json:"last_updated" db:"last_updated"`
}

// Cache is the shared short-lived cache surface. Implementations may be
// process-local; losing entries is safe and only costs extra remote calls.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error
	Expire(ctx context.Context, key string, expiration time.Duration) error
}
