// Package cache provides the time-boxed response cache for normalized
// search results. The TTL is fixed when a store is built; entries past it
// are treated as absent.
package cache

import "context"

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}
