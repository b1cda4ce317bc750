package ports

import "context"

// Serializer runs fn so that calls sharing the same key never overlap.
// Post mutations are read-modify-write cycles keyed by post id.
type Serializer interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
