package cache

import (
	"context"
)

type sessionKeyContext struct{}

const defaultSessionKey = "default"

// WithSessionKey sets a routing key for cache storage in the context.
func WithSessionKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, sessionKeyContext{}, key)
}

// SessionKeyFromContext gets the routing key from the context.
func SessionKeyFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(sessionKeyContext{})
	if value == nil {
		return "", false
	}
	key, ok := value.(string)
	return key, ok
}

func sessionKeyOrDefault(ctx context.Context) string {
	key, ok := SessionKeyFromContext(ctx)
	if ok && key != "" {
		return key
	}
	return defaultSessionKey
}

// Store namespaces a Cache and routes keys via the context session key,
// so several sessions can share one backing cache.
type Store[S any] struct {
	core      Cache[S]
	namespace string
}

func NewStore[S any](core Cache[S], namespace string) Store[S] {
	return Store[S]{core: core, namespace: namespace}
}

func (s Store[S]) key(ctx context.Context) string {
	return s.namespace + ":" + sessionKeyOrDefault(ctx)
}

func (s Store[S]) Set(ctx context.Context, val S) error {
	return s.core.Set(ctx, s.key(ctx), val)
}

func (s Store[S]) Get(ctx context.Context) (S, bool, error) {
	return s.core.Get(ctx, s.key(ctx))
}

func (s Store[S]) Del(ctx context.Context) error {
	return s.core.Del(ctx, s.key(ctx))
}
