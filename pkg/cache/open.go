package cache

import (
	"context"
	"fmt"
	"strings"
)

// Open returns the backend named by spec:
//
//	"" or "file"       FileCache in dir (DefaultDir when empty)
//	"none" or "off"    NullCache
//	redis://, rediss://  RedisCache
//	mongodb://, mongodb+srv://  MongoCache
func Open(ctx context.Context, spec, dir string) (Cache, error) {
	switch s := strings.TrimSpace(spec); {
	case s == "" || s == "file":
		return NewFileCache(dir)
	case s == "none" || s == "off":
		return NewNullCache(), nil
	case strings.HasPrefix(s, "redis://"), strings.HasPrefix(s, "rediss://"):
		return NewRedisCache(ctx, RedisOptions{URL: s})
	case strings.HasPrefix(s, "mongodb://"), strings.HasPrefix(s, "mongodb+srv://"):
		return NewMongoCache(ctx, MongoOptions{URI: s})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", spec)
	}
}

// Clearer is implemented by backends that can drop every entry.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Clear empties c when the backend supports it.
func Clear(ctx context.Context, c Cache) (int, error) {
	switch v := c.(type) {
	case *FileCache:
		return v.Clear()
	case Clearer:
		return v.Clear(ctx)
	}
	return 0, nil
}
