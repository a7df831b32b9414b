package resolver

import (
	"context"

	"github.com/vvka-141/dbpool/internal/secrets"
	"github.com/vvka-141/dbpool/pkg/poolcache"
)

// DefaultSource always yields the well-known local development URL,
// <scheme>://root:password@localhost/test_db.
type DefaultSource struct {
	url poolcache.ConnectionURL
}

// NewDefaultSource creates the fallback source for scheme (DefaultScheme when empty).
func NewDefaultSource(scheme string) *DefaultSource {
	if scheme == "" {
		scheme = poolcache.DefaultScheme
	}
	p := secrets.Payload{
		Username: poolcache.DefaultUsername,
		Password: poolcache.DefaultPassword,
		Host:     poolcache.DefaultHost,
		Database: poolcache.DefaultDatabase,
	}
	return &DefaultSource{url: p.URL(scheme)}
}

func (s *DefaultSource) Name() string { return SourceDefault }

// Resolve never fails.
func (s *DefaultSource) Resolve(context.Context) poolcache.Outcome {
	return poolcache.Success(s.url)
}
