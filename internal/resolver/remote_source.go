package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vvka-141/dbpool/internal/secrets"
	"github.com/vvka-141/dbpool/pkg/poolcache"
)

// RemoteSource builds the URL from a database secret held in a remote store.
type RemoteSource struct {
	selector poolcache.Selector
	store    poolcache.SecretStore
	scheme   string
	timeout  time.Duration
}

// NewRemoteSource creates a remote source. A nil selector behaves like
// poolcache.NoSecret; a non-positive timeout uses DefaultSecretTimeout.
func NewRemoteSource(selector poolcache.Selector, store poolcache.SecretStore, scheme string, timeout time.Duration) *RemoteSource {
	if selector == nil {
		selector = poolcache.NoSecret
	}
	if scheme == "" {
		scheme = poolcache.DefaultScheme
	}
	if timeout <= 0 {
		timeout = poolcache.DefaultSecretTimeout
	}
	return &RemoteSource{
		selector: selector,
		store:    store,
		scheme:   scheme,
		timeout:  timeout,
	}
}

func (s *RemoteSource) Name() string { return SourceRemote }

// Resolve asks the selector for a secret reference, fetches it and formats
// the payload as a URL. The store is not contacted when the selector yields
// nothing.
func (s *RemoteSource) Resolve(ctx context.Context) poolcache.Outcome {
	ref, ok := s.selector()
	if !ok {
		return poolcache.Failure(poolcache.KindNoSecretSelector, SourceRemote, nil)
	}
	if s.store == nil {
		return poolcache.Failure(poolcache.KindSecretFetchFailed, SourceRemote,
			errors.New("no secret store configured"))
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.store.GetSecretString(ctx, ref.Region, ref.ID)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%s timed out after %v: %w", s.store.Name(), s.timeout, err)
		}
		return poolcache.Failure(poolcache.KindSecretFetchFailed, SourceRemote, err)
	}

	payload, err := secrets.ParsePayload(raw)
	if err != nil {
		var missing *secrets.MissingFieldsError
		if errors.As(err, &missing) {
			return poolcache.Failure(poolcache.KindIncompleteSecretPayload, SourceRemote,
				fmt.Errorf("secret %q: %w", ref.ID, err))
		}
		return poolcache.Failure(poolcache.KindSecretParseFailed, SourceRemote,
			fmt.Errorf("secret %q: %w", ref.ID, err))
	}

	return poolcache.Success(payload.URL(s.scheme))
}
