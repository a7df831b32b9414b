// Package resolver produces the connection URL through an ordered chain of
// sources: remote secret, environment variable, local default.
//
// Each Source reports a poolcache.Outcome. The Chain tries sources in order,
// logs every failure with its kind, and returns the first URL produced.
// Reordering or replacing sources is a matter of passing a different slice.
package resolver

import (
	"context"

	"github.com/vvka-141/dbpool/pkg/poolcache"
)

// Source names used in logs, errors and metrics.
const (
	SourceRemote  = "remote-secret"
	SourceEnv     = "environment"
	SourceDefault = "default"
)

// Source is one origin of a connection URL.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Resolve attempts to produce a URL. A failed Outcome carries a *poolcache.Error.
	Resolve(ctx context.Context) poolcache.Outcome
}
