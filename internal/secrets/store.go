// Package secrets implements the remote secret-store collaborators and the
// parsing of database credential payloads.
//
// Supported backends:
//   - aws: AWS Secrets Manager (region = AWS region)
//   - azure: Azure Key Vault (region = vault name or URL)
package secrets

import (
	"fmt"
	"strings"

	"github.com/vvka-141/dbpool/pkg/poolcache"
)

// Backend names accepted by NewStore.
const (
	BackendAWS   = "aws"
	BackendAzure = "azure"
)

// NewStore returns the SecretStore for the named backend.
func NewStore(backend string, logger poolcache.Logger) (poolcache.SecretStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendAWS:
		return NewAWSStore(poolcache.DefaultAWSRegion, logger), nil
	case BackendAzure:
		return NewAzureStore(nil, logger), nil
	default:
		return nil, fmt.Errorf("unknown secret backend %q (expected %q or %q): %w",
			backend, BackendAWS, BackendAzure, poolcache.ErrInvalidConfig)
	}
}
