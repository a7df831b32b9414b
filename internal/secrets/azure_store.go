package secrets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"

	"github.com/vvka-141/dbpool/internal/logging"
	"github.com/vvka-141/dbpool/pkg/poolcache"
)

// keyVaultAPI is the subset of *azsecrets.Client used by AzureStore.
type keyVaultAPI interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

// AzureStore fetches secrets from Azure Key Vault.
//
// The region of a secret reference names the vault: either a bare vault name
// ("my-vault" → https://my-vault.vault.azure.net) or a full vault URL. The id
// is the secret name, optionally suffixed with "/<version>".
//
// Without an explicit credential, Azure's DefaultAzureCredential chain is used:
// environment variables, workload identity, managed identity, Azure CLI.
type AzureStore struct {
	logger poolcache.Logger

	mu         sync.Mutex
	credential azcore.TokenCredential

	newClient func(vaultURL string, cred azcore.TokenCredential) (keyVaultAPI, error)
}

// NewAzureStore creates a Key Vault store. cred may be nil.
func NewAzureStore(cred azcore.TokenCredential, logger poolcache.Logger) *AzureStore {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &AzureStore{
		logger:     logger,
		credential: cred,
		newClient: func(vaultURL string, cred azcore.TokenCredential) (keyVaultAPI, error) {
			return azsecrets.NewClient(vaultURL, cred, nil)
		},
	}
}

// GetSecretString returns the value of the secret id in the vault named by region.
func (s *AzureStore) GetSecretString(ctx context.Context, region, id string) (string, error) {
	if region == "" {
		return "", fmt.Errorf("azure key vault requires a vault name")
	}

	cred, err := s.tokenCredential()
	if err != nil {
		return "", err
	}

	vaultURL := VaultURL(region)
	client, err := logging.Timed(s.logger, "construct key vault client", func() (keyVaultAPI, error) {
		return s.newClient(vaultURL, cred)
	})
	if err != nil {
		return "", fmt.Errorf("failed to create key vault client for %s: %w", vaultURL, err)
	}

	name, version, _ := strings.Cut(id, "/")
	resp, err := logging.Timed(s.logger, "get secret", func() (azsecrets.GetSecretResponse, error) {
		return client.GetSecret(ctx, name, version, nil)
	})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %q from %s: %w", name, vaultURL, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("secret %q has no value", name)
	}
	return *resp.Value, nil
}

func (s *AzureStore) tokenCredential() (azcore.TokenCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.credential != nil {
		return s.credential, nil
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure default credential: %w", err)
	}
	s.credential = cred
	return cred, nil
}

// Name returns a human-readable representation of the store.
func (s *AzureStore) Name() string {
	return "azure-keyvault"
}

// VaultURL expands a bare vault name into its https://<name>.vault.azure.net URL.
// Values that already look like URLs are returned unchanged.
func VaultURL(vault string) string {
	if strings.Contains(vault, "://") {
		return vault
	}
	return fmt.Sprintf("https://%s.vault.azure.net", vault)
}

var _ poolcache.SecretStore = (*AzureStore)(nil)
