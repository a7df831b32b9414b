package secrets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/vvka-141/dbpool/internal/logging"
	"github.com/vvka-141/dbpool/pkg/poolcache"
)

// secretsManagerAPI is the subset of *secretsmanager.Client used by AWSStore.
type secretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSStore fetches secrets from AWS Secrets Manager.
// Uses the default AWS credential chain (environment variables, config files, IAM roles, etc.)
type AWSStore struct {
	fallbackRegion string
	logger         poolcache.Logger
	newClient      func(ctx context.Context, region string) (secretsManagerAPI, error)
}

// NewAWSStore creates a store for AWS Secrets Manager. fallbackRegion is used
// when neither the secret reference nor the AWS environment supplies a region.
func NewAWSStore(fallbackRegion string, logger poolcache.Logger) *AWSStore {
	if fallbackRegion == "" {
		fallbackRegion = poolcache.DefaultAWSRegion
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	s := &AWSStore{
		fallbackRegion: fallbackRegion,
		logger:         logger,
	}
	s.newClient = s.loadClient
	return s
}

// GetSecretString loads the regional AWS config, builds a client and returns
// the SecretString of the secret identified by id.
func (s *AWSStore) GetSecretString(ctx context.Context, region, id string) (string, error) {
	client, err := logging.Timed(s.logger, "load AWS config and construct client", func() (secretsManagerAPI, error) {
		return s.newClient(ctx, region)
	})
	if err != nil {
		return "", err
	}

	out, err := logging.Timed(s.logger, "get secret value", func() (*secretsmanager.GetSecretValueOutput, error) {
		return client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(id),
		})
	})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %q: %w", id, err)
	}
	if out == nil || out.SecretString == nil {
		return "", fmt.Errorf("secret %q has no string value", id)
	}
	return *out.SecretString, nil
}

func (s *AWSStore) loadClient(ctx context.Context, region string) (secretsManagerAPI, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = s.fallbackRegion
	}

	return secretsmanager.NewFromConfig(cfg), nil
}

// Name returns a human-readable representation of the store.
func (s *AWSStore) Name() string {
	return fmt.Sprintf("aws-secretsmanager(fallback-region=%s)", s.fallbackRegion)
}

var _ poolcache.SecretStore = (*AWSStore)(nil)
