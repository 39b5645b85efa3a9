package secrets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// AWSConfig configures the AWS Secrets Manager backend.
// Static keys are optional; the default credential chain is used otherwise.
type AWSConfig struct {
	Region          string
	Profile         string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint points at a local emulator such as LocalStack.
	Endpoint string
}

type awsProvider struct {
	client *secretsmanager.Client
}

func newAWSProvider(ctx context.Context, cfg AWSConfig) (provider, error) {
	if cfg.Region == "" {
		return nil, errors.New("secrets: aws requires a region")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("secrets: aws config: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg, func(o *secretsmanager.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &awsProvider{client: client}, nil
}

func (a *awsProvider) Name() ProviderType { return ProviderAWS }

func (a *awsProvider) Close() error { return nil }

func (a *awsProvider) Fetch(ctx context.Context, ref Reference) (Secret, error) {
	input := &secretsmanager.GetSecretValueInput{SecretId: aws.String(ref.Path)}
	if ref.Version != "" {
		input.VersionId = aws.String(ref.Version)
	}

	out, err := a.client.GetSecretValue(ctx, input)
	if err != nil {
		return Secret{}, fmt.Errorf("secrets: aws read %s: %w", ref.Path, err)
	}

	var secret Secret
	switch {
	case out.SecretString != nil:
		secret.Data = decodePayload([]byte(*out.SecretString))
	case out.SecretBinary != nil:
		secret.Data = map[string]string{"value": base64.StdEncoding.EncodeToString(out.SecretBinary)}
	default:
		secret.Data = map[string]string{}
	}
	secret.Metadata.Version = aws.ToString(out.VersionId)
	secret.Metadata.CreatedAt = aws.ToTime(out.CreatedDate)
	return secret, nil
}
