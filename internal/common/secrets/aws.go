package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
)

// AWSProvider reads from AWS Secrets Manager. Secret names are prefix+name;
// a Ref version is a VersionId.
type AWSProvider struct {
	client *secretsmanager.Client
	prefix string
}

// NewAWSProvider loads the default credential chain, overridden by static
// keys when both are set. AWSEndpoint points the client at LocalStack.
func NewAWSProvider(ctx context.Context, cfg Config) (*AWSProvider, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.AWSRegion != "" {
		opts = append(opts, config.WithRegion(cfg.AWSRegion))
	}
	if cfg.AWSAccessKey != "" && cfg.AWSSecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg, func(o *secretsmanager.Options) {
		if cfg.AWSEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpoint)
		}
	})

	prefix := cfg.AWSPrefix
	if prefix == "" {
		prefix = "/player/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &AWSProvider{client: client, prefix: prefix}, nil
}

func (p *AWSProvider) Get(ctx context.Context, key string) (string, error) {
	ref, err := ParseRef(key)
	if err != nil {
		return "", err
	}

	in := &secretsmanager.GetSecretValueInput{SecretId: aws.String(p.prefix + ref.Name)}
	if ref.Version != "" {
		in.VersionId = aws.String(ref.Version)
	}
	out, err := p.client.GetSecretValue(ctx, in)
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return "", ErrSecretNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrProviderError, err)
	}

	switch {
	case out.SecretString != nil:
		return extractField([]byte(*out.SecretString), ref.Field)
	case out.SecretBinary != nil:
		return extractField(out.SecretBinary, ref.Field)
	}
	return "", ErrSecretNotFound
}

func (p *AWSProvider) Name() string { return "aws-sm" }
