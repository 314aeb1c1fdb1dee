package secrets

import (
	"context"
	"fmt"
	"hash/crc32"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// GCPProvider reads from GCP Secret Manager. Secret ids are prefix+name.
type GCPProvider struct {
	client  *secretmanager.Client
	project string
	prefix  string
}

// NewGCPProvider uses application default credentials.
func NewGCPProvider(ctx context.Context, cfg Config) (*GCPProvider, error) {
	if cfg.GCPProject == "" {
		return nil, fmt.Errorf("%w: GCP project is required", ErrProviderError)
	}
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create GCP Secret Manager client: %w", err)
	}
	prefix := cfg.GCPPrefix
	if prefix == "" {
		prefix = "player-"
	}
	return &GCPProvider{client: client, project: cfg.GCPProject, prefix: prefix}, nil
}

// versionName is the resource name of a secret version; latest by default.
func (p *GCPProvider) versionName(ref Ref) string {
	version := ref.Version
	if version == "" {
		version = "latest"
	}
	return fmt.Sprintf("projects/%s/secrets/%s%s/versions/%s", p.project, p.prefix, ref.Name, version)
}

// Get fails on a payload whose CRC32C does not match the checksum the
// service returned.
func (p *GCPProvider) Get(ctx context.Context, key string) (string, error) {
	ref, err := ParseRef(key)
	if err != nil {
		return "", err
	}

	resp, err := p.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: p.versionName(ref),
	})
	if status.Code(err) == codes.NotFound {
		return "", ErrSecretNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderError, err)
	}

	data := resp.GetPayload().GetData()
	if sum := resp.GetPayload().DataCrc32C; sum != nil && int64(crc32.Checksum(data, castagnoli)) != *sum {
		return "", fmt.Errorf("%w: checksum mismatch for %s", ErrProviderError, ref.Name)
	}
	return extractField(data, ref.Field)
}

func (p *GCPProvider) Name() string { return "gcp-sm" }

// Close releases the gRPC connection.
func (p *GCPProvider) Close() error {
	return p.client.Close()
}
