package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// GCPConfig configures Google Secret Manager.
type GCPConfig struct {
	ProjectID       string
	CredentialsFile string
}

type gcpProvider struct {
	client  *secretmanager.Client
	project string
}

func newGCPProvider(ctx context.Context, cfg GCPConfig) (provider, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("secrets: gcp requires a project id")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("secrets: gcp client: %w", err)
	}
	return &gcpProvider{client: client, project: cfg.ProjectID}, nil
}

func (g *gcpProvider) Name() ProviderType { return ProviderGCP }

func (g *gcpProvider) Close() error { return g.client.Close() }

func (g *gcpProvider) Fetch(ctx context.Context, ref Reference) (Secret, error) {
	name := gcpVersionName(g.project, ref)
	resp, err := g.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return Secret{}, fmt.Errorf("secrets: gcp read %s: %w", ref.Path, err)
	}

	secret := Secret{Data: map[string]string{}, Metadata: Metadata{Version: resp.GetName()}}
	if payload := resp.GetPayload(); payload != nil {
		secret.Data = decodePayload(payload.GetData())
	}
	return secret, nil
}

// gcpVersionName expands a short secret id into its full resource name.
func gcpVersionName(project string, ref Reference) string {
	if strings.HasPrefix(ref.Path, "projects/") {
		return ref.Path
	}
	version := ref.Version
	if version == "" {
		version = "latest"
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/%s", project, ref.Path, version)
}
