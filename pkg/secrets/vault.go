package secrets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	vault "github.com/hashicorp/vault/api"
)

// VaultConfig configures the HashiCorp Vault KV v2 backend.
type VaultConfig struct {
	Address       string
	Token         string
	Namespace     string
	MountPath     string
	CACert        string
	TLSSkipVerify bool
}

type vaultProvider struct {
	client *vault.Client
	mount  string
}

func newVaultProvider(cfg VaultConfig) (provider, error) {
	if cfg.Address == "" || cfg.Token == "" {
		return nil, errors.New("secrets: vault requires address and token")
	}

	clientCfg := vault.DefaultConfig()
	clientCfg.Address = cfg.Address
	if cfg.CACert != "" || cfg.TLSSkipVerify {
		if err := clientCfg.ConfigureTLS(&vault.TLSConfig{CACert: cfg.CACert, Insecure: cfg.TLSSkipVerify}); err != nil {
			return nil, fmt.Errorf("secrets: vault tls: %w", err)
		}
	}

	client, err := vault.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("secrets: vault client: %w", err)
	}
	client.SetToken(cfg.Token)
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	mount := strings.Trim(cfg.MountPath, "/")
	if mount == "" {
		mount = "secret"
	}
	return &vaultProvider{client: client, mount: mount}, nil
}

func (v *vaultProvider) Name() ProviderType { return ProviderVault }

func (v *vaultProvider) Close() error { return nil }

func (v *vaultProvider) Fetch(ctx context.Context, ref Reference) (Secret, error) {
	mount := v.mount
	if ref.Mount != "" {
		mount = ref.Mount
	}
	kv := v.client.KVv2(mount)

	var (
		kvSecret *vault.KVSecret
		err      error
	)
	if ref.Version != "" {
		version, convErr := strconv.Atoi(ref.Version)
		if convErr != nil {
			return Secret{}, fmt.Errorf("secrets: vault version %q: %w", ref.Version, convErr)
		}
		kvSecret, err = kv.GetVersion(ctx, ref.Path, version)
	} else {
		kvSecret, err = kv.Get(ctx, ref.Path)
	}
	if err != nil {
		var respErr *vault.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return Secret{}, fmt.Errorf("secrets: vault path %s/%s not found", mount, ref.Path)
		}
		return Secret{}, fmt.Errorf("secrets: vault read %s: %w", ref.Path, err)
	}

	secret := Secret{Data: flatten(kvSecret.Data)}
	if md := kvSecret.VersionMetadata; md != nil {
		secret.Metadata.Version = strconv.Itoa(md.Version)
		secret.Metadata.CreatedAt = md.CreatedTime
	}
	return secret, nil
}
