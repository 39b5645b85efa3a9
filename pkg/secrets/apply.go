package secrets

import (
	"context"
	"fmt"
	"strings"

	"github.com/richxcame/review-guard/pkg/config"
	"github.com/richxcame/review-guard/pkg/logger"
	"go.uber.org/zap"
)

// ConfigFrom maps the environment-level settings onto a backend Config.
func ConfigFrom(cfg config.SecretsConfig) Config {
	return Config{
		Provider:     ProviderType(strings.ToLower(strings.TrimSpace(cfg.Provider))),
		CacheTTL:     cfg.CacheTTL,
		AuditEnabled: cfg.AuditEnabled,
		Vault: VaultConfig{
			Address:   cfg.VaultAddress,
			Token:     cfg.VaultToken,
			Namespace: cfg.VaultNamespace,
			MountPath: cfg.VaultMount,
		},
		AWS: AWSConfig{
			Region:   cfg.AWSRegion,
			Profile:  cfg.AWSProfile,
			Endpoint: cfg.AWSEndpoint,
		},
		GCP: GCPConfig{
			ProjectID:       cfg.GCPProjectID,
			CredentialsFile: cfg.GCPCredentialsFile,
		},
		Kubernetes: KubernetesConfig{BasePath: cfg.KubernetesBasePath},
	}
}

// binding copies entries of one secret into the application config.
type binding struct {
	name     string
	typ      SecretType
	raw      string
	required string
	setters  map[string]func(string)
}

func bindings(cfg *config.Config) []binding {
	return []binding{
		{
			name: "database", typ: SecretDatabase, raw: cfg.Secrets.DatabaseRef, required: "password",
			setters: map[string]func(string){
				"username": func(v string) { cfg.Database.User = v },
				"password": func(v string) { cfg.Database.Password = v },
				"host":     func(v string) { cfg.Database.Host = v },
				"port":     func(v string) { cfg.Database.Port = v },
				"dbname":   func(v string) { cfg.Database.DBName = v },
			},
		},
		{
			name: "redis", typ: SecretRedis, raw: cfg.Secrets.RedisRef, required: "password",
			setters: map[string]func(string){
				"password": func(v string) { cfg.Redis.Password = v },
			},
		},
		{
			name: "predictor", typ: SecretPredictor, raw: cfg.Secrets.PredictorRef, required: "api_key",
			setters: map[string]func(string){
				"api_key": func(v string) { cfg.Predictor.APIKey = v },
				"url":     func(v string) { cfg.Predictor.URL = v },
			},
		},
		{
			name: "sentry", typ: SecretSentry, raw: cfg.Secrets.SentryRef, required: "dsn",
			setters: map[string]func(string){
				"dsn": func(v string) { cfg.Sentry.DSN = v },
			},
		},
		{
			name: "rate_limit_keys", typ: SecretRateLimitKeys, raw: cfg.Secrets.RateLimitKeysRef, required: "api_keys",
			setters: map[string]func(string){
				"api_keys": func(v string) { cfg.RateLimit.APIKeys = splitList(v) },
			},
		},
		{
			name: "storage", typ: SecretStorage, raw: cfg.Secrets.StorageRef, required: "secret_key",
			setters: map[string]func(string){
				"access_key": func(v string) { cfg.Storage.AccessKey = v },
				"secret_key": func(v string) { cfg.Storage.SecretKey = v },
			},
		},
	}
}

// Apply resolves every configured reference and overwrites the matching config fields.
// A reference with #key reads that single entry into the binding's required field.
func Apply(ctx context.Context, m *Manager, cfg *config.Config) error {
	for _, b := range bindings(cfg) {
		if strings.TrimSpace(b.raw) == "" {
			continue
		}

		ref, err := ParseReference(b.name, b.typ, b.raw)
		if err != nil {
			return fmt.Errorf("secret %s: %w", b.name, err)
		}

		secret, err := m.GetSecret(ctx, ref)
		if err != nil {
			return fmt.Errorf("secret %s: %w", b.name, err)
		}

		data := secret.Data
		if ref.Key != "" {
			v, ok := secret.Value(ref.Key)
			if !ok {
				return fmt.Errorf("secret %s: %w: %s", b.name, ErrKeyNotFound, ref.Key)
			}
			data = map[string]string{b.required: v}
		}
		if v, ok := data[b.required]; !ok || v == "" {
			return fmt.Errorf("secret %s: %w: %s", b.name, ErrKeyNotFound, b.required)
		}

		applied := 0
		for key, set := range b.setters {
			if v, ok := data[key]; ok && v != "" {
				set(v)
				applied++
			}
		}
		logger.Info("secret applied to config",
			zap.String("secret_name", b.name),
			zap.Int("fields", applied),
		)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
