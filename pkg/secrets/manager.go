package secrets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/richxcame/review-guard/pkg/logger"
	"go.uber.org/zap"
)

const defaultCacheTTL = 5 * time.Minute

// Config selects and configures the backend.
type Config struct {
	Provider     ProviderType
	CacheTTL     time.Duration
	AuditEnabled bool
	Vault        VaultConfig
	AWS          AWSConfig
	GCP          GCPConfig
	Kubernetes   KubernetesConfig
}

type provider interface {
	Name() ProviderType
	Fetch(ctx context.Context, ref Reference) (Secret, error)
	Close() error
}

type cachedSecret struct {
	secret    Secret
	expiresAt time.Time
}

// Manager fetches secrets from one backend and caches the payloads.
type Manager struct {
	provider     provider
	cacheTTL     time.Duration
	auditEnabled bool
	now          func() time.Time

	mu    sync.RWMutex
	cache map[string]cachedSecret
}

// NewManager connects to the backend named in cfg.
func NewManager(ctx context.Context, cfg Config) (*Manager, error) {
	var (
		prov provider
		err  error
	)
	switch cfg.Provider {
	case ProviderNone:
		return nil, ErrProviderNotConfigured
	case ProviderVault:
		prov, err = newVaultProvider(cfg.Vault)
	case ProviderAWS:
		prov, err = newAWSProvider(ctx, cfg.AWS)
	case ProviderGCP:
		prov, err = newGCPProvider(ctx, cfg.GCP)
	case ProviderKubernetes:
		prov, err = newKubernetesProvider(cfg.Kubernetes)
	default:
		return nil, fmt.Errorf("secrets: unsupported provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return newManager(prov, cfg), nil
}

func newManager(prov provider, cfg Config) *Manager {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	return &Manager{
		provider:     prov,
		cacheTTL:     ttl,
		auditEnabled: cfg.AuditEnabled,
		now:          time.Now,
		cache:        make(map[string]cachedSecret),
	}
}

// Provider reports the backend in use.
func (m *Manager) Provider() ProviderType {
	return m.provider.Name()
}

// Close releases the backend client.
func (m *Manager) Close() error {
	return m.provider.Close()
}

// GetSecret returns the payload for ref, from cache when fresh.
func (m *Manager) GetSecret(ctx context.Context, ref Reference) (Secret, error) {
	if ref.Path == "" {
		return Secret{}, ErrInvalidReference
	}
	if ref.Provider != ProviderNone && ref.Provider != m.provider.Name() {
		return Secret{}, fmt.Errorf("secrets: reference %s targets %q but manager uses %q", ref.Name, ref.Provider, m.provider.Name())
	}

	key := ref.cacheKey()
	m.mu.RLock()
	entry, ok := m.cache[key]
	m.mu.RUnlock()
	if ok && m.now().Before(entry.expiresAt) {
		return entry.secret.clone(), nil
	}

	secret, err := m.provider.Fetch(ctx, ref)
	m.audit(ref, secret.Metadata, err)
	if err != nil {
		return Secret{}, err
	}
	secret.Metadata.RetrievedAt = m.now().UTC()

	if m.cacheTTL > 0 {
		m.mu.Lock()
		m.cache[key] = cachedSecret{secret: secret.clone(), expiresAt: m.now().Add(m.cacheTTL)}
		m.mu.Unlock()
	}
	return secret, nil
}

// GetString returns the entry named by ref.Key.
func (m *Manager) GetString(ctx context.Context, ref Reference) (string, error) {
	if ref.Key == "" {
		return "", fmt.Errorf("%w: reference %s has no key", ErrKeyNotFound, ref.Name)
	}
	secret, err := m.GetSecret(ctx, ref)
	if err != nil {
		return "", err
	}
	value, ok := secret.Value(ref.Key)
	if !ok {
		return "", fmt.Errorf("%w: %s#%s", ErrKeyNotFound, ref.Name, ref.Key)
	}
	return value, nil
}

func (m *Manager) audit(ref Reference, md Metadata, err error) {
	if !m.auditEnabled {
		return
	}
	fields := []zap.Field{
		zap.String("secret_name", ref.Name),
		zap.String("secret_type", string(ref.Type)),
		zap.String("provider", string(m.provider.Name())),
	}
	if md.Version != "" {
		fields = append(fields, zap.String("version", md.Version))
	}
	if err != nil {
		logger.Warn("secret fetch failed", append(fields, zap.Error(err))...)
		return
	}
	logger.Info("secret fetched", fields...)
}
