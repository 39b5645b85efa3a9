package secrets

import (
	"errors"
	"strings"
	"time"
)

// ProviderType names a secret backend.
type ProviderType string

const (
	ProviderNone       ProviderType = ""
	ProviderVault      ProviderType = "vault"
	ProviderAWS        ProviderType = "aws"
	ProviderGCP        ProviderType = "gcp"
	ProviderKubernetes ProviderType = "kubernetes"
)

// SecretType classifies a secret for audit logs.
type SecretType string

const (
	SecretDatabase      SecretType = "database_credentials"
	SecretRedis         SecretType = "redis_credentials"
	SecretPredictor     SecretType = "predictor_api_key"
	SecretSentry        SecretType = "sentry_dsn"
	SecretRateLimitKeys SecretType = "rate_limit_api_keys"
	SecretStorage       SecretType = "storage_credentials"
)

var (
	// ErrProviderNotConfigured is returned when no backend is selected.
	ErrProviderNotConfigured = errors.New("secrets: provider not configured")
	// ErrInvalidReference is returned for empty or malformed references.
	ErrInvalidReference = errors.New("secrets: invalid reference")
	// ErrKeyNotFound is returned when the payload lacks a required entry.
	ErrKeyNotFound = errors.New("secrets: key not found")
)

// Reference locates a secret inside a backend.
// Raw syntax: [provider://][mount::]path[@version][#key]
type Reference struct {
	Name     string
	Type     SecretType
	Provider ProviderType
	Mount    string
	Path     string
	Version  string
	Key      string
}

// ParseReference parses raw into a Reference named name.
func ParseReference(name string, secretType SecretType, raw string) (Reference, error) {
	ref := Reference{Name: name, Type: secretType}

	rest := strings.TrimSpace(raw)
	if before, after, ok := strings.Cut(rest, "://"); ok && before != "" {
		ref.Provider = ProviderType(before)
		rest = after
	}
	if before, after, ok := strings.Cut(rest, "#"); ok {
		ref.Key = strings.TrimSpace(after)
		rest = before
	}
	if before, after, ok := strings.Cut(rest, "@"); ok {
		ref.Version = strings.TrimSpace(after)
		rest = before
	}
	if before, after, ok := strings.Cut(rest, "::"); ok {
		ref.Mount = strings.Trim(strings.TrimSpace(before), "/")
		rest = after
	}

	ref.Path = strings.Trim(strings.TrimSpace(rest), "/")
	if ref.Path == "" {
		return ref, ErrInvalidReference
	}
	return ref, nil
}

// cacheKey identifies the payload a reference resolves to. Key is excluded
// because every key of one secret shares a single fetch.
func (r Reference) cacheKey() string {
	var sb strings.Builder
	sb.WriteString(string(r.Provider))
	sb.WriteString("|")
	sb.WriteString(r.Mount)
	sb.WriteString("|")
	sb.WriteString(r.Path)
	if r.Version != "" {
		sb.WriteString("@")
		sb.WriteString(r.Version)
	}
	return sb.String()
}

// Metadata describes the fetched version.
type Metadata struct {
	Version     string
	CreatedAt   time.Time
	RetrievedAt time.Time
}

// Secret is a resolved key/value payload.
type Secret struct {
	Data     map[string]string
	Metadata Metadata
}

// Value returns a non-empty entry from the payload.
func (s Secret) Value(key string) (string, bool) {
	v, ok := s.Data[key]
	return v, ok && v != ""
}

func (s Secret) clone() Secret {
	data := make(map[string]string, len(s.Data))
	for k, v := range s.Data {
		data[k] = v
	}
	return Secret{Data: data, Metadata: s.Metadata}
}
