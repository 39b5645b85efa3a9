package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultKubernetesBasePath = "/var/run/secrets/reviewguard"

// KubernetesConfig points at the directory where secret volumes are mounted.
type KubernetesConfig struct {
	BasePath string
}

type kubernetesProvider struct {
	basePath string
}

func newKubernetesProvider(cfg KubernetesConfig) (provider, error) {
	base := cfg.BasePath
	if base == "" {
		base = defaultKubernetesBasePath
	}
	info, err := os.Stat(base)
	if err != nil {
		return nil, fmt.Errorf("secrets: kubernetes base %s: %w", base, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("secrets: kubernetes base %s is not a directory", base)
	}
	return &kubernetesProvider{basePath: base}, nil
}

func (k *kubernetesProvider) Name() ProviderType { return ProviderKubernetes }

func (k *kubernetesProvider) Close() error { return nil }

// Fetch reads a mounted secret. A directory yields one entry per file; a single file
// yields an entry named after the file.
func (k *kubernetesProvider) Fetch(_ context.Context, ref Reference) (Secret, error) {
	target := filepath.Join(k.basePath, filepath.Clean("/"+ref.Path))
	info, err := os.Stat(target)
	if err != nil {
		return Secret{}, fmt.Errorf("secrets: kubernetes path %s: %w", ref.Path, err)
	}

	if !info.IsDir() {
		content, err := os.ReadFile(target)
		if err != nil {
			return Secret{}, err
		}
		return Secret{Data: map[string]string{filepath.Base(target): strings.TrimSpace(string(content))}}, nil
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return Secret{}, err
	}
	data := make(map[string]string, len(entries))
	for _, e := range entries {
		// Mounted volumes expose "..data" style symlinked dirs; only regular keys matter.
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(target, e.Name()))
		if err != nil {
			return Secret{}, err
		}
		data[e.Name()] = strings.TrimSpace(string(content))
	}
	return Secret{Data: data}, nil
}
