package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "PITCHMETRICS_"

// EnvConfigPath names the variable pointing at a YAML config file.
const EnvConfigPath = envPrefix + "CONFIG"

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (Default())
//  2. YAML file at path, or at $PITCHMETRICS_CONFIG when path is empty
//  3. env (prefix PITCHMETRICS_, "__" separates nesting: PITCHMETRICS_PROVIDER__BASE_URL)
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, any) {
		if key == EnvConfigPath {
			return "", nil
		}
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		key = strings.ReplaceAll(key, "__", ".")
		if strings.HasSuffix(key, "_group_by") {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load config env: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
