package config

import (
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Load reads a YAML parameter file, merging it onto Default() so that
// omitted keys keep their documented default, then validates the
// result.
func Load(path string) (Config, error) {
	cfg := Default()
	buf, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path in YAML format, used by the CLI's `config`
// subcommand to scaffold a build settings file prefilled with defaults.
func Save(path string, cfg Config) error {
	buf, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}
