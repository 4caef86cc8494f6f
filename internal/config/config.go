package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"

	"github.com/compozy/gitver/internal/domain"
)

// configNotMappingMsg is the fixed message for a hook-style config value that
// is not a mapping. Callers match on it, so it never changes.
const configNotMappingMsg = "Config should be a dictionary with `version_format` and `starting_version` keys."

// Settings is the resolver configuration: two optional fields with documented
// defaults.
type Settings struct {
	StartingVersion string `mapstructure:"starting_version"`
	VersionFormat   string `mapstructure:"version_format"`
}

// DefaultSettings returns Settings with the default starting version and
// version format.
func DefaultSettings() *Settings {
	return &Settings{
		StartingVersion: domain.DefaultStartingVersion,
		VersionFormat:   domain.DefaultTemplate,
	}
}

// Validate validates the configuration.
func (s *Settings) Validate() error {
	if s.StartingVersion == "" {
		return fmt.Errorf("starting_version cannot be empty")
	}
	if s.VersionFormat == "" {
		return fmt.Errorf("version_format cannot be empty")
	}
	return nil
}

// Template returns the version format as a renderable template.
func (s *Settings) Template() domain.Template {
	return domain.Template(s.VersionFormat)
}

// FromMapping converts a loosely typed config value into Settings. Any value
// that is not a string-keyed mapping is rejected with a fixed message; missing
// or non-string keys fall back to the defaults.
func FromMapping(config any) (*Settings, error) {
	mapping, err := toStringMap(config)
	if err != nil {
		return nil, err
	}
	settings := DefaultSettings()
	if v, ok := mapping["starting_version"].(string); ok && v != "" {
		settings.StartingVersion = v
	}
	if v, ok := mapping["version_format"].(string); ok && v != "" {
		settings.VersionFormat = v
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// toStringMap widens any string-keyed map value into map[string]any, so
// mappings produced by other decoders (map[string]string and friends) pass
// the boundary too.
func toStringMap(config any) (map[string]any, error) {
	if m, ok := config.(map[string]any); ok {
		return m, nil
	}
	rv := reflect.ValueOf(config)
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("%s", configNotMappingMsg)
	}
	out := make(map[string]any, rv.Len())
	for _, key := range rv.MapKeys() {
		out[key.String()] = rv.MapIndex(key).Interface()
	}
	return out, nil
}

// Load reads settings from .gitver.yaml in the working directory and the
// GITVER_* environment, falling back to defaults.
func Load() (*Settings, error) {
	v := viper.New()
	v.SetConfigName(".gitver")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("GITVER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("starting_version", "GITVER_STARTING_VERSION"); err != nil {
		return nil, fmt.Errorf("failed to bind starting_version env: %w", err)
	}
	if err := v.BindEnv("version_format", "GITVER_VERSION_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind version_format env: %w", err)
	}
	defaults := DefaultSettings()
	v.SetDefault("starting_version", defaults.StartingVersion)
	v.SetDefault("version_format", defaults.VersionFormat)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &settings, nil
}
