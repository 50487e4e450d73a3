// Package config loads engine settings from defaults, a YAML or JSON file and
// the environment. Keys are dotted paths such as "shrinking.mode"; nested
// file sections are flattened into that form.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/authcorp/proptest/errors"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "PROPTEST"

// Config holds configuration values. Explicit values win over defaults.
type Config struct {
	values   map[string]any
	defaults map[string]any
}

// New creates a new empty Config.
func New() *Config {
	return &Config{
		values:   make(map[string]any),
		defaults: make(map[string]any),
	}
}

// Load creates a Config from defaults, the file at path (skipped if empty)
// and environment variables with EnvPrefix, in increasing precedence.
func Load(path string, defaults map[string]any) (*Config, error) {
	c := New().WithDefaults(defaults)
	if path != "" {
		if err := c.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return c.LoadEnv(EnvPrefix), nil
}

// WithDefaults sets default values.
func (c *Config) WithDefaults(defaults map[string]any) *Config {
	for k, v := range defaults {
		c.defaults[k] = v
	}
	return c
}

// LoadFile loads configuration from a JSON or YAML file.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.Wrapf(err, "failed to read config file %s", path).
			WithDetail("path", path)
	}

	var values map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &values)
	default:
		err = json.Unmarshal(data, &values)
	}
	if err != nil {
		return apperrors.InvalidConfiguration("failed to parse config file %s", path).WithCause(err)
	}

	flatten("", values, c.values)
	return nil
}

func flatten(prefix string, values map[string]any, into map[string]any) {
	for k, v := range values {
		key := strings.ToLower(k)
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(key, nested, into)
			continue
		}
		into[key] = v
	}
}

// LoadEnv loads configuration from environment variables with prefix.
// PREFIX_SHRINKING_MODE becomes the key "shrinking.mode".
func (c *Config) LoadEnv(prefix string) *Config {
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if prefix != "" && !strings.HasPrefix(key, prefix+"_") {
			continue
		}
		configKey := strings.ToLower(strings.ReplaceAll(
			strings.TrimPrefix(key, prefix+"_"), "_", "."))
		c.values[configKey] = value
	}
	return c
}

// Set sets a configuration value.
func (c *Config) Set(key string, value any) {
	c.values[key] = value
}

// Get returns a configuration value.
func (c *Config) Get(key string) (any, bool) {
	if v, ok := c.values[key]; ok {
		return v, true
	}
	if v, ok := c.defaults[key]; ok {
		return v, true
	}
	return nil, false
}

// GetString returns a string configuration value.
func (c *Config) GetString(key string) string {
	v, ok := c.Get(key)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// GetInt returns an int configuration value.
func (c *Config) GetInt(key string) (int, error) {
	n, err := c.GetInt64(key)
	return int(n), err
}

// GetInt64 returns an int64 configuration value. Missing keys are 0.
func (c *Config) GetInt64(key string) (int64, error) {
	v, ok := c.Get(key)
	if !ok {
		return 0, nil
	}
	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int64:
		return val, nil
	case float64:
		return int64(val), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, invalidValue(key, val, err)
		}
		return n, nil
	}
	return 0, invalidValue(key, v, nil)
}

// GetBool returns a bool configuration value.
func (c *Config) GetBool(key string) bool {
	v, ok := c.Get(key)
	if !ok {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "true" || val == "1" || val == "yes"
	}
	return false
}

// GetDuration returns a duration configuration value. Strings use
// time.ParseDuration syntax, numbers are seconds.
func (c *Config) GetDuration(key string) (time.Duration, error) {
	v, ok := c.Get(key)
	if !ok {
		return 0, nil
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case float64:
		return time.Duration(val * float64(time.Second)), nil
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(val))
		if err != nil {
			return 0, invalidValue(key, val, err)
		}
		return d, nil
	}
	return 0, invalidValue(key, v, nil)
}

func invalidValue(key string, value any, cause error) error {
	err := apperrors.InvalidConfiguration("invalid value %v for %s", value, key).WithDetail("key", key)
	if cause != nil {
		return err.WithCause(cause)
	}
	return err
}

// Validate checks that required keys are present.
func (c *Config) Validate(required ...string) error {
	var missing []string
	for _, key := range required {
		if _, ok := c.Get(key); !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return apperrors.InvalidConfiguration("missing required config keys: %s", strings.Join(missing, ", ")).
			WithDetail("missing", missing)
	}
	return nil
}

// Keys returns all known keys in sorted order.
func (c *Config) Keys() []string {
	seen := make(map[string]struct{}, len(c.values)+len(c.defaults))
	for k := range c.defaults {
		seen[k] = struct{}{}
	}
	for k := range c.values {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
