package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/authcorp/proptest/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAMLFlattensSections(t *testing.T) {
	path := writeFile(t, "proptest.yaml", `
tries: 200
shrinking:
  mode: full
  bound: 50
database:
  kind: file
`)
	c := New()
	require.NoError(t, c.LoadFile(path))

	tries, err := c.GetInt("tries")
	require.NoError(t, err)
	assert.Equal(t, 200, tries)
	assert.Equal(t, "full", c.GetString("shrinking.mode"))
	bound, err := c.GetInt("shrinking.bound")
	require.NoError(t, err)
	assert.Equal(t, 50, bound)
	assert.Equal(t, []string{"database.kind", "shrinking.bound", "shrinking.mode", "tries"}, c.Keys())
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "proptest.json", `{"seed": 42, "log": {"level": "debug"}}`)
	c := New()
	require.NoError(t, c.LoadFile(path))

	seed, err := c.GetInt64("seed")
	require.NoError(t, err)
	assert.Equal(t, int64(42), seed)
	assert.Equal(t, "debug", c.GetString("log.level"))
}

func TestLoadFileErrors(t *testing.T) {
	err := New().LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := writeFile(t, "broken.json", `{"tries": `)
	err = New().LoadFile(path)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidConfiguration))
}

func TestEnvOverridesFileAndDefaults(t *testing.T) {
	path := writeFile(t, "proptest.yaml", "tries: 200\n")
	t.Setenv("PROPTEST_TRIES", "300")
	t.Setenv("PROPTEST_SHRINKING_MODE", "off")

	c, err := Load(path, map[string]any{"tries": 1000, "generation.mode": "auto"})
	require.NoError(t, err)

	tries, err := c.GetInt("tries")
	require.NoError(t, err)
	assert.Equal(t, 300, tries)
	assert.Equal(t, "off", c.GetString("shrinking.mode"))
	assert.Equal(t, "auto", c.GetString("generation.mode"))
}

func TestTypedGetters(t *testing.T) {
	c := New().WithDefaults(map[string]any{
		"ttl":     "90s",
		"timeout": 2,
		"flag":    "yes",
		"bad":     "many",
	})

	ttl, err := c.GetDuration("ttl")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, ttl)

	timeout, err := c.GetDuration("timeout")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, timeout)

	assert.True(t, c.GetBool("flag"))
	assert.False(t, c.GetBool("missing"))

	_, err = c.GetInt("bad")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidConfiguration))

	missing, err := c.GetInt("missing")
	require.NoError(t, err)
	assert.Zero(t, missing)
}

func TestValidate(t *testing.T) {
	c := New()
	c.Set("tries", 10)

	assert.NoError(t, c.Validate("tries"))
	err := c.Validate("tries", "seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed")
}
