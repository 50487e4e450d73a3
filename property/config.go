package property

import (
	"strings"

	"github.com/authcorp/proptest/config"
	apperrors "github.com/authcorp/proptest/errors"
)

// ShrinkingMode controls how falsified samples are shrunk.
type ShrinkingMode string

const (
	ShrinkingOff     ShrinkingMode = "off"
	ShrinkingBounded ShrinkingMode = "bounded"
	ShrinkingFull    ShrinkingMode = "full"
)

// GenerationMode selects between random and exhaustive generation.
type GenerationMode string

const (
	// GenerationAuto enumerates all values when that needs at most Tries
	// samples and generates randomly otherwise.
	GenerationAuto       GenerationMode = "auto"
	GenerationRandomized GenerationMode = "randomized"
	GenerationExhaustive GenerationMode = "exhaustive"
)

// EdgeCasesMode controls how edge cases take part in random generation.
type EdgeCasesMode string

const (
	EdgeCasesMixin EdgeCasesMode = "mixin"
	EdgeCasesFirst EdgeCasesMode = "first"
	EdgeCasesNone  EdgeCasesMode = "none"
)

// AfterFailureMode controls what a check does when the previous run of the
// same property failed.
type AfterFailureMode string

const (
	AfterFailurePreviousSeed AfterFailureMode = "previous_seed"
	AfterFailureSampleFirst  AfterFailureMode = "sample_first"
	AfterFailureSampleOnly   AfterFailureMode = "sample_only"
	AfterFailureRandomSeed   AfterFailureMode = "random_seed"
)

// Configuration keys read by ConfigFrom.
const (
	KeyTries            = "tries"
	KeySeed             = "seed"
	KeyMaxDiscardRatio  = "discard.ratio"
	KeyGenSize          = "gen.size"
	KeyShrinkingMode    = "shrinking.mode"
	KeyShrinkingBound   = "shrinking.bound"
	KeyGenerationMode   = "generation.mode"
	KeyEdgeCasesMode    = "edgecases.mode"
	KeyAfterFailureMode = "afterfailure.mode"
)

// Config holds the settings of a property check.
type Config struct {
	Tries           int
	MaxDiscardRatio int
	// Seed of the random source; 0 picks a fresh seed.
	Seed int64
	// GenSize is the size hint handed to generators; 0 means Tries.
	GenSize        int
	Shrinking      ShrinkingMode
	ShrinkingBound int
	Generation     GenerationMode
	EdgeCases      EdgeCasesMode
	AfterFailure   AfterFailureMode
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		Tries:           1000,
		MaxDiscardRatio: 5,
		Shrinking:       ShrinkingBounded,
		ShrinkingBound:  1000,
		Generation:      GenerationAuto,
		EdgeCases:       EdgeCasesMixin,
		AfterFailure:    AfterFailurePreviousSeed,
	}
}

// Validate checks the settings.
func (c Config) Validate() error {
	switch {
	case c.Tries <= 0:
		return invalid(KeyTries, c.Tries, "tries must be positive")
	case c.MaxDiscardRatio < 0:
		return invalid(KeyMaxDiscardRatio, c.MaxDiscardRatio, "discard ratio must not be negative")
	case c.GenSize < 0:
		return invalid(KeyGenSize, c.GenSize, "gen size must not be negative")
	case c.ShrinkingBound < 0:
		return invalid(KeyShrinkingBound, c.ShrinkingBound, "shrinking bound must not be negative")
	}
	if _, err := parseShrinkingMode(string(c.Shrinking)); err != nil {
		return err
	}
	if _, err := parseGenerationMode(string(c.Generation)); err != nil {
		return err
	}
	if _, err := parseEdgeCasesMode(string(c.EdgeCases)); err != nil {
		return err
	}
	_, err := parseAfterFailureMode(string(c.AfterFailure))
	return err
}

func (c Config) genSize() int {
	if c.GenSize > 0 {
		return c.GenSize
	}
	return c.Tries
}

func invalid(key string, value any, message string) error {
	return apperrors.InvalidConfiguration("%s: %v", message, value).WithDetail("key", key)
}

// ConfigFrom reads settings from cfg, starting from DefaultConfig.
func ConfigFrom(cfg *config.Config) (Config, error) {
	c := DefaultConfig()

	if err := intKey(cfg, KeyTries, &c.Tries); err != nil {
		return c, err
	}
	if err := intKey(cfg, KeyMaxDiscardRatio, &c.MaxDiscardRatio); err != nil {
		return c, err
	}
	if err := intKey(cfg, KeyGenSize, &c.GenSize); err != nil {
		return c, err
	}
	if err := intKey(cfg, KeyShrinkingBound, &c.ShrinkingBound); err != nil {
		return c, err
	}
	if _, ok := cfg.Get(KeySeed); ok {
		seed, err := cfg.GetInt64(KeySeed)
		if err != nil {
			return c, err
		}
		c.Seed = seed
	}

	var err error
	if s, ok := stringKey(cfg, KeyShrinkingMode); ok {
		if c.Shrinking, err = parseShrinkingMode(s); err != nil {
			return c, err
		}
	}
	if s, ok := stringKey(cfg, KeyGenerationMode); ok {
		if c.Generation, err = parseGenerationMode(s); err != nil {
			return c, err
		}
	}
	if s, ok := stringKey(cfg, KeyEdgeCasesMode); ok {
		if c.EdgeCases, err = parseEdgeCasesMode(s); err != nil {
			return c, err
		}
	}
	if s, ok := stringKey(cfg, KeyAfterFailureMode); ok {
		if c.AfterFailure, err = parseAfterFailureMode(s); err != nil {
			return c, err
		}
	}
	return c, c.Validate()
}

func intKey(cfg *config.Config, key string, into *int) error {
	if _, ok := cfg.Get(key); !ok {
		return nil
	}
	n, err := cfg.GetInt(key)
	if err != nil {
		return err
	}
	*into = n
	return nil
}

func stringKey(cfg *config.Config, key string) (string, bool) {
	if _, ok := cfg.Get(key); !ok {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(cfg.GetString(key))), true
}

func parseShrinkingMode(s string) (ShrinkingMode, error) {
	switch m := ShrinkingMode(s); m {
	case ShrinkingOff, ShrinkingBounded, ShrinkingFull:
		return m, nil
	}
	return "", invalid(KeyShrinkingMode, s, "unknown shrinking mode")
}

func parseGenerationMode(s string) (GenerationMode, error) {
	switch m := GenerationMode(s); m {
	case GenerationAuto, GenerationRandomized, GenerationExhaustive:
		return m, nil
	}
	return "", invalid(KeyGenerationMode, s, "unknown generation mode")
}

func parseEdgeCasesMode(s string) (EdgeCasesMode, error) {
	switch m := EdgeCasesMode(s); m {
	case EdgeCasesMixin, EdgeCasesFirst, EdgeCasesNone:
		return m, nil
	}
	return "", invalid(KeyEdgeCasesMode, s, "unknown edge cases mode")
}

func parseAfterFailureMode(s string) (AfterFailureMode, error) {
	switch m := AfterFailureMode(s); m {
	case AfterFailurePreviousSeed, AfterFailureSampleFirst, AfterFailureSampleOnly, AfterFailureRandomSeed:
		return m, nil
	}
	return "", invalid(KeyAfterFailureMode, s, "unknown after failure mode")
}
