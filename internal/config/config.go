package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/strip-cutter/internal/catalog"
	"github.com/eugenenazirov/strip-cutter/internal/minimizer"
)

const (
	defaultLogLevel    = "info"
	defaultProgressRPS = 1.0
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Width          float64         `yaml:"width"`
	Pieces         []catalog.Piece `yaml:"pieces"`
	TieBreak       string          `yaml:"tie_break"`
	MaxPieces      int             `yaml:"max_pieces"`
	LogLevel       string          `yaml:"log_level"`
	ProgressRPS    float64         `yaml:"-"`
	Timeout        time.Duration   `yaml:"timeout"`
	ShowPlacements bool            `yaml:"placements"`
}

// yamlConfig represents the YAML job file structure.
type yamlConfig struct {
	Width      float64         `yaml:"width"`
	Pieces     []catalog.Piece `yaml:"pieces"`
	TieBreak   string          `yaml:"tie_break"`
	MaxPieces  int             `yaml:"max_pieces"`
	LogLevel   string          `yaml:"log_level"`
	Timeout    string          `yaml:"timeout"`
	Placements bool            `yaml:"placements"`
	Progress   yamlProgress    `yaml:"progress"`
}

// yamlProgress represents the progress logging section in YAML.
type yamlProgress struct {
	RPS *float64 `yaml:"rps"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile  string
	Width       *float64
	PiecesStr   *string
	TieBreak    *string
	MaxPieces   *int
	LogLevel    *string
	ProgressRPS *float64
	Timeout     *time.Duration
	Placements  *bool
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Apply environment variables
	applyEnvConfig(&cfg)

	// Load from YAML file if specified (overrides environment)
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	// Validate final configuration
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		TieBreak:    minimizer.PreferVertical.String(),
		MaxPieces:   catalog.DefaultMaxPieces,
		LogLevel:    defaultLogLevel,
		ProgressRPS: defaultProgressRPS,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.Width != 0 {
		cfg.Width = yamlCfg.Width
	}

	if len(yamlCfg.Pieces) > 0 {
		cfg.Pieces = yamlCfg.Pieces
	}

	if yamlCfg.TieBreak != "" {
		cfg.TieBreak = yamlCfg.TieBreak
	}

	if yamlCfg.MaxPieces > 0 {
		cfg.MaxPieces = yamlCfg.MaxPieces
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	if yamlCfg.Timeout != "" {
		d, err := time.ParseDuration(yamlCfg.Timeout)
		if err != nil {
			return fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}

	cfg.ShowPlacements = cfg.ShowPlacements || yamlCfg.Placements

	if yamlCfg.Progress.RPS != nil && *yamlCfg.Progress.RPS >= 0 {
		cfg.ProgressRPS = *yamlCfg.Progress.RPS
	}

	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if raw := strings.TrimSpace(os.Getenv("STRIP_WIDTH")); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.Width = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STRIP_PIECES")); raw != "" {
		if pieces, err := parsePieces(raw); err == nil {
			cfg.Pieces = pieces
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STRIP_TIE_BREAK")); raw != "" {
		cfg.TieBreak = raw
	}

	if raw := strings.TrimSpace(os.Getenv("STRIP_MAX_PIECES")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.MaxPieces = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		cfg.LogLevel = raw
	}

	if raw := strings.TrimSpace(os.Getenv("PROGRESS_RPS")); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value >= 0 {
			cfg.ProgressRPS = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STRIP_TIMEOUT")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.Timeout = d
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Width != nil && *overrides.Width != 0 {
		cfg.Width = *overrides.Width
	}

	if overrides.PiecesStr != nil && *overrides.PiecesStr != "" {
		pieces, err := parsePieces(*overrides.PiecesStr)
		if err != nil {
			return fmt.Errorf("parse pieces: %w", err)
		}
		cfg.Pieces = pieces
	}

	if overrides.TieBreak != nil && *overrides.TieBreak != "" {
		cfg.TieBreak = *overrides.TieBreak
	}

	if overrides.MaxPieces != nil && *overrides.MaxPieces > 0 {
		cfg.MaxPieces = *overrides.MaxPieces
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.ProgressRPS != nil && *overrides.ProgressRPS >= 0 {
		cfg.ProgressRPS = *overrides.ProgressRPS
	}

	if overrides.Timeout != nil && *overrides.Timeout > 0 {
		cfg.Timeout = *overrides.Timeout
	}

	if overrides.Placements != nil && *overrides.Placements {
		cfg.ShowPlacements = true
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if !(cfg.Width > 0) || math.IsInf(cfg.Width, 1) {
		return fmt.Errorf("strip width must be a positive finite number, got %v", cfg.Width)
	}
	if len(cfg.Pieces) == 0 {
		return fmt.Errorf("pieces cannot be empty")
	}
	if _, err := minimizer.ParseTieBreak(cfg.TieBreak); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if cfg.ProgressRPS < 0 {
		return fmt.Errorf("PROGRESS_RPS must be >= 0")
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0")
	}
	return nil
}

// parsePieces parses a comma-separated list of pieces such as "4x2*3, 3x1".
// The optional "*n" suffix sets the number of copies.
func parsePieces(raw string) ([]catalog.Piece, error) {
	parts := strings.Split(raw, ",")
	pieces := make([]catalog.Piece, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		dims, rawCount, hasCount := strings.Cut(part, "*")
		count := 1
		if hasCount {
			value, err := strconv.Atoi(strings.TrimSpace(rawCount))
			if err != nil {
				return nil, fmt.Errorf("invalid count in %q", part)
			}
			count = value
		}

		rawWidth, rawHeight, ok := strings.Cut(strings.ToLower(dims), "x")
		if !ok {
			return nil, fmt.Errorf("invalid piece %q, expected WIDTHxHEIGHT", part)
		}
		width, err := strconv.ParseFloat(strings.TrimSpace(rawWidth), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid width in %q", part)
		}
		height, err := strconv.ParseFloat(strings.TrimSpace(rawHeight), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid height in %q", part)
		}
		if width <= 0 || height <= 0 || count <= 0 {
			return nil, fmt.Errorf("piece %q must have positive dimensions and count", part)
		}

		pieces = append(pieces, catalog.Piece{Width: width, Height: height, Count: count})
	}
	if len(pieces) == 0 {
		return nil, fmt.Errorf("no pieces provided")
	}
	return pieces, nil
}
