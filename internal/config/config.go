package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/fauna/internal/criteria"
)

// Config holds fauna's settings.
type Config struct {
	APIURL    string
	Debounce  time.Duration
	PageSize  int
	PageSizes []int
	Autoload  bool
	Refresh   time.Duration // 0 disables auto refresh
	CacheSize int
	Store     string // "file", "sqlite" or "memory"
	StorePath string
	LogFile   string
	LogLevel  string
	Theme     string
}

const (
	defaultConfigPath = "~/.config/fauna/config.toml"
	defaultLogFile    = "~/.local/state/fauna/fauna.log"
	defaultAPIURL     = "http://127.0.0.1:3000"
	defaultDebounce   = 350 * time.Millisecond
	defaultPageSize   = 25
	defaultCacheSize  = 64
	defaultStore      = "file"
	defaultLogLevel   = "info"
	maxDebounce       = 5 * time.Second
)

var defaultPageSizes = []int{10, 25, 50, 100}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		APIURL:    defaultAPIURL,
		Debounce:  defaultDebounce,
		PageSize:  defaultPageSize,
		PageSizes: slices.Clone(defaultPageSizes),
		Autoload:  true,
		CacheSize: defaultCacheSize,
		Store:     defaultStore,
		LogFile:   mustExpand(defaultLogFile),
		LogLevel:  defaultLogLevel,
	}
}

// Load locates and parses the fauna config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL         string `toml:"api_url"`
		DebounceMS     *int   `toml:"debounce_ms"`
		PageSize       *int   `toml:"page_size"`
		PageSizes      []int  `toml:"page_sizes"`
		Autoload       *bool  `toml:"autoload"`
		RefreshSeconds *int   `toml:"refresh_seconds"`
		CacheSize      *int   `toml:"cache_size"`
		Store          string `toml:"store"`
		StorePath      string `toml:"store_path"`
		LogFile        string `toml:"log_file"`
		LogLevel       string `toml:"log_level"`
		Theme          string `toml:"theme"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if raw.DebounceMS != nil {
		d := time.Duration(*raw.DebounceMS) * time.Millisecond
		if d < 0 || d > maxDebounce {
			return Config{}, fmt.Errorf("debounce_ms %d out of range (0-%d)", *raw.DebounceMS, maxDebounce.Milliseconds())
		}
		cfg.Debounce = d
	}
	if sizes := normalizeSizes(raw.PageSizes); len(sizes) > 0 {
		cfg.PageSizes = sizes
	}
	if raw.PageSize != nil && *raw.PageSize > 0 {
		cfg.PageSize = *raw.PageSize
	}
	cfg.PageSize = cfg.Limits().ClampPageSize(cfg.PageSize)
	if raw.Autoload != nil {
		cfg.Autoload = *raw.Autoload
	}
	if raw.RefreshSeconds != nil {
		if *raw.RefreshSeconds < 0 {
			return Config{}, fmt.Errorf("refresh_seconds must not be negative")
		}
		cfg.Refresh = time.Duration(*raw.RefreshSeconds) * time.Second
	}
	if raw.CacheSize != nil && *raw.CacheSize > 0 {
		cfg.CacheSize = *raw.CacheSize
	}

	if v := strings.ToLower(strings.TrimSpace(raw.Store)); v != "" {
		switch v {
		case "file", "sqlite", "memory":
			cfg.Store = v
		default:
			return Config{}, fmt.Errorf("store %q not supported (want file, sqlite or memory)", raw.Store)
		}
	}
	if v := strings.TrimSpace(raw.StorePath); v != "" {
		cfg.StorePath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	cfg.Theme = strings.TrimSpace(raw.Theme)

	return cfg, nil
}

// Limits returns the criteria bounds implied by the page size settings.
func (c Config) Limits() criteria.Limits {
	sizes := c.PageSizes
	if len(sizes) == 0 {
		sizes = defaultPageSizes
	}
	return criteria.Limits{DefaultPageSize: c.PageSize, PageSizes: slices.Clone(sizes)}
}

func normalizeSizes(sizes []int) []int {
	var out []int
	for _, s := range sizes {
		if s > 0 {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
