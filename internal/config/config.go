package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything willdo needs to reach the intake service and
// the local checkout.
type Config struct {
	APIURL      string `toml:"api_url"`
	Username    string `toml:"username"`
	AuthToken   string `toml:"auth_token"`
	RepoRoot    string `toml:"repo_root"`
	UpstreamDir string `toml:"upstream_dir"`
	MergeTool   string `toml:"merge_tool"`
	PollSeconds int    `toml:"poll_seconds"`
}

const (
	defaultConfigPath  = "~/.config/willdo/config.toml"
	defaultMergeTool   = "p4merge"
	defaultPollSeconds = 15
)

// FirstUseMessage explains the minimum setup before willdo can run.
const FirstUseMessage = `Some settings must be provided before you can use willdo.

In ~/.config/willdo/config.toml set:

  api_url    = "https://<your intake service>/"
  username   = "replace_with_your_username"
  auth_token = "replace_with_your_token"
  repo_root  = "/path/to/the/repository/root"

Get your token from the intake service's obtain-token page.
`

// Load reads the config file, then applies WILLDO_* environment overrides.
// A missing file is not an error; the caller decides what to do with an
// incomplete config via NeedsSetup.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{MergeTool: defaultMergeTool, PollSeconds: defaultPollSeconds}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(bytes, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if strings.TrimSpace(cfg.MergeTool) == "" {
		cfg.MergeTool = defaultMergeTool
	}
	if cfg.PollSeconds <= 0 {
		cfg.PollSeconds = defaultPollSeconds
	}

	applyEnv(&cfg)

	if cfg.RepoRoot != "" {
		cfg.RepoRoot = mustExpand(cfg.RepoRoot)
	}
	return cfg, nil
}

// Save writes the config back, creating directories as needed. Used by the
// first-run setup flow.
func Save(path string, cfg Config) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	bytes, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(resolved, bytes, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// NeedsSetup reports whether the minimum settings for reaching the remote
// service are still missing.
func (c Config) NeedsSetup() bool {
	return strings.TrimSpace(c.APIURL) == "" ||
		strings.TrimSpace(c.Username) == "" ||
		strings.TrimSpace(c.AuthToken) == "" ||
		strings.TrimSpace(c.RepoRoot) == ""
}

// UpstreamPath returns the absolute working directory for upstream git
// invocations: upstream_dir resolved against the repo root, or the repo root
// itself when unset.
func (c Config) UpstreamPath() string {
	dir := strings.TrimSpace(c.UpstreamDir)
	if dir == "" {
		return c.RepoRoot
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.RepoRoot, filepath.FromSlash(dir))
}

// applyEnv layers WILLDO_* variables over the file values. A .env in the
// working directory is honored as well.
func applyEnv(cfg *Config) {
	_ = godotenv.Load()
	overrides := map[string]*string{
		"WILLDO_API_URL":      &cfg.APIURL,
		"WILLDO_USERNAME":     &cfg.Username,
		"WILLDO_AUTH_TOKEN":   &cfg.AuthToken,
		"WILLDO_REPO_ROOT":    &cfg.RepoRoot,
		"WILLDO_UPSTREAM_DIR": &cfg.UpstreamDir,
		"WILLDO_MERGE_TOOL":   &cfg.MergeTool,
	}
	for name, dest := range overrides {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*dest = v
		}
	}
	if v := strings.TrimSpace(os.Getenv("WILLDO_POLL_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PollSeconds = n
		}
	}
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
