// Package config handles loading and saving willdo configuration files.
//
// # Overview
//
// This package reads willdo's TOML configuration to discover the intake
// service endpoint, the caller's identity, and the local checkout layout.
// WILLDO_* environment variables (optionally via a .env file) override the
// file values, which keeps tokens out of checked-in dotfiles.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/willdo/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. WILLDO_* environment variables override whatever was loaded
//
// A missing config file is NOT an error. Callers check NeedsSetup to decide
// whether to run the first-use setup flow instead.
//
// # Configuration Fields
//
//   - api_url: base URL of the intake service
//   - username: identity used for claim matching and highlighting
//   - auth_token: token sent as "Authorization: Token <value>"
//   - repo_root: absolute path of the local checkout (tilde expanded)
//   - upstream_dir: upstream tree location, relative to repo_root or absolute
//   - merge_tool: external merge command (default "p4merge")
//   - poll_seconds: list refresh interval (default 15)
//
// # TOML Format
//
// Example config.toml:
//
//	api_url = "https://intake.example.com/"
//	username = "alice"
//	auth_token = "…"
//	repo_root = "~/work/checkout"
//	upstream_dir = "chromium/src"
//
// # Error Handling
//
// Load returns errors for path expansion failures, file read errors (other
// than os.ErrNotExist), and TOML parsing errors. Save creates intermediate
// directories and writes the file with 0600 permissions since it carries the
// auth token.
package config
