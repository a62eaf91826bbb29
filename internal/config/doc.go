// Package config loads fauna's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/fauna/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or blank, use defaults
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:3000"
//	debounce_ms = 350
//	page_size = 25
//	page_sizes = [10, 25, 50, 100]
//	autoload = true
//	refresh_seconds = 0
//	cache_size = 64
//	store = "file"          # file, sqlite or memory
//	store_path = ""         # default depends on store
//	log_file = "~/.local/state/fauna/fauna.log"
//	log_level = "info"      # trace, debug, info, warn, error
//	theme = ""
//
// Every field is optional. page_size snaps to the nearest entry of
// page_sizes. autoload = false keeps lists empty until the first explicit
// action (Enter, a page change, a sort). Tilde expansion is performed for
// store_path and log_file.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML syntax errors
//   - Out-of-range debounce_ms, negative refresh_seconds, unknown store
package config
