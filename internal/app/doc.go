// Package app is the composition root of fauna.
//
// # Overview
//
// Open loads the configuration and builds the shared dependencies: the slog
// logger, the preference store backend and the dashboard client. Run then
// assembles one console tab per dashboard resource and hands them to the ui
// package. FetchPage serves the one-shot list command through the same
// controller code path the console uses.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read ~/.config/fauna/config.toml
//	       ├─────> logging.Open()       Log file and level
//	       ├─────> prefs.Open()         file, sqlite or memory backend
//	       ├─────> dashboard.NewClient()
//	       ├─────> Resolve()            Active list and starting criteria
//	       ├─────> Tab() per resource   Controller, page cache, column layout
//	       └─────> ui.Run()             Blocks until quit
//
// # Starting criteria
//
// A location such as "species?q=lynx&page=2" selects the list and replaces
// its stored criteria. Without one, each list resumes from the criteria it
// persisted last time, or from the defaults.
//
// # Error handling
//
// Failures to load config, open the log file or open the preference store
// are fatal and returned from Open. Fetch failures are never fatal: the
// console shows them on the status line and the list command returns them.
package app
