// Package logging provides structured logging with per-module log level configuration.
//
// # Overview
//
// The logging system uses Go's slog package with automatic output routing:
//   - Logs to systemd journal when available (Linux systems with journald)
//   - Logs to stdout when a terminal, pipe, or file is connected
//   - Logs to both when both are available
//
// # Usage
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",      // Global log level: debug, info, warn, error
//		Format: "text",      // Output format: text or json
//		Modules: map[string]string{
//			"sequencer": "debug",  // Per-module overrides
//			"api":       "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("mymodule")
//	logger.Info("Starting up", "socket", path)
//	logger.Debug("Details", "config", cfg)
//	logger.Warn("Something unusual", "error", err)
//	logger.Error("Failed", "error", err)
//
// Add contextual attributes:
//
//	logger := logging.GetLogger("attrs").With("group", "led17")
//	logger.Info("Mode changed")  // Includes group in all logs
//
// # Log Levels
//
//	debug - Verbose debugging information
//	info  - General operational messages
//	warn  - Warning conditions
//	error - Error conditions
//
// # Output Destinations
//
// The system automatically detects available outputs:
//
//	Journal available + stdout available → both
//	Journal available only              → JournalHandler
//	Stdout available only               → TextHandler or JSONHandler
//
// Every logger also feeds a small ring buffer ([GetBuffer]) backing the
// logs endpoint, and an optional [LogCallback] for live streaming.
//
// Journal availability is checked via [github.com/coreos/go-systemd/v22/journal.Enabled].
//
// # Viewing Logs
//
// When running as a systemd service or on a system with journald:
//
//	journalctl -t ledchaser              # All ledchaser logs
//	journalctl -t ledchaser -f           # Follow live
//	journalctl -t ledchaser --since "5m" # Last 5 minutes
//	journalctl -t ledchaser -p err       # Errors only
//
// Filter by structured fields:
//
//	journalctl -t ledchaser MODULE=sequencer
//	journalctl -t ledchaser GROUP=led17
//
// # Configuration
//
// Log levels can be set globally or per-module. Module-specific levels
// override the global level for that module only. [SetLevels] applies new
// levels to every existing logger without restarting.
//
// Example TOML configuration:
//
//	[logging]
//	level = "info"
//	format = "text"
//
//	[logging.modules]
//	sequencer = "debug"
//	api = "warn"
//	attrfs = "error"
package logging
