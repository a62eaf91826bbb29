// Package logtail reads and colors the tail of fauna's log file.
//
// # Reading
//
// Read returns the last N lines with a ring buffer, so memory stays
// O(N) however large the file grows. A missing file is not an error: fauna
// may not have logged anything yet.
//
// # Filtering
//
// Records are slog text lines ("time=... level=INFO msg=..."). Level parses
// the level attribute, including the custom TRACE level, and Filter drops
// records below a minimum.
//
// # Coloring
//
// Styler renders the time and level attributes with lipgloss. It is bound to
// the output writer, so piping the output strips the color.
package logtail
