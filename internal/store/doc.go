// Package store executes rendered queries against SQLite, MySQL or
// PostgreSQL and loads eager relations.
//
// Rows come back as Row maps keyed by column name. Driver byte slices are
// converted to strings so rows compare the same across drivers.
//
// # Database Configuration
//
// SQLite connections get the same pragmas everywhere:
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// MySQL DSNs are parsed with the driver's own parser before connecting, so a
// malformed DSN fails before any network traffic.
package store
