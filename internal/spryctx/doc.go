// Package spryctx builds the process-wide *slog.Logger: plain messages (no
// timestamp or level prefix) to the console, with debug records dropped
// unless SPRY_DEBUG is set, optionally fanned out to a rotated log file. cmd/spry is the only
// package that constructs one; internal/ops accepts it through its
// constructor rather than reaching for a global.
package spryctx
