// Package config reads the engine's process-wide configuration from the
// VCS's own config store (git config --get <appname>.<option>) and
// memoizes it per process, the way the rest of this codebase keeps
// once-per-process state.
package config
