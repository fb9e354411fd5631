// Package cli implements the kenburns command-line interface.
//
// # Commands
//
//   - plan: compute a frame timeline and write it as JSON
//   - render: rasterize a timeline into numbered frame images
//   - preview: play transitions live in the terminal
//   - serve: run the HTTP API
//   - cache: inspect and clear the plan and frame cache
//
// Every planning command accepts the same option flags and an optional
// --config TOML file. Flags win over values from the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// attached to each command's context with log.WithContext and read back with
// log.FromContext, the same way the API attaches request-scoped loggers.
package cli
