// Package app contains the core application logic. It wires loaders, the
// schema, and the lowering engine together, decoupled from any specific
// entrypoint like the CLI.
package app
