// Package main hosts the emojipick CLI entrypoint and command graph.
//
// Running emojipick with no subcommand loads the cached catalog (scanning the
// source directory on first use), shows the entries in the configured picker,
// and copies the choice to the clipboard. Flags on the root command rescan,
// rebuild, or clean the cache first. Subcommands inspect sources, the cache,
// the environment, and configuration without launching the picker.
//
// The heavy lifting lives in internal/app; this package only resolves
// configuration, builds collaborators, and renders output.
package main
