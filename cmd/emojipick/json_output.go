package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"emojipick/internal/app"
)

// runOutput is the --json result of the root command. A pick reports the
// choice; --no-pick reports catalog stats inline instead.
type runOutput struct {
	Choice  string `json:"choice,omitempty"`
	Removed *int   `json:"removed,omitempty"`
	*app.Stats
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	// Kaomoji use <, > and & freely.
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
