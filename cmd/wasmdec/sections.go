package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vertexdlt/wasmdec/wasmfmt"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections <module.wasm>",
	Short: "Dump the raw parsed sections as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("wasmdec: read %s: %w", args[0], err)
		}
		m, err := wasmfmt.ParseModule(b)
		if err != nil {
			return fmt.Errorf("wasmdec: parse %s: %w", args[0], err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	},
}
