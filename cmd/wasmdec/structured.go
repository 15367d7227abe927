package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vertexdlt/wasmdec/decompile"
	"github.com/vertexdlt/wasmdec/internal/telemetry"
)

var structuredCmd = &cobra.Command{
	Use:   "structured <module.wasm>",
	Short: "Render the module as block-structured pseudocode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		p, err := loadProgram(ctx, args[0])
		if err != nil {
			return err
		}

		tracker, persist, closeStore, err := openTracker()
		if err != nil {
			return err
		}
		defer closeStore()

		_, span := telemetry.StartStage(ctx, "render:structured")
		out, err := decompile.NewStructuredRenderer(tracker).Render(p)
		span.End()
		if err != nil {
			return fmt.Errorf("wasmdec: render structured: %w", err)
		}

		if err := persist(tracker); err != nil {
			log.Warnf("xref persist: %v", err)
		}

		fmt.Print(out)
		return nil
	},
}
