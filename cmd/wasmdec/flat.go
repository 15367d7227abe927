package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vertexdlt/wasmdec/decompile"
	"github.com/vertexdlt/wasmdec/internal/telemetry"
)

var flatCmd = &cobra.Command{
	Use:   "flat <module.wasm>",
	Short: "Render the module as a PC-prefixed opcode listing",
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

		_, span := telemetry.StartStage(ctx, "render:flat")
		out, err := decompile.NewFlatRenderer(tracker).Render(p)
		span.End()
		if err != nil {
			return fmt.Errorf("wasmdec: render flat: %w", err)
		}

		if err := persist(tracker); err != nil {
			log.Warnf("xref persist: %v", err)
		}

		fmt.Print(colorizeFlat(out))
		return nil
	},
}

// colorizeFlat highlights the PC column and opcode mnemonics when stdout
// is a terminal and --color hasn't been disabled.
func colorizeFlat(listing string) string {
	if !flagColor || color.NoColor {
		return listing
	}
	pcColor := color.New(color.FgHiBlack)
	mnemonicColor := color.New(color.FgCyan)

	var out strings.Builder
	for _, line := range strings.Split(listing, "\n") {
		trimmed := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(trimmed)]
		if idx := strings.Index(trimmed, ":\t"); idx > 0 && looksLikeAddr(trimmed[:idx]) {
			addr := trimmed[:idx]
			rest := trimmed[idx+2:]
			out.WriteString(indent)
			out.WriteString(pcColor.Sprint(addr))
			out.WriteString(":\t")
			out.WriteString(mnemonicColor.Sprint(rest))
		} else {
			out.WriteString(line)
		}
		out.WriteString("\n")
	}
	return strings.TrimSuffix(out.String(), "\n")
}

func looksLikeAddr(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			return false
		}
	}
	return true
}
