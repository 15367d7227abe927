package main

import (
	"fmt"

	goversion "github.com/hashicorp/go-version"
	"github.com/spf13/cobra"
)

// minSupportedVersion is the oldest build whose flat/structured output
// still contains the fragments the tests in decompile/*_test.go check for.
const minSupportedVersion = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wasmdec build version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(Version)
		if Version == "dev" {
			return nil
		}

		current, err := goversion.NewVersion(Version)
		if err != nil {
			return fmt.Errorf("wasmdec: parse build version %q: %w", Version, err)
		}
		min, err := goversion.NewVersion(minSupportedVersion)
		if err != nil {
			return err
		}
		if current.LessThan(min) {
			fmt.Printf("warning: build %s predates the minimum supported output format %s\n", Version, minSupportedVersion)
		}
		return nil
	},
}
