package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dgallion1/docnav/internal/pipeline"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Build every sidebar and check it against the docs directory",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().Bool("json", false, "print the build report as JSON")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(os.Stderr)
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	b, err := pipeline.Run(cmd.Context(), cfg, log)
	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(b.Snapshot()); encErr != nil {
			return encErr
		}
	}
	if err != nil {
		return err
	}

	if b.Status == pipeline.StatusInvalid {
		if !asJSON {
			for _, v := range b.Violations {
				fmt.Fprintln(out, "✗", v.String())
			}
		}
		return fmt.Errorf("validation failed with %d violation(s)", len(b.Violations))
	}

	if !asJSON {
		fmt.Fprintf(out, "✓ %d sidebar(s), %d document(s), no violations\n", b.Registry.Len(), b.Corpus.Len())
	}
	return nil
}
