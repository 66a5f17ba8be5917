package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dgallion1/docnav/internal/pipeline"
	"github.com/dgallion1/docnav/internal/sidebar"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the validated sidebars in canonical form",
	Long:  "Export runs a full build and writes the canonical YAML or JSON form of every sidebar. Nothing is written when the build has violations.",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringP("format", "f", "yaml", "output format: yaml or json")
	exportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	var encode func(io.Writer, *sidebar.Registry) error
	switch format {
	case "yaml", "yml":
		encode = sidebar.EncodeYAML
	case "json":
		encode = sidebar.EncodeJSON
	default:
		return usageErr("--format must be yaml or json, got %q", format)
	}

	cfg, log, err := setup(os.Stderr)
	if err != nil {
		return err
	}
	b, err := pipeline.Run(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	if err := b.Err(); err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		return encode(cmd.OutOrStdout(), b.Registry)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := encode(f, b.Registry); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info("sidebars exported", "path", output, "format", format, "trees", b.Registry.Len())
	return nil
}
