package main

import (
	"fmt"
	"os"

	"github.com/dgallion1/docnav/internal/pipeline"
	"github.com/dgallion1/docnav/internal/render"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [sidebar...]",
	Short: "Print sidebars as text trees",
	Long:  "Print the named sidebars, or all of them, as text trees. Invalid builds are still shown, followed by their violations.",
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(os.Stderr)
	if err != nil {
		return err
	}

	b, err := pipeline.Run(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		if err := render.Registry(out, b.Registry, b.Corpus); err != nil {
			return err
		}
	}
	for i, name := range args {
		tree, ok := b.Registry.Tree(name)
		if !ok {
			return fmt.Errorf("unknown sidebar %q (have %v)", name, b.Registry.Names())
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := render.Tree(out, tree, b.Corpus); err != nil {
			return err
		}
	}
	return b.Err()
}
