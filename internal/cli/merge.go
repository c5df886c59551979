package cli

import (
	"fmt"

	"github.com/kolah/gatewaygen/internal/loader"
	"github.com/kolah/gatewaygen/internal/merge"
	"github.com/kolah/gatewaygen/internal/serialize"
	"github.com/spf13/cobra"
)

func MergeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <base> <overlay>",
		Short: "Merge the paths and components of an overlay document into a base document",
		Args:  cobra.ExactArgs(2),
		RunE:  runMerge,
	}

	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringP("format", "f", "", "Output format: yaml, json (default: from output extension)")

	return cmd
}

func runMerge(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	formatName, _ := cmd.Flags().GetString("format")

	format, err := outputFormat(formatName, output)
	if err != nil {
		return err
	}

	base, err := loader.LoadTree(args[0])
	if err != nil {
		return fmt.Errorf("loading base: %w", err)
	}
	overlay, err := loader.LoadTree(args[1])
	if err != nil {
		return fmt.Errorf("loading overlay: %w", err)
	}

	data, err := serialize.Plain(merge.Merge(base, overlay), format)
	if err != nil {
		return fmt.Errorf("serializing output: %w", err)
	}

	return writeOutput(cmd, output, data)
}
