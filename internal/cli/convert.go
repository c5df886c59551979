package cli

import (
	"fmt"

	"github.com/kolah/gatewaygen/internal/loader"
	"github.com/kolah/gatewaygen/internal/serialize"
	"github.com/spf13/cobra"
)

func ConvertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a document between JSON and YAML, keeping key order",
		Long: "Convert a document between JSON and YAML. The output format follows the\n" +
			"output file extension unless --format is given.",
		Args: cobra.ExactArgs(2),
		RunE: runConvert,
	}

	cmd.Flags().StringP("format", "f", "", "Output format: yaml, json (default: from output extension)")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")

	format, err := outputFormat(formatName, args[1])
	if err != nil {
		return err
	}

	doc, err := loader.LoadTree(args[0])
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}

	data, err := serialize.Plain(doc, format)
	if err != nil {
		return fmt.Errorf("serializing output: %w", err)
	}

	return writeOutput(cmd, args[1], data)
}
