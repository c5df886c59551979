package cli

import (
	"fmt"

	"github.com/kolah/gatewaygen/internal/loader"
	"github.com/kolah/gatewaygen/internal/serialize"
	"github.com/kolah/gatewaygen/internal/sourcegen"
	"github.com/spf13/cobra"
)

func OpenAPICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "openapi <input>",
		Short: "Prepare a service OpenAPI document for gateway generation",
		Long: "Add the standard headers and security requirements to every operation,\n" +
			"define the bearer and API key schemes, and remove empty response markers.",
		Args: cobra.ExactArgs(1),
		RunE: runOpenAPI,
	}

	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringP("format", "f", "", "Output format: yaml, json (default: from output extension)")
	cmd.Flags().String("empty-response-schema", "", "Schema marking a 200 response without body (default: EmptyResponse)")

	return cmd
}

func runOpenAPI(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	formatName, _ := cmd.Flags().GetString("format")
	emptySchema, _ := cmd.Flags().GetString("empty-response-schema")

	format, err := outputFormat(formatName, output)
	if err != nil {
		return err
	}

	result, err := loader.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("loading spec: %w", err)
	}

	doc, res := sourcegen.Prepare(result.Tree, sourcegen.Options{EmptyResponseSchema: emptySchema})
	cmd.PrintErrf("Prepared %d operations\n", res.Operations)
	cmd.PrintErrf("  Empty responses removed: %d\n", res.EmptyResponses)
	if len(res.RemovedSchemas) > 0 {
		cmd.PrintErrf("  Schemas removed: %v\n", res.RemovedSchemas)
	}

	data, err := serialize.Plain(doc, format)
	if err != nil {
		return fmt.Errorf("serializing output: %w", err)
	}

	return writeOutput(cmd, output, data)
}
