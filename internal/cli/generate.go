package cli

import (
	"fmt"

	"github.com/kolah/gatewaygen/internal/config"
	"github.com/kolah/gatewaygen/internal/converter"
	"github.com/kolah/gatewaygen/internal/loader"
	"github.com/kolah/gatewaygen/internal/serialize"
	"github.com/kolah/gatewaygen/internal/statics"
	"github.com/kolah/gatewaygen/internal/synth"
	"github.com/spf13/cobra"
)

func GenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the API Gateway document from an OpenAPI specification",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}

	config.BindCommonFlags(cmd)
	config.BindGatewayFlags(cmd)

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	format, err := outputFormat(cfg.Format, cfg.Output)
	if err != nil {
		return err
	}

	table, err := loadStatics(cfg.Gateway.Statics)
	if err != nil {
		return err
	}

	result, err := loader.LoadFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("loading spec: %w", err)
	}

	for _, w := range result.Warnings {
		cmd.PrintErrf("Warning: %s\n", w)
	}

	cmd.PrintErrf("Loaded OpenAPI %s\n", result.Version)
	cmd.PrintErrf("  Paths: %d\n", result.Paths)
	cmd.PrintErrf("  Schemas: %d\n", result.Schemas)

	conv, err := converter.New(converter.Options{
		Info: converter.Info{
			Title:       cfg.Gateway.Title,
			Description: cfg.Gateway.Description,
			Version:     cfg.Gateway.Version,
			ServersURL:  cfg.Gateway.ServersURL,
			BasePath:    cfg.Gateway.BasePath,
		},
		Synth: synth.Options{
			FrontendOrigin:      cfg.Gateway.Origin(),
			ConnectionID:        cfg.Gateway.ConnectionID,
			EmptyResponseSchema: cfg.Gateway.EmptyResponseSchema,
			ErrorSchema:         cfg.Gateway.ErrorSchema,
		},
		Statics:         table,
		TransitivePrune: cfg.Prune.Transitive,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	doc, report, err := conv.Convert(result.Tree)
	if err != nil {
		return fmt.Errorf("converting spec: %w", err)
	}

	cmd.PrintErrf("Generated %d paths, %d methods\n", report.Paths, report.Methods)
	cmd.PrintErrf("  Pruned schemas: %d\n", len(report.Deleted))
	if len(report.Retained) > 0 {
		cmd.PrintErrf("  Still referenced: %v\n", report.Retained)
	}

	data, err := serialize.Bytes(doc, format)
	if err != nil {
		return fmt.Errorf("serializing output: %w", err)
	}

	if cfg.ValidateOutput {
		messages, err := loader.ValidateOutput(data)
		if err != nil {
			return fmt.Errorf("validating output: %w", err)
		}
		for _, m := range messages {
			cmd.PrintErrf("Warning: output: %s\n", m)
		}
	}

	return writeOutput(cmd, cfg.Output, data)
}

func loadStatics(path string) (*statics.Table, error) {
	if path == "" {
		return statics.Default()
	}
	table, err := statics.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading statics: %w", err)
	}
	return table, nil
}
