package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kolah/gatewaygen/internal/serialize"
	"github.com/spf13/cobra"
)

// outputFormat resolves --format, falling back to the output extension.
func outputFormat(format, output string) (serialize.Format, error) {
	if format != "" {
		return serialize.ParseFormat(format)
	}
	return serialize.FormatForPath(output), nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	cmd.PrintErrf("Written: %s\n", path)
	return nil
}
