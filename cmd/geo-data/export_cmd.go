package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gramseva/portal/pkg/spreadsheet"
)

type exportOptions struct {
	format string
	output string
}

func newExportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export districts and villages as CSV or XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "csv", "Output format: csv or xlsx")
	cmd.Flags().StringVar(&opts.output, "output", "", "Output file (default: stdout)")

	return cmd
}

func runExport(ctx context.Context, out io.Writer, opts exportOptions) error {
	format := spreadsheet.Format(strings.ToLower(strings.TrimSpace(opts.format)))
	if format != spreadsheet.FormatCSV && format != spreadsheet.FormatXLSX {
		return withCode(exitUsage, fmt.Errorf("unsupported --format: %s", opts.format))
	}
	if format == spreadsheet.FormatXLSX && opts.output == "" {
		return withCode(exitUsage, fmt.Errorf("--output is required for xlsx"))
	}

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	var buf bytes.Buffer
	if err := env.imports.Export(env.ctx, &buf, format); err != nil {
		return withCode(exitDB, err)
	}
	if opts.output == "" {
		_, err := out.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(opts.output, buf.Bytes(), 0o644); err != nil {
		return withCode(exitUsage, fmt.Errorf("write %s: %w", opts.output, err))
	}
	return nil
}
