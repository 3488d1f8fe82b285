package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gramseva/portal/modules/geo/domain/bulkimport"
	"github.com/gramseva/portal/modules/geo/services"
)

type importOptions struct {
	file       string
	skipHeader bool
	apply      bool
	json       bool
	errorLimit int
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import districts and villages from a CSV or XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "CSV or XLSX file with District,Village rows (required)")
	cmd.Flags().BoolVar(&opts.skipHeader, "skip-header", false, "Treat the first row as a header")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Write to the database (default is dry-run)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the plan or result as JSON")
	cmd.Flags().IntVar(&opts.errorLimit, "errors", bulkimport.DefaultSummarySize, "Maximum number of row errors to print")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runImport(ctx context.Context, out io.Writer, opts importOptions) error {
	if strings.TrimSpace(opts.file) == "" {
		return withCode(exitUsage, fmt.Errorf("--file is required"))
	}
	data, err := os.ReadFile(opts.file)
	if err != nil {
		return withCode(exitUsage, fmt.Errorf("read %s: %w", opts.file, err))
	}

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	grid, err := env.imports.ReadUpload(filepath.Base(opts.file), data)
	if err != nil {
		return withCode(exitUsage, err)
	}
	in := services.ImportInput{Grid: grid, SkipHeader: opts.skipHeader, Source: "cli:" + filepath.Base(opts.file)}

	if !opts.apply {
		plan, err := env.imports.Plan(env.ctx, in)
		if err != nil {
			return withCode(exitDB, err)
		}
		if opts.json {
			return writeJSON(out, plan)
		}
		renderPlan(out, plan)
		return nil
	}

	result, err := env.imports.Import(env.ctx, in)
	if err != nil {
		return withCode(exitDB, err)
	}
	if opts.json {
		if err := writeJSON(out, result); err != nil {
			return err
		}
	} else {
		renderResult(out, result, opts.errorLimit)
	}
	if !result.Success {
		return withCode(exitUnsuccessful, errUnsuccessful)
	}
	return nil
}
