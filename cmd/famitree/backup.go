package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/famitree/internal/application/handlers"
	"github.com/ersonp/famitree/internal/domain/services"
)

type importFlags struct {
	format string
	dryRun bool
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import people from a JSON or CSV backup",
		Long: `Upserts every person in the file by id. Rows without an id are skipped and
rows with invalid fields are reported. Relationships are not part of a backup.
Use "-" to read from stdin (requires --format).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "File format (json, csv, auto)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate without saving")

	return cmd
}

func runImport(cmd *cobra.Command, filePath string, flags importFlags) error {
	if flags.format != "auto" && !slices.Contains(validFormats, flags.format) {
		return fmt.Errorf("invalid format %q (valid: auto, %s)", flags.format, strings.Join(validFormats, ", "))
	}
	if filePath == "-" && flags.format == "auto" {
		return fmt.Errorf("--format is required when reading from stdin")
	}

	ctx := cmd.Context()
	run := withEditor
	if flags.dryRun {
		run = withDeps
	}

	return run(ctx, func(d *Deps) error {
		var (
			result *services.ImportResult
			err    error
		)
		if filePath == "-" {
			result, err = d.BackupHandler.HandleImportReader(ctx, os.Stdin, flags.format, flags.dryRun)
		} else {
			result, err = d.BackupHandler.HandleImport(ctx, filePath, handlers.ImportOptions{
				Format: flags.format,
				DryRun: flags.dryRun,
			})
		}
		if err != nil {
			return fmt.Errorf("importing: %w", err)
		}

		if len(result.Errors) > 0 {
			fmt.Printf("Invalid rows (%d):\n", len(result.Errors))
			for _, e := range result.Errors {
				fmt.Printf("  %s\n", e.Error())
			}
			fmt.Println()
		}

		if flags.dryRun {
			fmt.Printf("Dry run: %d people would be imported", result.Imported)
		} else {
			fmt.Printf("Imported: %d people", result.Imported)
		}
		if result.Skipped > 0 {
			fmt.Printf(", %d skipped (no id)", result.Skipped)
		}
		fmt.Println()
		return nil
	})
}

func newExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export everyone to a JSON or CSV backup",
		Long:  `The format is taken from the file extension unless --format is given. Use "-" to write to stdout.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (json, csv)")

	return cmd
}

func runExport(cmd *cobra.Command, filePath, format string) error {
	if format != "" && !slices.Contains(validFormats, format) {
		return fmt.Errorf("invalid format %q (valid: %s)", format, strings.Join(validFormats, ", "))
	}

	return withDeps(cmd.Context(), func(d *Deps) error {
		if filePath == "-" {
			if format == "" {
				format = "json"
			}
			_, err := d.BackupHandler.HandleExportWriter(os.Stdout, format)
			return err
		}

		n, err := d.BackupHandler.HandleExport(filePath, format)
		if err != nil {
			return fmt.Errorf("exporting: %w", err)
		}
		fmt.Printf("Exported %d people to %s\n", n, filePath)
		return nil
	})
}
