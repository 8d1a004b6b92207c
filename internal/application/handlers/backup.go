package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ersonp/famitree/internal/domain/services"
	"github.com/ersonp/famitree/internal/infrastructure/parsers"
)

// BackupHandler handles importing and exporting person rows.
type BackupHandler struct {
	service *services.BackupService
}

// NewBackupHandler creates a new backup handler.
func NewBackupHandler(service *services.BackupService) *BackupHandler {
	return &BackupHandler{
		service: service,
	}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format string // "json", "csv", or "auto"
	DryRun bool   // Validate without saving
}

// HandleImport imports people from a file.
func (h *BackupHandler) HandleImport(ctx context.Context, filePath string, opts ImportOptions) (*services.ImportResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	format := opts.Format
	if format == "" || format == "auto" {
		format = formatFromPath(filePath)
	}
	return h.HandleImportReader(ctx, file, format, opts.DryRun)
}

// HandleImportReader imports people from r in the given format.
func (h *BackupHandler) HandleImportReader(ctx context.Context, r io.Reader, format string, dryRun bool) (*services.ImportResult, error) {
	parser := parsers.ForFormat(format)
	if parser == nil {
		return nil, fmt.Errorf("unsupported import format: %q", format)
	}

	rows, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	if len(rows) == 0 {
		return &services.ImportResult{}, nil
	}

	return h.service.Import(ctx, rows, services.ImportOptions{DryRun: dryRun})
}

// HandleExport writes every person to filePath. An empty format is taken
// from the file extension.
func (h *BackupHandler) HandleExport(filePath, format string) (int, error) {
	if format == "" {
		format = formatFromPath(filePath)
	}
	if parsers.WriterForFormat(format) == nil {
		return 0, fmt.Errorf("unsupported export format: %q", format)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return 0, fmt.Errorf("creating directory: %w", err)
	}
	file, err := os.Create(filePath)
	if err != nil {
		return 0, fmt.Errorf("creating file: %w", err)
	}

	n, err := h.service.Export(file, format)
	if cerr := file.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing file: %w", cerr)
	}
	return n, err
}

// HandleExportWriter writes every person to w.
func (h *BackupHandler) HandleExportWriter(w io.Writer, format string) (int, error) {
	return h.service.Export(w, format)
}

func formatFromPath(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
