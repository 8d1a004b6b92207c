package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ersonp/famitree/internal/domain/entities"
	"github.com/ersonp/famitree/internal/infrastructure/parsers"
)

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool // Validate without saving
}

// ImportError represents an error for a specific row during import.
type ImportError struct {
	Line    int    // Line number (1-indexed, 0 if unknown)
	Field   string // Which field has the error
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported int
	Skipped  int // rows without an id
	Errors   []ImportError
}

// PersonImporter upserts people by id. FamilyStore implements it.
type PersonImporter interface {
	GraphSource
	ImportPerson(ctx context.Context, person entities.Person) error
}

// BackupService restores and exports person backups. Relationships are not
// part of a backup.
type BackupService struct {
	store PersonImporter
}

// NewBackupService creates a new backup service.
func NewBackupService(store PersonImporter) *BackupService {
	return &BackupService{store: store}
}

// Import converts raw rows and upserts each valid one. Rows without an id are
// skipped; rows with invalid fields are reported and not imported.
func (s *BackupService) Import(ctx context.Context, rows []parsers.RawPerson, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	for _, row := range rows {
		if row.ID == "" {
			result.Skipped++
			continue
		}
		person, ierr := convertRawPerson(row)
		if ierr != nil {
			result.Errors = append(result.Errors, *ierr)
			continue
		}
		if opts.DryRun {
			result.Imported++
			continue
		}
		if err := s.store.ImportPerson(ctx, person); err != nil {
			var verr *entities.ValidationError
			if errors.As(err, &verr) {
				result.Errors = append(result.Errors, ImportError{
					Line: row.LineNum, Field: verr.Field, Message: verr.Error(),
				})
				continue
			}
			return result, fmt.Errorf("importing person %s: %w", row.ID, err)
		}
		result.Imported++
	}

	return result, nil
}

func convertRawPerson(row parsers.RawPerson) (entities.Person, *ImportError) {
	p := entities.Person{
		ID:         row.ID,
		Name:       row.Name,
		Title:      row.Title,
		Address:    row.Address,
		Notes:      row.Notes,
		BirthPlace: row.BirthPlace,
		BuriedAt:   row.BuriedAt,
		Gender:     entities.Gender(row.Gender),
		MemberRole: entities.MemberRole(row.MemberRole),
		BirthDate:  importDate(row.BirthDate),
		DeathDate:  importDate(row.DeathDate),
	}
	if !p.Gender.IsValid() {
		return p, &ImportError{Line: row.LineNum, Field: "gender", Value: row.Gender,
			Message: fmt.Sprintf("invalid gender %q", row.Gender)}
	}
	if !p.MemberRole.IsValid() {
		return p, &ImportError{Line: row.LineNum, Field: "memberRole", Value: row.MemberRole,
			Message: fmt.Sprintf("invalid member role %q", row.MemberRole)}
	}
	return p, nil
}

// importDate normalizes display dates and keeps anything else verbatim.
func importDate(s string) entities.FlexDate {
	if d, err := entities.ParseDisplayDate(s); err == nil {
		return d
	}
	return entities.FlexDate(s)
}

// Export writes every person in the given format ("csv" or "json").
func (s *BackupService) Export(w io.Writer, format string) (int, error) {
	writer := parsers.WriterForFormat(format)
	if writer == nil {
		return 0, fmt.Errorf("unsupported export format: %s", format)
	}

	people := s.store.Graph().People()
	rows := make([]parsers.RawPerson, 0, len(people))
	for _, p := range people {
		rows = append(rows, parsers.RawPerson{
			ID:         p.ID,
			Name:       p.Name,
			Title:      p.Title,
			Address:    p.Address,
			BirthDate:  string(p.BirthDate),
			DeathDate:  string(p.DeathDate),
			Gender:     string(p.Gender),
			Notes:      p.Notes,
			BirthPlace: p.BirthPlace,
			BuriedAt:   p.BuriedAt,
			MemberRole: string(p.MemberRole),
		})
	}

	if err := writer.Write(w, rows); err != nil {
		return 0, fmt.Errorf("writing %s export: %w", format, err)
	}
	return len(rows), nil
}
