// Package parsers reads and writes person backups in CSV and JSON.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawPerson is a backup row before validation. Dates are kept as written.
type RawPerson struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Title      string `json:"title,omitempty"`
	Address    string `json:"address,omitempty"`
	BirthDate  string `json:"birthDate,omitempty"`
	DeathDate  string `json:"deathDate,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Notes      string `json:"notes,omitempty"`
	BirthPlace string `json:"birthPlace,omitempty"`
	BuriedAt   string `json:"buriedAt,omitempty"`
	MemberRole string `json:"memberRole,omitempty"`
	LineNum    int    `json:"-"` // Line number in source file (set by parser)
}

// Columns is the backup column order. Header matching on import is
// case-insensitive.
var Columns = []string{
	"id", "name", "title", "address", "birthDate", "deathDate",
	"gender", "notes", "birthPlace", "buriedAt", "memberRole",
}

// Parser defines the interface for parsing people from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawPerson, error)
}

// Writer defines the interface for writing people in a backup format.
type Writer interface {
	Write(w io.Writer, people []RawPerson) error
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	return ForFormat(strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."))
}

// WriterForFormat returns the writer for "json" or "csv".
func WriterForFormat(format string) Writer {
	switch strings.ToLower(format) {
	case "json":
		return &JSONWriter{}
	case "csv":
		return &CSVWriter{}
	default:
		return nil
	}
}

func (p RawPerson) values() []string {
	return []string{
		p.ID, p.Name, p.Title, p.Address, p.BirthDate, p.DeathDate,
		p.Gender, p.Notes, p.BirthPlace, p.BuriedAt, p.MemberRole,
	}
}
