package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// utf8BOM is written before CSV exports so spreadsheet tools detect UTF-8.
const utf8BOM = "\ufeff"

// CSVParser parses people from CSV format.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed people.
// The header row is required and must contain an id column. Blank lines are
// skipped.
func (p *CSVParser) Parse(r io.Reader) ([]RawPerson, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads the header row into a lowercase column index.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, utf8BOM)
		}
		key := strings.ToLower(strings.TrimSpace(col))
		if _, dup := colIndex[key]; !dup {
			colIndex[key] = i
		}
	}

	if _, ok := colIndex["id"]; !ok {
		return nil, fmt.Errorf("missing required column: id")
	}

	return colIndex, nil
}

func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawPerson, error) {
	var people []RawPerson

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)
		people = append(people, p.parseRecord(record, colIndex, line))
	}

	return people, nil
}

func (p *CSVParser) parseRecord(record []string, colIndex map[string]int, lineNum int) RawPerson {
	get := func(col string) string {
		return strings.TrimSpace(getColumn(record, colIndex, strings.ToLower(col)))
	}
	return RawPerson{
		ID:         get("id"),
		Name:       get("name"),
		Title:      get("title"),
		Address:    get("address"),
		BirthDate:  get("birthDate"),
		DeathDate:  get("deathDate"),
		Gender:     get("gender"),
		Notes:      get("notes"),
		BirthPlace: get("birthPlace"),
		BuriedAt:   get("buriedAt"),
		MemberRole: get("memberRole"),
		LineNum:    lineNum,
	}
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}

// CSVWriter writes people as CSV with a UTF-8 byte order mark and CRLF line
// endings.
type CSVWriter struct{}

// Write writes the header and one row per person.
func (cw *CSVWriter) Write(w io.Writer, people []RawPerson) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	writer.UseCRLF = true

	if err := writer.Write(Columns); err != nil {
		return err
	}
	for _, p := range people {
		if err := writer.Write(p.values()); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
