package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses people from a JSON array.
type JSONParser struct{}

// Parse reads JSON from the reader and returns parsed people.
func (p *JSONParser) Parse(r io.Reader) ([]RawPerson, error) {
	var people []RawPerson

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&people); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// Set line numbers (array index + 1, 1-indexed)
	for i := range people {
		people[i].LineNum = i + 1
	}

	return people, nil
}

// JSONWriter writes people as an indented JSON array.
type JSONWriter struct{}

// Write encodes people. A nil slice is written as an empty array.
func (jw *JSONWriter) Write(w io.Writer, people []RawPerson) error {
	if people == nil {
		people = []RawPerson{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(people)
}
