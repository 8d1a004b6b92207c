package parsers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONParser_Parse_ValidInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []RawPerson
	}{
		{
			name:  "single person",
			input: `[{"id": "p1", "name": "An", "gender": "male"}]`,
			expected: []RawPerson{
				{ID: "p1", Name: "An", Gender: "male", LineNum: 1},
			},
		},
		{
			name:     "empty array",
			input:    "[]",
			expected: []RawPerson{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &JSONParser{}
			result, err := parser.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestJSONParser_Parse_InvalidInput(t *testing.T) {
	parser := &JSONParser{}
	_, err := parser.Parse(strings.NewReader("not json"))
	require.Error(t, err)
}

func TestCSVParser_Parse_ValidInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []RawPerson
	}{
		{
			name:  "id and name only",
			input: "id,name\np1,An\n",
			expected: []RawPerson{
				{ID: "p1", Name: "An", LineNum: 2},
			},
		},
		{
			name:     "header only",
			input:    "id,name\n",
			expected: nil,
		},
		{
			name:  "mixed case headers and byte order mark",
			input: "\ufeffName,ID,BirthDate\n Binh ,p2,1950-03-15\n",
			expected: []RawPerson{
				{ID: "p2", Name: "Binh", BirthDate: "1950-03-15", LineNum: 2},
			},
		},
		{
			name:  "quoted field with comma and CRLF",
			input: "id,name,notes\r\np3,Chi,\"line one, \"\"quoted\"\"\"\r\n",
			expected: []RawPerson{
				{ID: "p3", Name: "Chi", Notes: `line one, "quoted"`, LineNum: 2},
			},
		},
		{
			name:  "short row",
			input: "id,name,title\np4\n",
			expected: []RawPerson{
				{ID: "p4", LineNum: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &CSVParser{}
			result, err := parser.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCSVParser_Parse_MissingID(t *testing.T) {
	parser := &CSVParser{}
	_, err := parser.Parse(strings.NewReader("name,title\nAn,Mr\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column: id")
}

func TestCSVWriter_RoundTrip(t *testing.T) {
	people := []RawPerson{
		{ID: "p1", Name: "An", Title: "Ông", BirthDate: "1950-03-15", Gender: "male", Notes: "a, b"},
		{ID: "p2", Name: "Binh", DeathDate: "2001", MemberRole: "daughter-in-law"},
	}

	var buf bytes.Buffer
	require.NoError(t, (&CSVWriter{}).Write(&buf, people))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\ufeffid,name,title,address,birthDate,deathDate,gender,notes,birthPlace,buriedAt,memberRole\r\n"))

	parsed, err := (&CSVParser{}).Parse(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	for i := range parsed {
		parsed[i].LineNum = 0
	}
	assert.Equal(t, people, parsed)
}

func TestJSONWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONWriter{}).Write(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestForFormat(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFormat("json"))
	assert.IsType(t, &CSVParser{}, ForFormat("CSV"))
	assert.Nil(t, ForFormat("unknown"))
	assert.IsType(t, &CSVWriter{}, WriterForFormat("csv"))
	assert.Nil(t, WriterForFormat("xml"))
}

func TestForFile(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFile("people.json"))
	assert.IsType(t, &CSVParser{}, ForFile("backup.CSV"))
	assert.Nil(t, ForFile("file.txt"))
	assert.Nil(t, ForFile("noextension"))
}
