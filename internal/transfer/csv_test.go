package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSVLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{
			name:     "plain fields",
			line:     "a,b,c",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "quoted field with comma",
			line:     `https://example.com,"Title, with comma",desc`,
			expected: []string{"https://example.com", "Title, with comma", "desc"},
		},
		{
			name:     "escaped quote inside quoted field",
			line:     `a,"say ""hi""",c`,
			expected: []string{"a", `say "hi"`, "c"},
		},
		{
			name:     "empty fields",
			line:     "a,,c",
			expected: []string{"a", "", "c"},
		},
		{
			name:     "single field",
			line:     "only",
			expected: []string{"only"},
		},
		{
			name:     "trailing empty field",
			line:     "a,b,",
			expected: []string{"a", "b", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseCSVLine(tt.line))
		})
	}
}

func TestParseCSV(t *testing.T) {
	csv := "path,title,tags\nhttps://a.com,Site A,\"go, web\"\nhttps://b.com,Site B,"

	rows := parseCSV(csv)

	assert.Len(t, rows, 2)
	assert.Equal(t, "https://a.com", rows[0]["path"])
	assert.Equal(t, "Site A", rows[0]["title"])
	assert.Equal(t, "go, web", rows[0]["tags"])
	assert.Equal(t, "https://b.com", rows[1]["path"])
	assert.Equal(t, "", rows[1]["tags"])
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	assert.Nil(t, parseCSV("path,title"))
	assert.Nil(t, parseCSV(""))
}

func TestParseCSV_MissingTrailingFields(t *testing.T) {
	rows := parseCSV("path,title,description\nhttps://a.com,Only")

	assert.Len(t, rows, 1)
	assert.Equal(t, "Only", rows[0]["title"])
	assert.Equal(t, "", rows[0]["description"])
}

func TestParseCSV_TrimsWhitespace(t *testing.T) {
	rows := parseCSV("path, title\nhttps://a.com ,  Site A  ")

	assert.Len(t, rows, 1)
	assert.Equal(t, "https://a.com", rows[0]["path"])
	assert.Equal(t, "Site A", rows[0]["title"])
}

func TestEscapeCSV(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{"plain", "plain"},
		{"with, comma", `"with, comma"`},
		{`with "quote"`, `"with ""quote"""`},
		{"with\nnewline", "\"with\nnewline\""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, EscapeCSV(tt.value))
	}
}

func TestEscapeCSV_RoundTrip(t *testing.T) {
	values := []string{"simple", "a, b", `quote "inside"`, "both, \"kinds\""}

	for _, v := range values {
		line := EscapeCSV(v)
		parsed := parseCSVLine(line)
		assert.Equal(t, []string{v}, parsed)
	}
}
