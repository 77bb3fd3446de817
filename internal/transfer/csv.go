package transfer

import "strings"

// The CSV dialect here is deliberately line-based: the payload is split into
// lines before fields are tokenized, so a literal newline inside a quoted
// field breaks row alignment. This is a known limitation kept for
// compatibility with historical exports, which were produced the same way.

// parseCSVLine tokenizes a single line into fields. Fields may be wrapped in
// double quotes; an embedded quote is escaped by doubling it.
func parseCSVLine(line string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]

		if inQuotes {
			switch {
			case ch == '"' && i+1 < len(line) && line[i+1] == '"':
				current.WriteByte('"')
				i++
			case ch == '"':
				inQuotes = false
			default:
				current.WriteByte(ch)
			}
			continue
		}

		switch ch {
		case '"':
			inQuotes = true
		case ',':
			result = append(result, current.String())
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	result = append(result, current.String())

	return result
}

// parseCSV splits the payload into header-keyed rows. The header row defines
// field names positionally; every field is trimmed and missing trailing
// fields map to the empty string. A payload with fewer than two lines yields
// zero rows.
func parseCSV(content string) []map[string]string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) < 2 {
		return nil
	}

	headers := parseCSVLine(lines[0])
	rows := make([]map[string]string, 0, len(lines)-1)

	for _, line := range lines[1:] {
		values := parseCSVLine(line)
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			value := ""
			if i < len(values) {
				value = strings.TrimSpace(values[i])
			}
			row[strings.TrimSpace(header)] = value
		}
		rows = append(rows, row)
	}

	return rows
}

// EscapeCSV quotes a field if and only if it contains a comma, a double
// quote, or a newline, doubling any internal quotes.
func EscapeCSV(value string) string {
	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}
