package core

import (
	"fmt"
	"strings"
)

// Parse splits raw text into a header list, valid records and row errors.
//
// Lines that are blank after trimming are skipped. The first remaining line
// is the header; every following line must split into exactly as many fields.
// Lines that don't are collected as RowErrors and parsing continues. Splitting
// is a plain split on ';' with no quote handling.
//
// Line numbers count non-blank lines, with the header as line 1.
// Returns ErrEmptyInput when the text holds no non-blank line.
func Parse(text string) (*ParsedTable, error) {
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return nil, fmt.Errorf("parse: %w", ErrEmptyInput)
	}

	headers := splitTrimmed(lines[0])
	expected := len(headers)

	table := &ParsedTable{
		Headers:   headers,
		Records:   make([]Record, 0, len(lines)-1),
		RowErrors: nil,
	}

	for i := 1; i < len(lines); i++ {
		line := lines[i]
		fields := strings.Split(line, Delimiter)

		if len(fields) != expected {
			table.RowErrors = append(table.RowErrors, &RowError{
				Line:     i + 1,
				Expected: expected,
				Actual:   len(fields),
				Data:     line,
			})
			continue
		}

		values := make([]string, expected)
		for pos := range headers {
			if pos < len(fields) {
				values[pos] = strings.TrimSpace(fields[pos])
			} else {
				values[pos] = ""
			}
		}
		table.Records = append(table.Records, Record{Values: values})
	}

	return table, nil
}

// nonBlankLines splits on '\n' and drops lines that are empty after trimming.
// Surviving lines are returned untrimmed.
func nonBlankLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func splitTrimmed(line string) []string {
	fields := strings.Split(line, Delimiter)
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}
