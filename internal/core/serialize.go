package core

import "strings"

// lineEnding terminates every output row, header included.
const lineEnding = "\r\n"

// Serialize writes the table as semicolon-delimited text.
//
// Values containing ';', '"' or '\n' are wrapped in double quotes with inner
// quotes doubled. Everything else is written as is. With no records the output
// is the header row alone.
func Serialize(t *NormalizedTable) string {
	var b strings.Builder

	b.WriteString(strings.Join(t.Headers, Delimiter))
	b.WriteString(lineEnding)

	for _, rec := range t.Records {
		for i := range t.Headers {
			if i > 0 {
				b.WriteString(Delimiter)
			}
			b.WriteString(escapeField(rec.Value(i)))
		}
		b.WriteString(lineEnding)
	}

	return b.String()
}

func escapeField(v string) string {
	if !strings.ContainsAny(v, ";\"\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
