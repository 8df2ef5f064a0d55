package core

import (
	"math"
	"strings"
)

// Summary describes a parsed file for display.
type Summary struct {
	TotalRows       int      `json:"total_rows"` // data lines, valid or not
	ValidRows       int      `json:"valid_rows"`
	ErrorRows       int      `json:"error_rows"`
	ExpectedColumns int      `json:"expected_columns"`
	Headers         []string `json:"headers"`
}

// ColumnStat counts the non-empty values of one column.
type ColumnStat struct {
	Header      string  `json:"header"`
	NonEmpty    int     `json:"non_empty"`
	FillPercent float64 `json:"fill_percent"` // one decimal; 0 with no records
}

// Summarize returns the file-level counts for a parsed table.
func Summarize(t *ParsedTable) Summary {
	return Summary{
		TotalRows:       len(t.Records) + len(t.RowErrors),
		ValidRows:       len(t.Records),
		ErrorRows:       len(t.RowErrors),
		ExpectedColumns: t.ExpectedColumns(),
		Headers:         t.Headers,
	}
}

// ColumnStats returns one entry per header position, in header order.
func ColumnStats(t *ParsedTable) []ColumnStat {
	stats := make([]ColumnStat, len(t.Headers))
	for i, h := range t.Headers {
		stats[i].Header = h
	}

	for _, rec := range t.Records {
		for i := range stats {
			if strings.TrimSpace(rec.Value(i)) != "" {
				stats[i].NonEmpty++
			}
		}
	}

	if n := len(t.Records); n > 0 {
		for i := range stats {
			pct := float64(stats[i].NonEmpty) * 100 / float64(n)
			stats[i].FillPercent = math.Round(pct*10) / 10
		}
	}

	return stats
}
