package core

import "unicode/utf8"

// Display limits for diagnostics and the processed-row preview.
const (
	ErrorSampleLimit   = 10
	ErrorExcerptWidth  = 100
	PreviewRowLimit    = 10
	PreviewCellWidth   = 30
	truncationEllipsis = "..."
)

// ErrorSample is one row error shaped for display.
type ErrorSample struct {
	Line     int    `json:"line"`
	Expected int    `json:"expected"`
	Actual   int    `json:"actual"`
	Excerpt  string `json:"excerpt"`
}

// ErrorPreview holds the first row errors of a file and how many were left out.
type ErrorPreview struct {
	Total   int           `json:"total"`
	Samples []ErrorSample `json:"samples"`
	More    int           `json:"more"`
}

// CellPreview is a possibly shortened cell with its full value kept for
// tooltips.
type CellPreview struct {
	Text string `json:"text"`
	Full string `json:"full"`
}

// TablePreview holds the first processed rows of a file.
type TablePreview struct {
	Headers []string        `json:"headers"`
	Rows    [][]CellPreview `json:"rows"`
	More    int             `json:"more"`
}

// PreviewErrors returns at most limit samples with the raw line cut to width
// runes. A non-positive limit or width disables that bound.
func PreviewErrors(errs []*RowError, limit, width int) ErrorPreview {
	n := len(errs)
	if limit > 0 && n > limit {
		n = limit
	}

	p := ErrorPreview{
		Total:   len(errs),
		Samples: make([]ErrorSample, n),
		More:    len(errs) - n,
	}
	for i, e := range errs[:n] {
		p.Samples[i] = ErrorSample{
			Line:     e.Line,
			Expected: e.Expected,
			Actual:   e.Actual,
			Excerpt:  truncate(e.Data, width),
		}
	}
	return p
}

// PreviewTable returns the first limit records of t with every cell cut to
// width runes.
func PreviewTable(t *NormalizedTable, limit, width int) TablePreview {
	n := len(t.Records)
	if limit > 0 && n > limit {
		n = limit
	}

	p := TablePreview{
		Headers: t.Headers,
		Rows:    make([][]CellPreview, n),
		More:    len(t.Records) - n,
	}
	for i, rec := range t.Records[:n] {
		row := make([]CellPreview, len(t.Headers))
		for j := range t.Headers {
			v := rec.Value(j)
			row[j] = CellPreview{Text: truncate(v, width), Full: v}
		}
		p.Rows[i] = row
	}
	return p
}

// truncate cuts s to width runes and marks the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	n := 0
	for i := range s {
		if n == width {
			return s[:i] + truncationEllipsis
		}
		n++
	}
	return s
}
