package templates

import (
	"strings"

	"github.com/JonMunkholm/csvclean/internal/core"
	"github.com/a-h/templ"
)

// ErrorAlert renders a single user-facing error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="alert" role="alert"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(`<br>`)
			h.text(action)
		}
		if code != "" {
			h.raw(` <span class="code">(Code: `)
			h.text(code)
			h.raw(`)</span>`)
		}
		h.raw(`</div>`)
	})
}

// UploadForm is the file picker. Submitting it replaces the current file.
func UploadForm() templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<form class="card" method="post" action="/upload" enctype="multipart/form-data">`)
		h.raw(`<label for="file">Semicolon-delimited CSV file</label><br>`)
		h.raw(`<input id="file" type="file" name="file" accept=".csv,text/csv" required> `)
		h.raw(`<button type="submit">Upload</button></form>`)
	})
}

// FileInfo shows the file-level counts of a parsed upload.
func FileInfo(fileName string, encoding core.Encoding, s core.Summary) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="card file-info"><strong>File:</strong> `)
		h.text(fileName)
		h.raw(`<br><strong>Encoding:</strong> `)
		h.text(string(encoding))
		h.printf(`<br><strong>Total rows:</strong> %d`, s.TotalRows)
		h.printf(`<br><strong>Valid rows:</strong> %d`, s.ValidRows)
		h.printf(`<br><strong>Rows with errors:</strong> %d`, s.ErrorRows)
		h.printf(`<br><strong>Expected columns:</strong> %d`, s.ExpectedColumns)
		h.raw(`<br><strong>Detected columns:</strong> `)
		h.text(strings.Join(s.Headers, ", "))
		h.raw(`</div>`)
	})
}

// ColumnStats lists the non-empty count of each column.
func ColumnStats(stats []core.ColumnStat) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="card column-stats"><h2>Values per column</h2>`)
		for _, s := range stats {
			h.raw(`<div class="stat-item"><strong>`)
			h.text(s.Header)
			h.printf(`:</strong> %d values (%.1f%% filled)</div>`, s.NonEmpty, s.FillPercent)
		}
		h.raw(`</div>`)
	})
}

// RowErrors lists the sampled row errors and how many were left out.
func RowErrors(p core.ErrorPreview) templ.Component {
	return component(func(h *htmlWriter) {
		if p.Total == 0 {
			return
		}
		h.raw(`<div class="card validation-results"><h2>Validation errors</h2>`)
		h.printf(`<p>%d rows have the wrong number of columns.</p>`, p.Total)
		for _, e := range p.Samples {
			h.printf(`<div class="row-error"><strong>Line %d:</strong> expected %d columns, found %d<br><small>`,
				e.Line, e.Expected, e.Actual)
			h.text(e.Excerpt)
			h.raw(`</small></div>`)
		}
		if p.More > 0 {
			h.printf(`<p>... and %d more</p>`, p.More)
		}
		h.raw(`</div>`)
	})
}

// ProcessResult reports how many cells normalization changed.
func ProcessResult(changed int) templ.Component {
	return component(func(h *htmlWriter) {
		h.printf(`<div class="success">Processing complete. %d values normalized. `, changed)
		h.raw(`Accents removed, ñ converted to n, ü converted to u. The file is ready to download.</div>`)
	})
}

// Preview renders the first processed rows. Full cell values are kept in the
// title attribute.
func Preview(p core.TablePreview) templ.Component {
	return component(func(h *htmlWriter) {
		if len(p.Rows) == 0 {
			return
		}
		h.printf(`<h2>Preview (first %d processed rows)</h2><table><tr>`, len(p.Rows))
		for _, header := range p.Headers {
			h.raw(`<th>`)
			h.text(header)
			h.raw(`</th>`)
		}
		h.raw(`</tr>`)
		for _, row := range p.Rows {
			h.raw(`<tr>`)
			for _, cell := range row {
				h.raw(`<td title="`)
				h.text(cell.Full)
				h.raw(`">`)
				h.text(cell.Text)
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</table>`)
	})
}

// Actions renders the buttons available for the current state.
func Actions(processed bool) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="actions">`)
		if !processed {
			h.raw(`<form class="inline" method="post" action="/process"><button type="submit">Process file</button></form>`)
		} else {
			h.raw(`<a class="button" href="/download">Download processed file</a> `)
		}
		h.raw(`<form class="inline" method="post" action="/reset"><button class="secondary" type="submit">Start over</button></form>`)
		h.raw(`</div>`)
	})
}
