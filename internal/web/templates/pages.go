package templates

import (
	"github.com/JonMunkholm/csvclean/internal/core"
	"github.com/a-h/templ"
)

// PageData is everything the single page can show. A nil Session renders
// the empty upload form; a non-nil Error replaces the session output.
type PageData struct {
	Session *core.Session
	Error   *core.UserMessage
}

// IndexPage renders the upload page in its current state.
func IndexPage(d PageData) templ.Component {
	return Layout("CSV Cleaner", component(func(h *htmlWriter) {
		if d.Error != nil {
			h.render(ErrorAlert(d.Error.Message, d.Error.Action, d.Error.Code))
			h.render(UploadForm())
			return
		}

		h.render(UploadForm())

		sess := d.Session
		if sess == nil {
			return
		}

		h.render(FileInfo(sess.FileName, sess.Encoding, core.Summarize(sess.Parsed)))
		h.render(ColumnStats(core.ColumnStats(sess.Parsed)))
		h.render(RowErrors(core.PreviewErrors(sess.Parsed.RowErrors, core.ErrorSampleLimit, core.ErrorExcerptWidth)))

		if sess.Processed() {
			h.render(ProcessResult(sess.Changed))
			h.render(Preview(core.PreviewTable(sess.Normalized, core.PreviewRowLimit, core.PreviewCellWidth)))
		}
		h.render(Actions(sess.Processed()))
	}))
}
