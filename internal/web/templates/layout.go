package templates

import "github.com/a-h/templ"

const styles = `
body { font-family: system-ui, sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; color: #1f2937; }
h1 { font-size: 1.5rem; }
h2 { font-size: 1.1rem; margin-top: 1.5rem; }
form.inline { display: inline-block; margin-right: .5rem; }
button, .button { padding: .45rem 1rem; border: 1px solid #2563eb; background: #2563eb; color: #fff; border-radius: 4px; cursor: pointer; text-decoration: none; font-size: .9rem; }
button.secondary { background: #fff; color: #2563eb; }
.card { border: 1px solid #e5e7eb; border-radius: 6px; padding: 1rem; margin: 1rem 0; }
.alert { border-left: 4px solid #dc2626; background: #fef2f2; padding: .75rem 1rem; margin: 1rem 0; }
.success { border-left: 4px solid #16a34a; background: #f0fdf4; padding: .75rem 1rem; margin: 1rem 0; }
.row-error { border-bottom: 1px solid #fee2e2; padding: .4rem 0; }
.row-error small { color: #6b7280; font-family: ui-monospace, monospace; }
.code { color: #6b7280; font-size: .8rem; }
table { border-collapse: collapse; width: 100%; font-size: .85rem; }
th, td { border: 1px solid #e5e7eb; padding: .3rem .5rem; text-align: left; white-space: nowrap; }
th { background: #f9fafb; }
`

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><style>`)
		h.raw(styles)
		h.raw(`</style></head><body><h1>CSV Cleaner</h1>`)
		h.render(body)
		h.raw(`</body></html>`)
	})
}
