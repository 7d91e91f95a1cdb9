// internal/form/renderer.go
//
// Forms subsystem: HTML renderer.
//
// Context
//   Given a parsed FormDef this file converts the definition into safe,
//   accessible markup that posts to /forms/{id}.  It applies HTML5
//   validation attributes, injects the hidden domain, CSRF token, and
//   render-timestamp inputs, and honours pre-fill values and field errors
//   when a submission is re-rendered.
//
// Workflow
//   •  Render looks up the FormDef by ID and writes each field via
//      writeField.
//   •  Copy (title, description, button) comes from Options when set, else
//      from the YAML defaults.  “{domain}” in the description becomes the
//      domain name.
//   •  The caller receives template.HTML so the surrounding template does
//      not double-escape the markup.
//
// Style
//   Each input gets id="fld-{form}-{name}" and is wrapped in
//   <div class="form-field">.  Colours come from the page's theme.Style.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/yanizio/tierzero/internal/theme"
)

// Options bundles per-render parameters.
type Options struct {
	Domain      string      // Required.  Written to the hidden domain input.
	Style       theme.Style // Light/dark/terminal treatment.
	Title       string      // Overrides FormDef.Title when set.
	Description string      // Overrides FormDef.Description when set.
	Button      string      // Overrides FormDef.Button when set.
	Prefill     map[string]string
	Errors      []ErrorField
}

// Render returns the HTML markup for formID.
func Render(formID string, opts Options) (template.HTML, error) {
	fd, ok := Get(formID)
	if !ok {
		return "", fmt.Errorf("form render: unknown form %q", formID)
	}

	errs := make(map[string]string, len(opts.Errors))
	var formErr string
	for _, e := range opts.Errors {
		if e.Name == "" {
			formErr = e.Message
			continue
		}
		errs[e.Name] = e.Message
	}

	s := opts.Style
	title := firstNonEmpty(opts.Title, fd.Title)
	desc := strings.ReplaceAll(firstNonEmpty(opts.Description, fd.Description), "{domain}", opts.Domain)
	button := firstNonEmpty(opts.Button, fd.Button, "Submit")

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<form id="form-%s" class="tz-form space-y-3" method="post" action="/forms/%s">`+"\n",
		html.EscapeString(fd.ID), html.EscapeString(fd.ID))
	if title != "" {
		fmt.Fprintf(&buf, `<h3 class="text-lg font-bold mb-2 %s">%s</h3>`+"\n", s.Heading(), html.EscapeString(title))
	}
	if desc != "" {
		fmt.Fprintf(&buf, `<p class="text-sm mb-4 %s">%s</p>`+"\n", s.Body(), html.EscapeString(desc))
	}
	if formErr != "" {
		fmt.Fprintf(&buf, `<p class="error text-sm text-red-500" role="alert">%s</p>`+"\n", html.EscapeString(formErr))
	}

	for i := range fd.Fields {
		f := &fd.Fields[i]
		writeField(&buf, fd.ID, f, s, opts.Prefill[f.Name], errs[f.Name])
	}

	// Hidden meta inputs.
	fmt.Fprintf(&buf, `<input type="hidden" name="domain" value="%s">`+"\n", html.EscapeString(opts.Domain))
	fmt.Fprintf(&buf, `<input type="hidden" name="csrf_token" value="%s">`+"\n", csrfGenerateToken(opts.Domain))
	fmt.Fprintf(&buf, `<input type="hidden" name="render_ts" value="%d">`+"\n", time.Now().UnixMicro())

	fmt.Fprintf(&buf, `<button type="submit" class="w-full py-2 px-4 rounded font-bold text-sm transition %s">%s</button>`+"\n",
		s.Palette.Primary, html.EscapeString(button))
	buf.WriteString(`</form>`)
	return template.HTML(buf.String()), nil
}

// writeField emits HTML for an individual field into buf.
func writeField(buf *bytes.Buffer, formID string, f *FieldDef, s theme.Style, val, errMsg string) {
	id := "fld-" + html.EscapeString(formID+"-"+f.Name)
	nameAttr := `name="` + html.EscapeString(f.Name) + `"`
	class := `class="w-full px-3 py-2 rounded text-sm ` + inputClass(s) + `"`

	buf.WriteString(`<div class="form-field">` + "\n")
	buf.WriteString(`<label class="sr-only" for="` + id + `">` + html.EscapeString(f.Label) + `</label>` + "\n")

	switch f.Type {
	case "textarea":
		buf.WriteString(`<textarea id="` + id + `" ` + nameAttr + ` rows="3" ` + class)
		writeConstraints(buf, f)
		buf.WriteString(`>` + html.EscapeString(val) + `</textarea>` + "\n")

	case "select":
		buf.WriteString(`<select id="` + id + `" ` + nameAttr + ` ` + class)
		if f.Required {
			buf.WriteString(` required`)
		}
		buf.WriteString(`>` + "\n")
		buf.WriteString(`<option value="">` + html.EscapeString(f.Label) + `</option>` + "\n")
		for _, opt := range f.Options {
			sel := ""
			if val == opt.Value {
				sel = ` selected`
			}
			buf.WriteString(`<option value="` + html.EscapeString(opt.Value) + `"` + sel + `>` +
				html.EscapeString(opt.Label) + `</option>` + "\n")
		}
		buf.WriteString(`</select>` + "\n")

	default: // text, email, tel, number
		typ, extra := f.Type, ""
		if typ == "number" {
			typ, extra = "text", ` inputmode="decimal"` // keeps "5,000" and "$5000" server-validated
		}
		buf.WriteString(`<input id="` + id + `" ` + nameAttr + ` type="` + typ + `"` + extra + ` ` + class)
		writeConstraints(buf, f)
		if f.Pattern != "" {
			buf.WriteString(` pattern="` + html.EscapeString(f.Pattern) + `"`)
		}
		if val != "" {
			buf.WriteString(` value="` + html.EscapeString(val) + `"`)
		}
		buf.WriteString(`>` + "\n")
	}

	// Error span is always present so the layout does not shift on re-render.
	buf.WriteString(`<span class="error text-xs text-red-500" aria-live="polite">` + html.EscapeString(errMsg) + `</span>` + "\n")
	buf.WriteString(`</div>` + "\n")
}

func writeConstraints(buf *bytes.Buffer, f *FieldDef) {
	if f.Placeholder != "" {
		buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
	}
	if f.Required {
		buf.WriteString(` required`)
	}
	if f.MinLength > 0 {
		buf.WriteString(` minlength="` + strconv.Itoa(f.MinLength) + `"`)
	}
	if f.MaxLength > 0 {
		buf.WriteString(` maxlength="` + strconv.Itoa(f.MaxLength) + `"`)
	}
}

func inputClass(s theme.Style) string {
	if s.Terminal {
		return "bg-black border border-green-700 text-green-400 placeholder-green-800 font-mono"
	}
	return s.Pick(
		"bg-white border border-gray-300 text-gray-900 placeholder-gray-400",
		"bg-gray-900 border border-gray-700 text-white placeholder-gray-500",
	)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// csrfGenerateToken never fails the render; a bad token only fails the
// later submission.
func csrfGenerateToken(domain string) string {
	token, err := GenerateToken(domain)
	if err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return token
}
