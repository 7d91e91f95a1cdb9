// internal/form/submit.go
//
// Forms subsystem: consolidated Submit helper.
//
// Context
//   Handlers want one call that parses the POST body, validates input,
//   builds the lead, tracks the request, and runs the configured actions.
//   HandleSubmit provides that so the HTTP component stays terse.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"net/http"
	"strings"

	"github.com/yanizio/tierzero/internal/lead"
)

// maxBody caps a form post.  The largest form has two 2000-character
// textareas.
const maxBody = 64 << 10

// ErrUnknownForm is returned for a form id with no definition.
var ErrUnknownForm = errors.New("form: unknown form")

// ValidationError carries field errors back to the renderer.
type ValidationError struct {
	Fields []ErrorField
	Values map[string]string // what the visitor typed, for prefill
}

func (ValidationError) Error() string { return "form validation failed" }

// IsValidationError reports whether err came from failed validation.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// Result is a successful submission.
type Result struct {
	Form *FormDef
	Lead *lead.Lead
}

// HandleSubmit parses r, validates against formID for the domain posted in
// the hidden field, and executes the form's actions.  On validation failure
// it returns a ValidationError.  A store failure is returned unwrapped.
func HandleSubmit(formID string, r *http.Request, saver Saver) (*Result, error) {
	fd, ok := Get(formID)
	if !ok {
		return nil, ErrUnknownForm
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxBody)
	if err := r.ParseForm(); err != nil {
		return nil, ValidationError{Fields: []ErrorField{{Message: "Could not read the form.  Please try again."}}}
	}

	domain := strings.ToLower(strings.TrimSpace(r.PostForm.Get("domain")))
	clean, errs := Validate(formID, domain, r.PostForm)
	if len(errs) > 0 {
		return nil, ValidationError{Fields: errs, Values: prefill(fd, r.PostForm.Get)}
	}

	l := ToLead(fd, clean, domain)
	lead.Track(r, l)
	if err := ExecuteActions(fd, l, ActionCtx{Ctx: r.Context(), Saver: saver}); err != nil {
		return nil, err
	}
	return &Result{Form: fd, Lead: l}, nil
}

func prefill(fd *FormDef, get func(string) string) map[string]string {
	out := make(map[string]string, len(fd.Fields))
	for _, f := range fd.Fields {
		if v := get(f.Name); v != "" {
			out[f.Name] = v
		}
	}
	return out
}
