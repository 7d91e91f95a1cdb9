// internal/form/validate.go
//
// Forms subsystem: server-side validation and sanitization.
//
// Context
//   The renderer outputs HTML containing a CSRF token and timestamp.  When
//   the browser posts, this file verifies the submission: CSRF, timing,
//   required fields, type constraints, regex patterns, option values, and
//   length limits.  It returns a trimmed map that the lead mapper can trust.
//
// Workflow
//   •  Validate retrieves the FormDef and checks CSRF + render timestamp
//      before per-field validation.
//   •  Errors are captured in []ErrorField so the re-rendered form can mark
//      the exact field.
//   •  Values are stored as typed by the visitor; escaping is the output
//      template's job.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Submission timing window.
const (
	minFillTime = 2 * time.Second
	maxFillTime = 30 * time.Minute
)

// now is swapped in tests.
var now = time.Now

// ErrorField describes a single validation failure.  An empty Name marks a
// form-level problem (token, timing).
type ErrorField struct {
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// Validate checks posted data for formID against domain.  A non-empty error
// slice means the form must be re-rendered.
func Validate(formID, domain string, posted url.Values) (map[string]string, []ErrorField) {
	fd, ok := Get(formID)
	if !ok {
		return nil, []ErrorField{{Message: "Unknown form."}}
	}

	if tok := posted.Get("csrf_token"); tok == "" || !VerifyToken(tok, domain) {
		return nil, []ErrorField{{Message: "Security token invalid.  Please refresh and try again."}}
	}
	if msg := checkTiming(posted.Get("render_ts")); msg != "" {
		return nil, []ErrorField{{Message: msg}}
	}

	var errs []ErrorField
	clean := make(map[string]string, len(fd.Fields))
	for i := range fd.Fields {
		f := &fd.Fields[i]
		raw := strings.TrimSpace(posted.Get(f.Name))

		if raw == "" {
			if f.Required {
				errs = append(errs, ErrorField{f.Name, requiredMsg(f)})
			}
			continue
		}

		val, msg := validateAndSanitize(f, raw)
		if msg != "" {
			errs = append(errs, ErrorField{f.Name, msg})
			continue
		}
		clean[f.Name] = val
	}
	return clean, errs
}

// checkTiming ensures the form was not submitted suspiciously fast or too
// late.  Returns empty string on success, user-visible message on failure.
func checkTiming(tsRaw string) string {
	if tsRaw == "" {
		return "Timestamp missing.  Please reload the page."
	}
	ts, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return "Bad timestamp.  Please retry."
	}
	delta := now().Sub(time.UnixMicro(ts))
	switch {
	case delta < minFillTime:
		return "Form submitted too quickly.  Please enter the fields manually."
	case delta > maxFillTime:
		return "Form expired.  Please reload and submit again."
	default:
		return ""
	}
}

func validateAndSanitize(f *FieldDef, val string) (string, string) {
	if msg := lengthCheck(f, val); msg != "" {
		return "", msg
	}
	if f.Pattern != "" && !regexp.MustCompile(f.Pattern).MatchString(val) { // pattern pre-validated at load
		return "", patternMsg(f)
	}

	switch f.Type {
	case "text", "textarea", "tel":
		return val, ""

	case "email":
		addr, err := mail.ParseAddress(val)
		if err != nil || addr.Address != val {
			return "", invalidMsg(f)
		}
		return strings.ToLower(val), ""

	case "number":
		n := strings.NewReplacer("$", "", ",", "", " ", "").Replace(val)
		v, err := strconv.ParseFloat(n, 64)
		if err != nil || v < 0 {
			return "", invalidMsg(f)
		}
		return strconv.FormatFloat(v, 'f', -1, 64), ""

	case "select":
		for _, o := range f.Options {
			if o.Value == val {
				return val, ""
			}
		}
		return "", invalidMsg(f)

	default:
		return "", fmt.Sprintf("Unsupported field type %q.", f.Type)
	}
}

// lengthCheck validates minlength / maxlength rules in characters.
func lengthCheck(f *FieldDef, s string) string {
	n := utf8.RuneCountInString(s)
	if f.MinLength > 0 && n < f.MinLength {
		return fmt.Sprintf("Must be at least %d characters.", f.MinLength)
	}
	if f.MaxLength > 0 && n > f.MaxLength {
		return fmt.Sprintf("Must be at most %d characters.", f.MaxLength)
	}
	return ""
}

// user-friendly default messages
func requiredMsg(f *FieldDef) string {
	return "This field is required."
}
func invalidMsg(f *FieldDef) string {
	if f.ErrorMsg != "" {
		return f.ErrorMsg
	}
	return "Invalid input."
}
func patternMsg(f *FieldDef) string {
	if f.ErrorMsg != "" {
		return f.ErrorMsg
	}
	return "Input does not match required format."
}
