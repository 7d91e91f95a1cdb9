// components/forms/forms.go
//
// Forms component: receives posts from the universal forms.
//
// Context
// -------
// Every rendered form posts to /forms/{id}.  The page script submits with
// fetch and swaps the response into the page, so the default reply is an
// HTML fragment: either the success message or the same form re-rendered
// with field errors.  A post made without JavaScript (no X-TZ-Fragment
// header) gets the fragment wrapped in a minimal page instead.
//
// Status codes
// ------------
//   - 200  stored
//   - 404  unknown form id
//   - 422  validation failed (form re-rendered)
//   - 500  store failed (form re-rendered with a form-level error)
package forms

import (
	"bytes"
	"errors"
	"html"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/tierzero/internal/component"
	"github.com/yanizio/tierzero/internal/form"
	"github.com/yanizio/tierzero/internal/head"
	"github.com/yanizio/tierzero/internal/logger"
	"github.com/yanizio/tierzero/internal/metrics"
	"github.com/yanizio/tierzero/internal/site"
)

// FragmentHeader marks a request made by the page script.
const FragmentHeader = "X-TZ-Fragment"

var _ component.Component = (*Component)(nil)

type Component struct {
	sites component.Sites
	leads component.Leads
	views component.Views
}

// Result is the data for the no-JavaScript result page.
type Result struct {
	Head       *head.Builder
	BrandStyle template.CSS
	Body       template.HTML
	Back       string
}

func (c *Component) Name() string { return "forms" }

func (c *Component) Init(d component.Deps) error {
	c.sites, c.leads, c.views = d.Sites, d.Leads, d.Views
	return nil
}

func (c *Component) Routes(r chi.Router) {
	r.Post("/forms/{id}", c.handleSubmit)
}

func init() { component.Register(&Component{}) }

func (c *Component) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log := logger.FromContext(r.Context())

	res, err := form.HandleSubmit(id, r, c.leads)
	if errors.Is(err, form.ErrUnknownForm) {
		http.NotFound(w, r)
		return
	}

	// HandleSubmit has parsed the body by now; the hidden field names the
	// domain whether or not the post was valid.
	domain := r.PostForm.Get("domain")
	cfg := c.config(domain)
	set := form.For(cfg)

	var ve form.ValidationError
	switch {
	case errors.As(err, &ve):
		log.Info("form rejected", zap.String("form", id), zap.Int("errors", len(ve.Fields)))
		c.reply(w, r, http.StatusUnprocessableEntity, set.Render(id, ve.Values, ve.Fields))
	case err != nil:
		log.Error("form submission failed", zap.String("form", id), zap.Error(err))
		c.reply(w, r, http.StatusInternalServerError, set.Render(id, nil, []form.ErrorField{{
			Message: "Sorry, we could not save your details.  Please try again.",
		}}))
	default:
		metrics.LeadsTotal.WithLabelValues(string(res.Lead.Type), "form").Inc()
		msg := form.SuccessMessage(res.Form, cfg)
		c.reply(w, r, http.StatusOK, template.HTML(
			`<div class="tz-form-success text-center py-4" role="status"><p class="font-semibold">`+
				html.EscapeString(msg)+`</p></div>`))
	}
}

// config returns the domain's config, or a bare stand-in so a post for an
// unknown or disabled domain still re-renders sensibly.
func (c *Component) config(domain string) *site.Config {
	if domain != "" {
		if cfg, err := c.sites.Get(domain); err == nil {
			return cfg
		}
	}
	return &site.Config{Domain: site.Domain{Name: domain}}
}

func (c *Component) reply(w http.ResponseWriter, r *http.Request, status int, body template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if r.Header.Get(FragmentHeader) != "" {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
		return
	}

	h := head.New()
	h.SetTitle("Thank you")
	if status != http.StatusOK {
		h.SetTitle("Please check the form")
	}
	h.Meta(`<meta name="robots" content="noindex">`)

	back := r.Header.Get("Referer")
	var buf bytes.Buffer
	if err := c.views.Render(&buf, "", "form-result", Result{Head: h, Body: body, Back: back}); err != nil {
		logger.FromContext(r.Context()).Error("render form result", zap.Error(err))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
		return
	}
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
