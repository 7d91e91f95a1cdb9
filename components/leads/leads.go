// components/leads/leads.go
//
// Leads component: JSON submission API and the admin lead table.
//
// Context
// -------
// `POST /api/submissions` is the programmatic twin of the form posts: any
// page (or an external landing page) may send `{type, domain, data}` and
// the lead is stored with the same tracking fields a form post gets.
//
// Reading leads is an operator task.  `GET /api/submissions` and the
// `/admin` pages sit behind HTTP basic auth using admin.username and
// admin.password; with no credentials configured they are not mounted.
//
// Errors are always `{"error": "..."}` with a fixed message.  Store errors
// are logged, never echoed.
package leads

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/tierzero/internal/component"
	"github.com/yanizio/tierzero/internal/config"
	"github.com/yanizio/tierzero/internal/head"
	"github.com/yanizio/tierzero/internal/lead"
	"github.com/yanizio/tierzero/internal/logger"
	"github.com/yanizio/tierzero/internal/metrics"
)

// maxBody caps a JSON submission.
const maxBody = 64 << 10

// adminLimit caps the admin table.
const adminLimit = 500

var _ component.Component = (*Component)(nil)

type Component struct {
	leads component.Leads
	views component.Views
	admin config.Admin
}

func (c *Component) Name() string { return "leads" }

func (c *Component) Init(d component.Deps) error {
	c.leads, c.views, c.admin = d.Leads, d.Views, d.Admin
	if !c.adminEnabled() {
		zap.L().Warn("admin credentials not set; lead listing and /admin are disabled")
	}
	return nil
}

func (c *Component) Routes(r chi.Router) {
	r.Post("/api/submissions", c.handleCreate)

	if !c.adminEnabled() {
		return
	}
	r.Group(func(r chi.Router) {
		r.Use(chimw.BasicAuth("tierzero admin", map[string]string{c.admin.Username: c.admin.Password}))
		r.Get("/api/submissions", c.handleList)
		r.Get("/admin/leads", c.handleAdminList)
		r.Post("/admin/leads/{id}/status", c.handleAdminStatus)
	})
}

func init() { component.Register(&Component{}) }

func (c *Component) adminEnabled() bool {
	return c.admin.Username != "" && c.admin.Password != ""
}

/*──────────────────────────── JSON API ─────────────────────────────────────*/

// submission is the POST body.
type submission struct {
	Type   string `json:"type"`
	Domain string `json:"domain"`
	Data   struct {
		Email     string          `json:"email"`
		FirstName string          `json:"firstName"`
		LastName  string          `json:"lastName"`
		Phone     string          `json:"phone"`
		Company   string          `json:"company"`
		Message   string          `json:"message"`
		Metadata  json.RawMessage `json:"metadata"`
	} `json:"data"`
}

func (c *Component) handleCreate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var in submission
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if in.Type == "" || in.Domain == "" || in.Data.Email == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	l := &lead.Lead{
		Type:      lead.Type(in.Type),
		Domain:    in.Domain,
		Email:     strings.TrimSpace(in.Data.Email),
		FirstName: in.Data.FirstName,
		LastName:  in.Data.LastName,
		Phone:     in.Data.Phone,
		Company:   in.Data.Company,
		Message:   in.Data.Message,
	}
	if m := in.Data.Metadata; len(m) > 0 && m[0] == '{' {
		l.Metadata = []byte(m)
	}
	lead.Track(r, l)

	id, err := c.leads.Create(r.Context(), l)
	switch {
	case errors.Is(err, lead.ErrInvalid):
		log.Info("submission rejected", zap.String("domain", in.Domain), zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid submission")
		return
	case err != nil:
		log.Error("submission store failed", zap.String("domain", in.Domain), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to save submission")
		return
	}

	metrics.LeadsTotal.WithLabelValues(string(l.Type), "api").Inc()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
}

func (c *Component) handleList(w http.ResponseWriter, r *http.Request) {
	f := filterFrom(r)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Limit = n
		}
	}

	list, err := c.leads.List(r.Context(), f)
	if err != nil {
		logger.FromContext(r.Context()).Error("list leads", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to read submissions")
		return
	}
	if list == nil {
		list = []lead.Lead{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(list), "leads": list})
}

func filterFrom(r *http.Request) lead.Filter {
	q := r.URL.Query()
	return lead.Filter{
		Domain: strings.ToLower(strings.TrimSpace(q.Get("domain"))),
		Type:   lead.Type(q.Get("type")),
		Status: lead.Status(q.Get("status")),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

/*──────────────────────────── Admin ────────────────────────────────────────*/

// Admin is the data for the admin lead table.
type Admin struct {
	Head       *head.Builder
	BrandStyle template.CSS
	Leads      []lead.Lead
	Filter     lead.Filter
	Types      []lead.Type
	Statuses   []lead.Status
	Counts     []Count
}

// Count is one summary tile.
type Count struct {
	Label string
	N     int
}

func (c *Component) handleAdminList(w http.ResponseWriter, r *http.Request) {
	f := filterFrom(r)
	f.Limit = adminLimit

	list, err := c.leads.List(r.Context(), f)
	if err != nil {
		logger.FromContext(r.Context()).Error("admin list leads", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	types := []lead.Type{lead.TypeConsumer, lead.TypeDomain, lead.TypeBusiness}
	counts := make([]Count, len(types))
	for i, t := range types {
		counts[i].Label = strings.ToUpper(string(t[:1])) + string(t[1:]) + " leads"
		for _, l := range list {
			if l.Type == t {
				counts[i].N++
			}
		}
	}

	h := head.New()
	h.SetTitle("Leads")
	h.Meta(`<meta name="robots" content="noindex">`)

	var buf strings.Builder
	err = c.views.Render(&buf, "", "admin-leads", Admin{
		Head: h, Leads: list, Filter: f,
		Types: types, Statuses: lead.Statuses(), Counts: counts,
	})
	if err != nil {
		logger.FromContext(r.Context()).Error("render admin leads", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(buf.String()))
}

func (c *Component) handleAdminStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	st := lead.Status(r.PostForm.Get("status"))
	if !st.Valid() {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}

	user, _, _ := r.BasicAuth()
	err := c.leads.UpdateStatus(r.Context(), id, st, strings.TrimSpace(r.PostForm.Get("notes")), user)
	switch {
	case errors.Is(err, lead.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		logger.FromContext(r.Context()).Error("update lead status", zap.String("lead", id), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.FromContext(r.Context()).Info("lead status updated",
		zap.String("lead", id), zap.String("status", string(st)), zap.String("by", user))
	http.Redirect(w, r, "/admin/leads", http.StatusSeeOther)
}
