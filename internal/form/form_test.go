package form

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/tierzero/internal/lead"
	"github.com/yanizio/tierzero/internal/site"
)

type memSaver struct {
	saved []*lead.Lead
	err   error
}

func (m *memSaver) Create(_ context.Context, l *lead.Lead) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	l.ID = "lead-" + strconv.Itoa(len(m.saved)+1)
	m.saved = append(m.saved, l)
	return l.ID, nil
}

func posted(t *testing.T, domain string, age time.Duration, kv ...string) url.Values {
	t.Helper()
	tok, err := GenerateToken(domain)
	require.NoError(t, err)
	v := url.Values{
		"domain":     {domain},
		"csrf_token": {tok},
		"render_ts":  {strconv.FormatInt(time.Now().Add(-age).UnixMicro(), 10)},
	}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return v
}

func TestBuiltinsRegistered(t *testing.T) {
	assert.Equal(t, []string{BusinessInquiryID, DomainInquiryID, EmailCaptureID}, IDs())

	fd, ok := Get(BusinessInquiryID)
	require.True(t, ok)
	assert.Equal(t, lead.TypeBusiness, fd.LeadType)

	var bt *FieldDef
	for i := range fd.Fields {
		if fd.Fields[i].Name == "businessType" {
			bt = &fd.Fields[i]
		}
	}
	require.NotNil(t, bt)
	assert.Equal(t, Option{Value: "venue", Label: "Venue/Bar/Pub"}, bt.Options[0])
}

func TestParseRejectsBadDefinitions(t *testing.T) {
	cases := map[string]string{
		"no id":         "lead_type: consumer\nfields: [{name: e, label: E, type: email, lead: email}]",
		"bad lead type": "id: x\nlead_type: partner\nfields: [{name: e, label: E, type: email, lead: email}]",
		"no email":      "id: x\nlead_type: consumer\nfields: [{name: n, label: N, type: text}]",
		"bad column":    "id: x\nlead_type: consumer\nfields: [{name: e, label: E, type: email, lead: inbox}]",
		"reserved":      "id: x\nlead_type: consumer\nfields: [{name: e, label: E, type: email, lead: email}, {name: domain, label: D, type: text}]",
		"bad regex":     "id: x\nlead_type: consumer\nfields: [{name: e, label: E, type: email, lead: email, pattern: '('}]",
		"empty select":  "id: x\nlead_type: consumer\nfields: [{name: e, label: E, type: email, lead: email}, {name: s, label: S, type: select}]",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc), name)
		assert.Error(t, err, name)
	}

	fd, err := Parse([]byte("id: x\nlead_type: consumer\nfields: [{name: e, label: E, type: email, lead: email}, {name: s, label: S, type: select, options: [a, b]}]"), "ok")
	require.NoError(t, err)
	assert.Equal(t, Option{Value: "a", Label: "a"}, fd.Fields[1].Options[0])
}

func TestRenderCarriesHiddenInputs(t *testing.T) {
	out, err := Render(DomainInquiryID, Options{Domain: "brewhaus.com.au"})
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, `action="/forms/domain-inquiry"`)
	assert.Contains(t, html, `name="domain" value="brewhaus.com.au"`)
	assert.Contains(t, html, `name="csrf_token"`)
	assert.Contains(t, html, `name="render_ts"`)
	assert.Contains(t, html, "Interested in purchasing brewhaus.com.au?")
	assert.Contains(t, html, `<div class="form-field">`)
	assert.Contains(t, html, `id="fld-domain-inquiry-email"`)

	_, err = Render("nope", Options{})
	assert.Error(t, err)
}

func TestRenderEscapesAndShowsErrors(t *testing.T) {
	out, err := Render(EmailCaptureID, Options{
		Domain:  "x.com",
		Title:   "<b>Join</b>",
		Prefill: map[string]string{"firstName": `"Al"`},
		Errors:  []ErrorField{{Name: "email", Message: "Invalid input."}, {Message: "Form expired."}},
	})
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "&lt;b&gt;Join&lt;/b&gt;")
	assert.Contains(t, html, `value="&#34;Al&#34;"`)
	assert.Contains(t, html, "Invalid input.")
	assert.Contains(t, html, `role="alert">Form expired.`)
}

func TestSetUsesConfigCopy(t *testing.T) {
	cfg := &site.Config{
		Domain:       site.Domain{Name: "x.com"},
		EmailCapture: site.EmailCapture{Headline: "Get the beta", ButtonText: "Count me in", SuccessMessage: "You're on the list"},
	}
	s := For(cfg)
	html := string(s.EmailCapture())
	assert.Contains(t, html, "Get the beta")
	assert.Contains(t, html, "Count me in")
	assert.NotContains(t, html, "Notify Me")
	assert.Contains(t, string(s.BusinessInquiry()), "Bottle Shop")

	fd, _ := Get(EmailCaptureID)
	assert.Equal(t, "You're on the list", SuccessMessage(fd, cfg))
	dd, _ := Get(DomainInquiryID)
	assert.Equal(t, dd.Success, SuccessMessage(dd, cfg))
}

func TestValidateFormLevelChecks(t *testing.T) {
	good := posted(t, "x.com", 10*time.Second, "firstName", "Al", "email", "al@example.com")

	_, errs := Validate(EmailCaptureID, "other.com", good)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "Security token")

	_, errs = Validate(EmailCaptureID, "x.com", posted(t, "x.com", 0, "firstName", "Al", "email", "al@example.com"))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "too quickly")

	_, errs = Validate(EmailCaptureID, "x.com", posted(t, "x.com", time.Hour, "firstName", "Al", "email", "al@example.com"))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "expired")

	clean, errs := Validate(EmailCaptureID, "x.com", good)
	assert.Empty(t, errs)
	assert.Equal(t, map[string]string{"firstName": "Al", "email": "al@example.com"}, clean)
}

func TestValidateFields(t *testing.T) {
	v := posted(t, "x.com", 5*time.Second,
		"businessName", "The Tap",
		"contactName", "",
		"email", "Owner@Tap.com",
		"phone", "abc",
		"businessType", "casino",
	)
	_, errs := Validate(BusinessInquiryID, "x.com", v)
	byName := map[string]string{}
	for _, e := range errs {
		byName[e.Name] = e.Message
	}
	assert.Equal(t, "This field is required.", byName["contactName"])
	assert.Equal(t, "Please enter a valid phone number.", byName["phone"])
	assert.Equal(t, "Invalid input.", byName["businessType"])
	assert.NotContains(t, byName, "email")

	v = posted(t, "x.com", 5*time.Second, "name", "Al", "email", "al@example.com", "offer", "$5,000")
	clean, errs := Validate(DomainInquiryID, "x.com", v)
	require.Empty(t, errs)
	assert.Equal(t, "5000", clean["offer"])
}

func TestToLeadMapsColumnsAndMetadata(t *testing.T) {
	fd, _ := Get(BusinessInquiryID)
	l := ToLead(fd, map[string]string{
		"businessName": "The Tap", "contactName": "Sam", "email": "sam@tap.com",
		"businessType": "venue", "message": "hi",
	}, "brewhaus.com.au")

	assert.Equal(t, lead.TypeBusiness, l.Type)
	assert.Equal(t, "The Tap", l.Company)
	assert.Equal(t, "Sam", l.FirstName)
	assert.Equal(t, "hi", l.Message)

	var meta map[string]any
	require.NoError(t, json.Unmarshal(l.Metadata, &meta))
	assert.Equal(t, "venue", meta["businessType"])
	assert.Equal(t, BusinessInquiryID, meta["form"])
}

func newPost(v url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/forms/domain-inquiry", strings.NewReader(v.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestHandleSubmit(t *testing.T) {
	saver := &memSaver{}
	v := posted(t, "Brewhaus.com.au", 5*time.Second, "name", "Al", "email", "al@example.com", "offer", "2500")
	v.Set("domain", "Brewhaus.com.au")

	res, err := HandleSubmit(DomainInquiryID, newPost(v), saver)
	require.NoError(t, err)
	require.Len(t, saver.saved, 1)
	assert.Equal(t, "brewhaus.com.au", res.Lead.Domain)
	assert.Equal(t, lead.TypeDomain, res.Lead.Type)
	assert.Equal(t, "lead-1", res.Lead.ID)
}

func TestHandleSubmitErrors(t *testing.T) {
	_, err := HandleSubmit("nope", newPost(url.Values{}), &memSaver{})
	assert.ErrorIs(t, err, ErrUnknownForm)

	v := posted(t, "x.com", 5*time.Second, "name", "Al", "email", "bad", "offer", "1")
	_, err = HandleSubmit(DomainInquiryID, newPost(v), &memSaver{})
	require.True(t, IsValidationError(err))
	var ve ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "bad", ve.Values["email"])

	boom := errors.New("db down")
	v = posted(t, "x.com", 5*time.Second, "name", "Al", "email", "al@example.com", "offer", "1")
	_, err = HandleSubmit(DomainInquiryID, newPost(v), &memSaver{err: boom})
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsValidationError(err))
}

func TestCSRFTokenBoundToDomain(t *testing.T) {
	tok, err := GenerateToken("a.com")
	require.NoError(t, err)
	assert.True(t, VerifyToken(tok, "A.com"))
	assert.False(t, VerifyToken(tok, "b.com"))
	assert.False(t, VerifyToken(tok[:len(tok)-2], "a.com"))
	assert.False(t, SetSecret("short"))
}
