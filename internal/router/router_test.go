package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lexflow/lexflow-web/internal/auth"
	"github.com/lexflow/lexflow-web/internal/backend"
	"github.com/lexflow/lexflow-web/internal/handler"
	"github.com/lexflow/lexflow-web/internal/repository"
	"github.com/lexflow/lexflow-web/internal/service"
	"github.com/lexflow/lexflow-web/internal/view"
)

const (
	formID   = "6f1c1a52-5d8e-4c11-9a44-0a2b7e9d3c10"
	subID    = "3f2c9a7e-1b4d-4e8a-9c0f-5d6e7f8a9b0c"
	clientID = "9b8a7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
	csrf     = "test-csrf-nonce"
)

type reply struct {
	status int
	body   string
}

type call struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

type stubHealth bool

func (s stubHealth) Healthy() bool { return bool(s) }

type env struct {
	t        *testing.T
	h        http.Handler
	sessions *auth.Sessions

	mu     sync.Mutex
	routes map[string]reply
	calls  []call
}

func newEnv(t *testing.T, healthy bool) *env {
	t.Helper()
	e := &env{t: t, routes: map[string]reply{
		"GET /api/v1/users/me": {200, `{"id":"u1","email":"ann@smith.law","full_name":"Ann Smith"}`},
	}}
	srv := httptest.NewServer(http.HandlerFunc(e.serveAPI))
	t.Cleanup(srv.Close)

	api := backend.New(srv.URL, time.Second)
	sessions, err := auth.NewSessions("router-test-secret-0123", time.Hour, false)
	require.NoError(t, err)
	views, err := view.New()
	require.NoError(t, err)
	logger := zap.NewNop()

	users := repository.NewUserRepo(api)
	forms := repository.NewFormRepo(api)
	subs := repository.NewSubmissionRepo(api)
	clients := repository.NewClientRepo(api)
	intake := service.NewIntakeService(forms, subs)

	rs := handler.NewResponder(views, logger)
	e.h = New(logger, sessions, false,
		handler.NewPageHandler(rs, stubHealth(healthy)),
		handler.NewAuthHandler(rs, service.NewAuthService(users, sessions), sessions),
		handler.NewIntakeHandler(rs, intake),
		handler.NewSignatureHandler(rs, intake, service.NewSignatureService(repository.NewSignatureRepo(api)), service.NewPaymentVerifier("")),
		handler.NewDashboardHandler(rs, service.NewDashboardService(forms, subs, clients), service.NewSettingsService(repository.NewFirmRepo(api))),
		handler.NewFormHandler(rs, service.NewFormService(forms, subs), "https://intake.smith.law"),
		handler.NewClientHandler(rs, service.NewClientService(clients, subs)),
		handler.NewSubmissionHandler(rs, service.NewSubmissionService(subs, forms, clients, logger), service.NewExportService(subs, forms, clients)),
	)
	e.sessions = sessions
	return e
}

func (e *env) on(route string, status int, body string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.routes[route] = reply{status, body}
}

func (e *env) serveAPI(w http.ResponseWriter, r *http.Request) {
	c := call{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
	if b, _ := io.ReadAll(r.Body); len(b) > 0 {
		assert.NoError(e.t, json.Unmarshal(b, &c.body))
	}
	e.mu.Lock()
	e.calls = append(e.calls, c)
	rep, ok := e.routes[r.Method+" "+r.URL.Path]
	e.mu.Unlock()
	if !ok {
		rep = reply{http.StatusNotFound, `{"detail":"Not Found"}`}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rep.status)
	w.Write([]byte(rep.body))
}

// sent returns the backend calls matching method and path.
func (e *env) sent(method, path string) []call {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []call
	for _, c := range e.calls {
		if c.method == method && c.path == path {
			out = append(out, c)
		}
	}
	return out
}

func (e *env) session() *http.Cookie {
	tok, exp, err := e.sessions.Issue("u1", "ann@smith.law", "Ann Smith", "backend-token")
	require.NoError(e.t, err)
	return &http.Cookie{Name: auth.CookieName, Value: tok, Expires: exp}
}

func (e *env) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

func (e *env) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (e *env) post(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set(auth.CSRFField, csrf)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: auth.CSRFCookie, Value: csrf})
	return e.do(req, cookies...)
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealthz(t *testing.T) {
	rec := newEnv(t, true).get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","backend":"up"}`, rec.Body.String())

	rec = newEnv(t, false).get("/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","backend":"down"}`, rec.Body.String())
}

func TestPublicPages(t *testing.T) {
	e := newEnv(t, true)
	for _, path := range []string{"/", "/how-it-works", "/login", "/register", "/payment/cancelled"} {
		rec := e.get(path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"), path)
	}

	rec := e.get("/no-such-page")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page Not Found")
}

func TestCSRFCookieIssued(t *testing.T) {
	rec := newEnv(t, true).get("/login")
	c := cookieNamed(rec, auth.CSRFCookie)
	require.NotNil(t, c)
	assert.Contains(t, rec.Body.String(), `value="`+c.Value+`"`)
}

func TestPostWithoutCSRFRejected(t *testing.T) {
	e := newEnv(t, true)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=a&password=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := e.do(req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, e.sent(http.MethodPost, "/api/v1/auth/login/json"))
}

func TestLogin(t *testing.T) {
	e := newEnv(t, true)
	e.on("POST /api/v1/auth/login/json", 200, `{"access_token":"backend-token","token_type":"bearer"}`)

	rec := e.post("/login", url.Values{"email": {"ann@smith.law"}, "password": {"pw"}, "next": {"/dashboard/forms"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/forms", rec.Header().Get("Location"))
	sess := cookieNamed(rec, auth.CookieName)
	require.NotNil(t, sess)
	assert.True(t, sess.HttpOnly)

	me := e.sent(http.MethodGet, "/api/v1/users/me")
	require.Len(t, me, 1)
	assert.Equal(t, "Bearer backend-token", me[0].auth)
}

func TestLoginOffsiteNextIgnored(t *testing.T) {
	e := newEnv(t, true)
	e.on("POST /api/v1/auth/login/json", 200, `{"access_token":"backend-token"}`)
	rec := e.post("/login", url.Values{"email": {"ann@smith.law"}, "password": {"pw"}, "next": {"//evil.example"}})
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestLoginFailureShowsBanner(t *testing.T) {
	e := newEnv(t, true)
	e.on("POST /api/v1/auth/login/json", 401, `{"detail":"Incorrect email or password"}`)

	rec := e.post("/login", url.Values{"email": {"ann@smith.law"}, "password": {"bad"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Incorrect email or password")
	assert.Contains(t, rec.Body.String(), `value="ann@smith.law"`)
	assert.Nil(t, cookieNamed(rec, auth.CookieName))
}

func TestLogout(t *testing.T) {
	e := newEnv(t, true)
	rec := e.post("/logout", nil, e.session())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	c := cookieNamed(rec, auth.CookieName)
	require.NotNil(t, c)
	assert.Equal(t, -1, c.MaxAge)
}

func TestDashboardRequiresSession(t *testing.T) {
	e := newEnv(t, true)
	rec := e.get("/dashboard/forms")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fdashboard%2Fforms", rec.Header().Get("Location"))

	rec = e.get("/dashboard", &http.Cookie{Name: auth.CookieName, Value: "garbage"})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, e.sent(http.MethodGet, "/api/v1/users/me"))
}

func TestDashboardDropsSessionBackendRejects(t *testing.T) {
	e := newEnv(t, true)
	e.on("GET /api/v1/users/me", 401, `{"detail":"Could not validate credentials"}`)

	rec := e.get("/dashboard", e.session())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fdashboard", rec.Header().Get("Location"))
	c := cookieNamed(rec, auth.CookieName)
	require.NotNil(t, c)
	assert.Equal(t, -1, c.MaxAge)
}

func TestDashboardIndex(t *testing.T) {
	e := newEnv(t, true)
	e.on("GET /api/v1/intake/forms", 200, `[{"id":"f1"},{"id":"f2"}]`)
	e.on("GET /api/v1/intake/submissions", 200, `{"items":[],"total":14}`)
	e.on("GET /api/v1/clients/", 200, `{"items":[],"total":5}`)

	rec := e.get("/dashboard", e.session())
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Ann Smith")
	assert.Contains(t, body, ">14</p>")
	assert.Contains(t, body, ">5</p>")
}

func TestDashboardIndexBackendDown(t *testing.T) {
	e := newEnv(t, true)
	rec := e.get("/dashboard", e.session())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ">0</p>")
}

func TestInvalidIDNeverReachesBackend(t *testing.T) {
	e := newEnv(t, true)
	for _, path := range []string{"/dashboard/forms/not-a-uuid", "/dashboard/clients/42", "/dashboard/submissions/abc", "/signed-agreement/x"} {
		rec := e.get(path, e.session())
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
	rec := e.get("/intake/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.calls {
		assert.Equal(t, "/api/v1/users/me", c.path)
	}
}

const publicForm = `{"id":"` + formID + `","name":"Personal Injury Intake","is_active":true,
	"fields_schema":{"type":"object","properties":{
		"full_name":{"type":"string","title":"Full Name"},
		"email":{"type":"string","title":"Email","format":"email"},
		"details":{"type":"string","title":"What happened?","format":"textarea"}
	},"required":["full_name","email"]}}`

func TestIntakeFormPage(t *testing.T) {
	e := newEnv(t, true)
	e.on("GET /api/v1/intake/public/forms/"+formID, 200, publicForm)

	rec := e.get("/intake/" + formID)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 3, strings.Count(body, `id="f-`))
	assert.Equal(t, 2, strings.Count(body, " required>"))
	assert.Contains(t, body, "<textarea")
	assert.NotContains(t, body, "Logout")
}

func TestIntakeFormNotFound(t *testing.T) {
	e := newEnv(t, true)
	rec := e.get("/intake/" + formID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Form Not Found")
}

func TestIntakeSubmitOutcomes(t *testing.T) {
	cases := []struct {
		name     string
		result   string
		location string
		body     string
	}{
		{"signature", `{"id":"` + subID + `","next_step":"signature","signature_url":"http://localhost:3000/signature/sign?submission_id=` + subID + `"}`, "http://localhost:3000/signature/sign?submission_id=" + subID, ""},
		{"payment", `{"id":"` + subID + `","next_step":"payment","payment_url":"https://checkout.stripe.com/c/pay/cs_1"}`, "https://checkout.stripe.com/c/pay/cs_1", ""},
		{"success", `{"id":"` + subID + `"}`, "/intake/success?submission_id=" + subID, ""},
		{"local", `{}`, "", "Thank You!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t, true)
			e.on("GET /api/v1/intake/public/forms/"+formID, 200, publicForm)
			e.on("POST /api/v1/intake/public/forms/"+formID+"/submit", 200, tc.result)

			rec := e.post("/intake/"+formID, url.Values{"full_name": {"Ada Lovelace"}, "email": {"ada@example.com"}})
			if tc.location != "" {
				assert.Equal(t, http.StatusSeeOther, rec.Code)
				assert.Equal(t, tc.location, rec.Header().Get("Location"))
			} else {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Contains(t, rec.Body.String(), tc.body)
			}

			sent := e.sent(http.MethodPost, "/api/v1/intake/public/forms/"+formID+"/submit")
			require.Len(t, sent, 1)
			assert.Empty(t, sent[0].auth)
			assert.Equal(t, map[string]any{"full_name": "Ada Lovelace", "email": "ada@example.com"}, sent[0].body["form_data"])
		})
	}
}

func TestIntakeSubmitFailureKeepsValues(t *testing.T) {
	e := newEnv(t, true)
	e.on("GET /api/v1/intake/public/forms/"+formID, 200, publicForm)
	e.on("POST /api/v1/intake/public/forms/"+formID+"/submit", 400, `{"detail":"Client email is required"}`)

	rec := e.post("/intake/"+formID, url.Values{"full_name": {"Ada Lovelace"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Client email is required")
	assert.Contains(t, rec.Body.String(), `value="Ada Lovelace"`)
}

func TestIntakeSuccessChecklist(t *testing.T) {
	e := newEnv(t, true)
	e.on("GET /api/v1/intake/public/submissions/"+subID, 200, `{"id":"`+subID+`","status":"submitted","signature_status":"signed","payment_status":"pending","payment_amount":"500.00"}`)

	rec := e.get("/intake/success?submission_id=" + subID)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Document Signed")
	assert.Contains(t, body, "Retainer payment of $500.00")
	assert.Contains(t, body, "Under Review")
}

func TestSignatureFlow(t *testing.T) {
	e := newEnv(t, true)
	pending := `{"id":"` + subID + `","signature_status":"pending","payment_status":"pending","payment_amount":"500.00","form_data":{"first_name":"Ada","last_name":"Lovelace"}}`
	e.on("GET /api/v1/intake/public/submissions/"+subID, 200, pending)
	e.on("POST /api/v1/signatures/public/sign/"+subID, 200, `{"status":"success","next_step":"payment"}`)
	signURL := "/signature/sign?submission_id=" + subID

	rec := e.get(signURL)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Retainer Agreement")
	assert.Contains(t, rec.Body.String(), "five hundred")

	rec = e.post(signURL, url.Values{"signature_name": {"Ada Lovelace"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please agree to the terms")
	assert.Contains(t, rec.Body.String(), `value="Ada Lovelace"`)
	assert.Empty(t, e.sent(http.MethodPost, "/api/v1/signatures/public/sign/"+subID))

	rec = e.post(signURL, url.Values{"signature_name": {"Ada Lovelace"}, "agreed": {"1"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, signURL, rec.Header().Get("Location"))
	sent := e.sent(http.MethodPost, "/api/v1/signatures/public/sign/"+subID)
	require.Len(t, sent, 1)
	assert.Equal(t, "Ada Lovelace", sent[0].body["signature_name"])

	e.on("GET /api/v1/intake/public/submissions/"+subID, 200, strings.Replace(pending, `"signature_status":"pending"`, `"signature_status":"signed"`, 1))
	rec = e.get(signURL)
	assert.Contains(t, rec.Body.String(), `action="/signature/pay?submission_id=`+subID+`"`)
}

func TestSignatureMissingSubmission(t *testing.T) {
	e := newEnv(t, true)
	rec := e.get("/signature/sign")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Submission not found")
}

func TestPay(t *testing.T) {
	e := newEnv(t, true)
	e.on("GET /api/v1/intake/public/submissions/"+subID, 200, `{"id":"`+subID+`","signature_status":"signed","payment_status":"pending","payment_amount":"500.00"}`)
	e.on("POST /api/v1/signatures/public/pay/"+subID, 500, `{"detail":"Payment processor unavailable"}`)

	rec := e.post("/signature/pay?submission_id="+subID, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to process payment")

	e.on("POST /api/v1/signatures/public/pay/"+subID, 200, `{"status":"success","payment_status":"succeeded"}`)
	rec = e.post("/signature/pay?submission_id="+subID, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestPaymentSuccessRedirects(t *testing.T) {
	e := newEnv(t, true)
	e.on("GET /api/v1/intake/public/submissions/"+subID, 200, `{"id":"`+subID+`","payment_status":"succeeded"}`)

	rec := e.get("/payment/success?session_id=cs_test_1&submission_id=" + subID)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Payment Successful!")
	assert.Contains(t, body, `content="3;url=/intake/success?submission_id=`+subID+`"`)
}

func TestPaymentSuccessPending(t *testing.T) {
	e := newEnv(t, true)
	e.on("GET /api/v1/intake/public/submissions/"+subID, 200, `{"id":"`+subID+`","payment_status":"processing"}`)

	rec := e.get("/payment/success?submission_id=" + subID)
	body := rec.Body.String()
	assert.Contains(t, body, "Payment Processing")
	assert.NotContains(t, body, "http-equiv")
}

func TestFormsList(t *testing.T) {
	e := newEnv(t, true)
	e.on("GET /api/v1/intake/forms", 200, `[{"id":"`+formID+`","name":"Personal Injury","is_active":true,"retainer_amount":"500.00"}]`)

	rec := e.get("/dashboard/forms", e.session())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Personal Injury")
	assert.Contains(t, rec.Body.String(), "$500.00")
}

func TestFormDetail(t *testing.T) {
	e := newEnv(t, true)
	e.on("GET /api/v1/intake/forms/"+formID, 200, publicForm)
	e.on("GET /api/v1/intake/submissions", 200, `{"items":[{"id":"s1","form_id":"`+formID+`"},{"id":"s2","form_id":"other"}],"total":2}`)

	rec := e.get("/dashboard/forms/"+formID, e.session())
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "https://intake.smith.law/intake/"+formID)
	assert.Contains(t, body, "What happened?")
}

func TestFormToggle(t *testing.T) {
	e := newEnv(t, true)
	e.on("GET /api/v1/intake/forms/"+formID, 200, publicForm)
	e.on("GET /api/v1/intake/submissions", 200, `{"items":[],"total":0}`)
	e.on("PUT /api/v1/intake/forms/"+formID, 500, `{}`)

	rec := e.post("/dashboard/forms/"+formID+"/toggle", nil, e.session())
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to update form status")
	assert.Contains(t, rec.Body.String(), "Deactivate")

	e.on("PUT /api/v1/intake/forms/"+formID, 200, `{"id":"`+formID+`","is_active":false}`)
	rec = e.post("/dashboard/forms/"+formID+"/toggle", url.Values{"return": {"/dashboard/forms"}}, e.session())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/forms", rec.Header().Get("Location"))

	puts := e.sent(http.MethodPut, "/api/v1/intake/forms/"+formID)
	require.Len(t, puts, 2)
	assert.Equal(t, map[string]any{"is_active": false}, puts[1].body)
}

func TestFormDelete(t *testing.T) {
	e := newEnv(t, true)
	e.on("DELETE /api/v1/intake/forms/"+formID, 204, ``)
	rec := e.post("/dashboard/forms/"+formID+"/delete", nil, e.session())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/forms", rec.Header().Get("Location"))
}

func builderForm(action string, fields ...[3]string) url.Values {
	v := url.Values{"name": {"Personal Injury"}, "action": {action}}
	for i, f := range fields {
		p := "fields." + strconv.Itoa(i) + "."
		v.Set(p+"name", f[0])
		v.Set(p+"label", f[1])
		v.Set(p+"type", f[2])
	}
	v.Set("field_count", strconv.Itoa(len(fields)))
	return v
}

func TestFormBuilder(t *testing.T) {
	e := newEnv(t, true)
	e.on("POST /api/v1/intake/forms", 200, `{"id":"`+formID+`","name":"Personal Injury"}`)

	rec := e.get("/dashboard/forms/new", e.session())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="first_name"`)

	rec = e.post("/dashboard/forms/new", builderForm("add", [3]string{"email", "Email", "email"}), e.session())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="fields.1.name"`)

	rec = e.post("/dashboard/forms/new", builderForm("save", [3]string{"email", "Email", "email"}, [3]string{"email", "Email again", "text"}), e.session())
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Field names must be unique")
	assert.Empty(t, e.sent(http.MethodPost, "/api/v1/intake/forms"))

	rec = e.post("/dashboard/forms/new", builderForm("save", [3]string{"email", "Email", "email"}, [3]string{"dob", "Date of Birth", "date"}), e.session())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/forms", rec.Header().Get("Location"))

	created := e.sent(http.MethodPost, "/api/v1/intake/forms")
	require.Len(t, created, 1)
	schema := created[0].body["fields_schema"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "string", "title": "Date of Birth", "format": "date"}, schema["properties"].(map[string]any)["dob"])
}

func TestFormEditUpdates(t *testing.T) {
	e := newEnv(t, true)
	e.on("GET /api/v1/intake/forms/"+formID, 200, publicForm)
	e.on("PUT /api/v1/intake/forms/"+formID, 200, publicForm)

	rec := e.get("/dashboard/forms/"+formID+"/edit", e.session())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="details"`)

	rec = e.post("/dashboard/forms/"+formID+"/edit", builderForm("save", [3]string{"email", "Email", "email"}), e.session())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/forms/"+formID, rec.Header().Get("Location"))
	require.Len(t, e.sent(http.MethodPut, "/api/v1/intake/forms/"+formID), 1)
}

func TestClientPages(t *testing.T) {
	e := newEnv(t, true)
	e.on("GET /api/v1/clients/", 200, `{"items":[{"id":"`+clientID+`","first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","status":"active"}],"total":1}`)
	e.on("GET /api/v1/clients/"+clientID, 200, `{"id":"`+clientID+`","first_name":"Ada","last_name":"Lovelace","intake_data":{"case_type":"auto"}}`)
	e.on("GET /api/v1/intake/submissions", 200, `{"items":[{"id":"`+subID+`","client_id":"`+clientID+`","status":"submitted"},{"id":"x","client_id":"other"}],"total":2}`)

	rec := e.get("/dashboard/clients", e.session())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ada Lovelace")

	rec = e.get("/dashboard/clients/"+clientID, e.session())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Case Type")
	assert.Contains(t, rec.Body.String(), "/dashboard/submissions/"+subID)
	assert.NotContains(t, rec.Body.String(), `/dashboard/submissions/x"`)

	e.on("GET /api/v1/clients/"+clientID, 404, `{"detail":"Client not found"}`)
	rec = e.get("/dashboard/clients/"+clientID, e.session())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmissionDetailAndStatus(t *testing.T) {
	e := newEnv(t, true)
	e.on("GET /api/v1/intake/submissions/"+subID, 200, `{"id":"`+subID+`","form_id":"`+formID+`","client_id":"`+clientID+`","status":"submitted","signature_status":"signed","form_data":{"case_type":"auto"}}`)
	e.on("GET /api/v1/intake/forms/"+formID, 200, publicForm)
	e.on("PUT /api/v1/intake/submissions/"+subID, 200, `{"id":"`+subID+`","status":"processing"}`)

	rec := e.get("/dashboard/submissions/"+subID, e.session())
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Personal Injury Intake")
	assert.Contains(t, body, "/signed-agreement/"+subID)
	assert.Contains(t, body, `action="/dashboard/submissions/`+subID+`/status"`)

	rec = e.post("/dashboard/submissions/"+subID+"/status", url.Values{"status": {"processing"}}, e.session())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	puts := e.sent(http.MethodPut, "/api/v1/intake/submissions/"+subID)
	require.Len(t, puts, 1)
	assert.Equal(t, map[string]any{"status": "processing"}, puts[0].body)

	rec = e.post("/dashboard/submissions/"+subID+"/status", url.Values{"status": {"archived"}}, e.session())
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown status")
	assert.Len(t, e.sent(http.MethodPut, "/api/v1/intake/submissions/"+subID), 1)
}

func TestSignedAgreement(t *testing.T) {
	e := newEnv(t, true)
	e.on("GET /api/v1/intake/submissions/"+subID, 200, `{"id":"`+subID+`","signed_at":"2026-10-14T10:00:00Z","payment_amount":"500.00","form_data":{"first_name":"Ada","signature_name":"Ada King"}}`)

	rec := e.get("/signed-agreement/"+subID, e.session())
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Ada King")
	assert.Contains(t, body, "Oct 14, 2026")
	assert.Contains(t, body, "3F2C9A7E")
}

func TestSubmissionsExport(t *testing.T) {
	e := newEnv(t, true)
	e.on("GET /api/v1/intake/forms", 200, `[]`)
	e.on("GET /api/v1/intake/submissions", 200, `{"items":[{"id":"s1"}],"total":1}`)
	e.on("GET /api/v1/clients/", 200, `{"items":[],"total":0}`)

	rec := e.get("/dashboard/submissions/export.xlsx", e.session())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))
}

func TestSettings(t *testing.T) {
	e := newEnv(t, true)
	e.on("GET /api/v1/firms/me", 200, `{"id":"firm1","name":"Smith LLP","subscription_status":"active"}`)
	e.on("PUT /api/v1/firms/me", 200, `{"id":"firm1","name":"Smith & Co"}`)

	rec := e.get("/dashboard/settings", e.session())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Smith LLP"`)

	rec = e.post("/dashboard/settings", url.Values{"name": {"Smith & Co"}, "email": {"office@smith.law"}}, e.session())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Settings saved successfully!")

	e.on("PUT /api/v1/firms/me", 400, `{"detail":"bad"}`)
	rec = e.post("/dashboard/settings", url.Values{"name": {"Smith & Co"}}, e.session())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to save settings")
	assert.Contains(t, rec.Body.String(), `value="Smith &amp; Co"`)
}
