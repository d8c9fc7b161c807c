package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/preferences"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
	"github.com/goliatone/go-formwizard/pkg/values"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

type fixture struct {
	session *wizard.Session
	prefs   *preferences.Service
	handler http.Handler
}

func newFixture(t *testing.T, fns ...OptionFn) fixture {
	t.Helper()

	session := wizard.New(
		wizard.WithClock(func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }),
		wizard.WithIDGenerator(func() string { return "sub-1" }),
	)
	if err := session.LoadSet(testsupport.SampleSet()); err != nil {
		t.Fatalf("load set: %v", err)
	}

	html, err := vanilla.New()
	if err != nil {
		t.Fatalf("vanilla renderer: %v", err)
	}
	renderers := render.NewRegistry()
	renderers.MustRegister(html)

	prefs, err := preferences.NewService(preferences.NewMemoryStore(preferences.Stored{}))
	if err != nil {
		t.Fatalf("preferences: %v", err)
	}

	srv, err := New(session, renderers, prefs, fns...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return fixture{session: session, prefs: prefs, handler: srv.Handler()}
}

func (f fixture) do(t *testing.T, method, target string, form url.Values, header ...string) *http.Response {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec.Result()
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func expectRedirect(t *testing.T, res *http.Response, location string) {
	t.Helper()
	if res.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d: %s", res.StatusCode, readBody(t, res))
	}
	if got := res.Header.Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

func TestIndexRedirectsToCurrentQuestion(t *testing.T) {
	f := newFixture(t)
	expectRedirect(t, f.do(t, http.MethodGet, "/", nil), "/form/contact")
}

func TestPageRendersHTML(t *testing.T) {
	f := newFixture(t)
	res := f.do(t, http.MethodGet, "/form/contact", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected HTML content-type, got %q", ct)
	}
	body := readBody(t, res)
	for _, want := range []string{`data-theme="light"`, `Step 1 of 3`, `action="/form/contact"`, `action="/preferences/theme"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q\n%s", want, body)
		}
	}
}

func TestPageNavigatesAndRejectsUnknownIDs(t *testing.T) {
	f := newFixture(t)

	res := f.do(t, http.MethodGet, "/form/shipping", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if f.session.CurrentID() != "shipping" {
		t.Fatalf("expected GET to activate shipping, got %q", f.session.CurrentID())
	}

	expectRedirect(t, f.do(t, http.MethodGet, "/form/nope", nil), "/form/shipping")
	if f.session.CurrentID() != "shipping" {
		t.Fatalf("unknown id changed the active question to %q", f.session.CurrentID())
	}
}

func TestNextBlockedShowsErrors(t *testing.T) {
	f := newFixture(t)

	res := f.do(t, http.MethodPost, "/form/contact", url.Values{
		"name":   {""},
		"email":  {"ada@example.com"},
		"action": {ActionNext},
	})
	expectRedirect(t, res, "/form/contact")

	body := readBody(t, f.do(t, http.MethodGet, "/form/contact", nil))
	for _, want := range []string{FixErrorsMessage, "Full name is required", `value="ada@example.com"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q\n%s", want, body)
		}
	}

	// The flash message is shown once.
	if body := readBody(t, f.do(t, http.MethodGet, "/form/contact", nil)); strings.Contains(body, FixErrorsMessage) {
		t.Fatalf("expected flash message to be consumed")
	}
}

func TestFullFlowSubmits(t *testing.T) {
	f := newFixture(t)

	expectRedirect(t, f.do(t, http.MethodPost, "/form/contact", url.Values{
		"name":   {"Ada"},
		"email":  {"ada@example.com"},
		"bio":    {""},
		"action": {ActionNext},
	}), "/form/shipping")

	expectRedirect(t, f.do(t, http.MethodPost, "/form/shipping", url.Values{
		"address.street":      {"1 Main St"},
		"address.city":        {"Springfield"},
		"address.state":       {"CA"},
		"address.zipCode":     {" 12345 "},
		"address.country":     {"USA"},
		"address.addressType": {"home"},
		"speed":               {"express"},
		"action":              {ActionNext},
	}), "/form/confirm")

	expectRedirect(t, f.do(t, http.MethodPost, "/form/confirm", url.Values{
		"plan":   {"pro"},
		"terms":  {"on"},
		"action": {ActionSubmit},
	}), "/form/confirm")

	body := readBody(t, f.do(t, http.MethodGet, "/form/confirm", nil))
	if !strings.Contains(body, "Thank you! Your answers were submitted (reference sub-1).") {
		t.Fatalf("expected submission notice\n%s", body)
	}

	res := f.do(t, http.MethodGet, "/api/values", nil)
	var got map[string]map[string]any
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode values: %v", err)
	}
	if got["confirm"]["terms"] != true || got["shipping"]["speed"] != "express" {
		t.Fatalf("unexpected values %#v", got)
	}
	addr, _ := got["shipping"]["address"].(map[string]any)
	if addr["zipCode"] != "12345" {
		t.Fatalf("expected trimmed zip, got %#v", addr["zipCode"])
	}
}

func TestSubmitReturnsToFailingPage(t *testing.T) {
	f := newFixture(t)
	f.session.GoTo("confirm")

	expectRedirect(t, f.do(t, http.MethodPost, "/form/confirm", url.Values{
		"plan":   {"free"},
		"terms":  {"true"},
		"action": {ActionSubmit},
	}), "/form/contact")

	if _, ok := f.session.Submission(); ok {
		t.Fatalf("expected no submission")
	}
}

func TestPreviousStoresUncheckedCheckbox(t *testing.T) {
	f := newFixture(t)
	f.session.GoTo("confirm")
	if err := f.session.UpdateValue("confirm", "terms", values.Flag(true)); err != nil {
		t.Fatalf("update: %v", err)
	}

	expectRedirect(t, f.do(t, http.MethodPost, "/form/confirm", url.Values{
		"plan":   {"free"},
		"action": {ActionPrevious},
	}), "/form/shipping")

	if v, _ := f.session.Value("confirm", "terms"); v.String() != "false" {
		t.Fatalf("expected absent checkbox to be stored unchecked, got %q", v.String())
	}
}

func TestActionErrors(t *testing.T) {
	f := newFixture(t)

	if res := f.do(t, http.MethodPost, "/form/contact", url.Values{"action": {"jump"}}); res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown action, got %d", res.StatusCode)
	}
	if res := f.do(t, http.MethodPost, "/form/nope", url.Values{"action": {ActionNext}}); res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown question, got %d", res.StatusCode)
	}
	if res := f.do(t, http.MethodDelete, "/form/contact", nil); res.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.StatusCode)
	}
}

func TestActionRejectsUnknownOption(t *testing.T) {
	f := newFixture(t)
	f.session.GoTo("shipping")

	res := f.do(t, http.MethodPost, "/form/shipping", url.Values{
		"address.street":      {"1 Main St"},
		"address.city":        {"Springfield"},
		"address.state":       {"CA"},
		"address.zipCode":     {"12345"},
		"address.country":     {"USA"},
		"address.addressType": {"home"},
		"speed":               {"teleport"},
		"action":              {ActionNext},
	})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown option, got %d", res.StatusCode)
	}
	if f.session.CurrentID() != "shipping" {
		t.Fatalf("expected to stay on shipping, now %q", f.session.CurrentID())
	}
	if v, _ := f.session.Value("shipping", "speed"); v.String() == "teleport" {
		t.Fatalf("unknown option was stored")
	}

	res = f.do(t, http.MethodPost, "/form/shipping", url.Values{
		"address.state": {"ZZ"},
		"action":        {ActionNext},
	})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown state, got %d", res.StatusCode)
	}
}

func TestActionRequiresLoadedSession(t *testing.T) {
	html, _ := vanilla.New()
	renderers := render.NewRegistry()
	renderers.MustRegister(html)
	srv, err := New(wizard.New(), renderers, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodPost, "/form/contact", strings.NewReader("action=next"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Loading form...") {
		t.Fatalf("expected loading page, got %d\n%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/preferences/theme", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without preferences, got %d", rec.Code)
	}
}

func TestStateEndpoint(t *testing.T) {
	f := newFixture(t)
	res := f.do(t, http.MethodGet, "/api/state", nil)
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}

	var snap struct {
		Status    string `json:"status"`
		Index     int    `json:"index"`
		Total     int    `json:"total"`
		Path      string `json:"path"`
		CanGoNext bool   `json:"canGoNext"`
		Question  struct {
			ID string `json:"id"`
		} `json:"question"`
	}
	if err := json.NewDecoder(res.Body).Decode(&snap); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if snap.Status != "ready" || snap.Question.ID != "contact" || snap.Total != 3 || snap.Path != "/form/contact" || !snap.CanGoNext {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestPreferencesRoutes(t *testing.T) {
	f := newFixture(t)

	expectRedirect(t, f.do(t, http.MethodPost, "/preferences/theme", url.Values{}), "/form/contact")
	if f.prefs.Theme() != preferences.ThemeDark {
		t.Fatalf("expected toggle to dark, got %q", f.prefs.Theme())
	}

	if res := f.do(t, http.MethodPost, "/preferences/theme", url.Values{"theme": {"sepia"}}); res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown theme, got %d", res.StatusCode)
	}

	res := f.do(t, http.MethodPost, "/preferences/font-size", url.Values{"size": {"large"}}, "Accept", "application/json")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var snap preferences.Snapshot
	if err := json.NewDecoder(res.Body).Decode(&snap); err != nil {
		t.Fatalf("decode preferences: %v", err)
	}
	want := preferences.Snapshot{Theme: preferences.ThemeDark, FontSize: preferences.FontSizeLarge, FontSizeValue: "18px"}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Fatalf("preferences mismatch (-want +got):\n%s", diff)
	}

	body := readBody(t, f.do(t, http.MethodGet, "/form/contact", nil))
	if !strings.Contains(body, `data-theme="dark"`) || !strings.Contains(body, "--base-font-size: 18px") {
		t.Fatalf("expected page to reflect preferences\n%s", body)
	}
}

func TestAssetsAndBasePath(t *testing.T) {
	f := newFixture(t, WithBasePath("/wiz"), WithAssets(vanilla.AssetsFS(), ""), WithRenderer("vanilla"))

	expectRedirect(t, f.do(t, http.MethodGet, "/wiz/", nil), "/wiz/form/contact")

	body := readBody(t, f.do(t, http.MethodGet, "/wiz/form/contact", nil))
	if !strings.Contains(body, `action="/wiz/form/contact"`) || !strings.Contains(body, `action="/wiz/preferences/theme"`) {
		t.Fatalf("expected base path in form actions\n%s", body)
	}

	res := f.do(t, http.MethodGet, "/assets/"+vanilla.StylesheetName, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected stylesheet, got %d", res.StatusCode)
	}
}

func TestGuardRejects(t *testing.T) {
	f := newFixture(t, WithGuard(func(r *http.Request) error {
		if r.Header.Get("X-Token") == "ok" {
			return nil
		}
		return StatusError{Code: http.StatusUnauthorized, Err: errors.New("missing token")}
	}))

	if res := f.do(t, http.MethodGet, "/api/state", nil); res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
	if res := f.do(t, http.MethodGet, "/api/state", nil, "X-Token", "ok"); res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
}

func TestNewValidatesInputs(t *testing.T) {
	if _, err := New(nil, render.NewRegistry(), nil); err == nil {
		t.Fatalf("expected error for missing session")
	}
	if _, err := New(wizard.New(), nil, nil); err == nil {
		t.Fatalf("expected error for missing registry")
	}
	if _, err := New(wizard.New(), render.NewRegistry(), nil, WithRenderer("pdf")); err == nil {
		t.Fatalf("expected error for unknown renderer")
	}
}

func TestMountPath(t *testing.T) {
	cases := map[[2]string]string{
		{"", "/form/a"}:  "/form/a",
		{"/", "/x"}:      "/x",
		{"wiz", "/x"}:    "/wiz/x",
		{"/wiz/", "api"}: "/wiz/api",
		{"/wiz", ""}:     "/wiz/",
		{"/wiz", "/{$}"}: "/wiz/{$}",
	}
	for in, want := range cases {
		if got := mountPath(in[0], in[1]); got != want {
			t.Errorf("mountPath(%q, %q) = %q, want %q", in[0], in[1], got, want)
		}
	}
}
