package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/question"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/values"
)

type stubLoader struct {
	doc   question.Document
	err   error
	block chan struct{}
	calls int
}

func (s *stubLoader) Load(ctx context.Context, _ question.Source) (question.Document, error) {
	s.calls++
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return question.Document{}, ctx.Err()
		}
	}
	return s.doc, s.err
}

func readySession(t *testing.T, options ...Option) *Session {
	t.Helper()
	s := New(options...)
	if err := s.LoadSet(testsupport.SampleSet()); err != nil {
		t.Fatalf("load set: %v", err)
	}
	return s
}

func completeAddress() values.Address {
	return values.Address{
		Street: "1 Main St", City: "Springfield", State: "IL",
		ZipCode: "62701", Country: "USA", AddressType: "home",
	}
}

func fillContact(t *testing.T, s *Session) {
	t.Helper()
	mustUpdate(t, s, "contact", "name", values.Text("Ada"))
	mustUpdate(t, s, "contact", "email", values.Text("ada@example.com"))
}

func fillShipping(t *testing.T, s *Session) {
	t.Helper()
	mustUpdate(t, s, "shipping", "address", values.AddressOf(completeAddress()))
	mustUpdate(t, s, "shipping", "speed", values.Text("express"))
}

func mustUpdate(t *testing.T, s *Session, page, field string, v values.Value) {
	t.Helper()
	if err := s.UpdateValue(page, field, v); err != nil {
		t.Fatalf("update %s.%s: %v", page, field, err)
	}
}

func TestSession_LoadFromFile(t *testing.T) {
	var outcomes []bool
	s := New()
	s.OnLoad(func(ok bool) { outcomes = append(outcomes, ok) })

	if s.Status() != StatusIdle {
		t.Fatalf("initial status %s", s.Status())
	}
	if err := s.Load(context.Background(), question.SourceFromFile(testsupport.Path("questions.yaml"))); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Status() != StatusReady || s.CurrentID() != "contact" || s.Len() != 3 {
		t.Fatalf("unexpected state status=%s current=%q len=%d", s.Status(), s.CurrentID(), s.Len())
	}
	if diff := cmp.Diff([]bool{true}, outcomes); diff != "" {
		t.Fatalf("hook outcomes (-want +got):\n%s", diff)
	}
}

func TestSession_LoadFailureRecordsMessage(t *testing.T) {
	stub := &stubLoader{err: errors.New("connection refused")}
	var outcomes []bool
	s := New(WithLoader(stub))
	s.OnLoad(func(ok bool) { outcomes = append(outcomes, ok) })

	err := s.Load(context.Background(), question.SourceFromURL("https://example.com/q.json"))
	if err == nil {
		t.Fatalf("expected load error")
	}
	if s.Status() != StatusFailed || s.ErrorMessage() != LoadErrorMessage {
		t.Fatalf("status=%s message=%q", s.Status(), s.ErrorMessage())
	}
	if !errors.Is(s.LoadError(), stub.err) {
		t.Fatalf("load error does not wrap cause: %v", s.LoadError())
	}
	if stub.calls != 1 {
		t.Fatalf("expected a single fetch, got %d", stub.calls)
	}
	if _, ok := s.Current(); ok {
		t.Fatalf("failed load should leave no current question")
	}
	if diff := cmp.Diff([]bool{false}, outcomes); diff != "" {
		t.Fatalf("hook outcomes (-want +got):\n%s", diff)
	}
}

func TestSession_LoadInProgress(t *testing.T) {
	doc := testsupport.LoadDocument(t, testsupport.Path("questions.json"))
	stub := &stubLoader{doc: doc, block: make(chan struct{})}
	s := New(WithLoader(stub))

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		done <- s.Load(context.Background(), doc.Source())
	}()
	<-started

	deadline := time.After(2 * time.Second)
	for !s.loading.Load() {
		select {
		case <-deadline:
			t.Fatalf("first load never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if err := s.Load(context.Background(), doc.Source()); !errors.Is(err, ErrLoadInProgress) {
		t.Fatalf("expected ErrLoadInProgress, got %v", err)
	}
	if err := s.LoadDocument(doc); !errors.Is(err, ErrLoadInProgress) {
		t.Fatalf("LoadDocument: expected ErrLoadInProgress, got %v", err)
	}
	if err := s.LoadSet(testsupport.SampleSet()); !errors.Is(err, ErrLoadInProgress) {
		t.Fatalf("LoadSet: expected ErrLoadInProgress, got %v", err)
	}

	close(stub.block)
	if err := <-done; err != nil {
		t.Fatalf("first load: %v", err)
	}
	if stub.calls != 1 {
		t.Fatalf("expected one fetch, got %d", stub.calls)
	}
}

func TestSession_SeedsDefaultsOnActivation(t *testing.T) {
	s := readySession(t)

	want := values.Page{
		"name":  values.Text(""),
		"email": values.Text(""),
		"bio":   values.Text(""),
	}
	if diff := cmp.Diff(want, s.PageValues("contact"), cmp.Comparer(values.Value.Equal)); diff != "" {
		t.Fatalf("seeded page (-want +got):\n%s", diff)
	}

	s.GoTo("shipping")
	addr, ok := s.Value("shipping", "address")
	if !ok || !addr.Equal(values.AddressOf(values.NewAddress())) {
		t.Fatalf("address default = %v", addr)
	}
}

func TestSession_NextBlockedByRequiredField(t *testing.T) {
	s := readySession(t)
	mustUpdate(t, s, "contact", "email", values.Text("ada@example.com"))

	if s.Next() {
		t.Fatalf("Next advanced past an empty required field")
	}
	if s.Index() != 0 {
		t.Fatalf("index moved to %d", s.Index())
	}
	if diff := cmp.Diff(validation.Errors{"name": "Full name is required"}, s.Errors()); diff != "" {
		t.Fatalf("errors (-want +got):\n%s", diff)
	}

	mustUpdate(t, s, "contact", "name", values.Text("Ada"))
	if !s.Errors().Valid() {
		t.Fatalf("field edit did not clear its error: %v", s.Errors())
	}
}

func TestSession_NextTwiceReachesLastPage(t *testing.T) {
	s := readySession(t)
	fillContact(t, s)
	if !s.Next() {
		t.Fatalf("first Next failed: %v", s.Errors())
	}
	fillShipping(t, s)
	if !s.Next() {
		t.Fatalf("second Next failed: %v", s.Errors())
	}
	if s.Index() != 2 || s.CanGoNext() || !s.IsLast() {
		t.Fatalf("expected last page, index=%d", s.Index())
	}
	if s.Next() {
		t.Fatalf("Next moved past the last page")
	}
}

func TestSession_AddressMissingCityBlocks(t *testing.T) {
	s := readySession(t)
	s.GoTo("shipping")

	addr := completeAddress()
	addr.City = ""
	mustUpdate(t, s, "shipping", "address", values.AddressOf(addr))
	mustUpdate(t, s, "shipping", "speed", values.Text("standard"))

	if s.Next() {
		t.Fatalf("Next advanced with an incomplete address")
	}
	want := validation.Errors{"address": "Address is incomplete", "address.city": "City is required."}
	if diff := cmp.Diff(want, s.Errors()); diff != "" {
		t.Fatalf("errors (-want +got):\n%s", diff)
	}

	if err := s.UpdateAddressField("shipping", "address", "city", "Springfield"); err != nil {
		t.Fatalf("update city: %v", err)
	}
	if s.FieldError("address") != "" || s.FieldError("address.city") != "" {
		t.Fatalf("address errors not cleared: %v", s.Errors())
	}
}

func TestSession_PreviousKeepsEditsAndIsUngated(t *testing.T) {
	s := readySession(t)
	fillContact(t, s)
	s.Next()

	mustUpdate(t, s, "shipping", "speed", values.Text("express"))
	if s.Next() {
		t.Fatalf("expected shipping to be invalid")
	}
	if !s.Previous() {
		t.Fatalf("Previous was gated")
	}
	if !s.Errors().Valid() {
		t.Fatalf("errors not reset on page change: %v", s.Errors())
	}
	s.Next()
	if v, _ := s.Value("shipping", "speed"); !v.Equal(values.Text("express")) {
		t.Fatalf("edit lost after revisiting: %v", v)
	}
}

func TestSession_UpdateValueRejectsBadInput(t *testing.T) {
	s := readySession(t)

	cases := []struct {
		page, field string
		value       values.Value
		want        error
	}{
		{"missing", "name", values.Text("x"), ErrUnknownQuestion},
		{"contact", "missing", values.Text("x"), ErrUnknownField},
		{"contact", "name", values.Flag(true), ErrKindMismatch},
		{"confirm", "terms", values.Text("yes"), ErrKindMismatch},
	}
	for _, tc := range cases {
		if err := s.UpdateValue(tc.page, tc.field, tc.value); !errors.Is(err, tc.want) {
			t.Fatalf("UpdateValue(%s.%s) = %v, want %v", tc.page, tc.field, err, tc.want)
		}
	}
}

func TestSession_UpdateValueRejectsUnknownOptions(t *testing.T) {
	s := readySession(t)

	cases := []struct {
		page, field string
		value       values.Value
	}{
		{"shipping", "speed", values.Text("teleport")},
		{"confirm", "plan", values.Text("enterprise")},
	}
	for _, tc := range cases {
		if err := s.UpdateValue(tc.page, tc.field, tc.value); !errors.Is(err, ErrUnknownOption) {
			t.Fatalf("UpdateValue(%s.%s) = %v, want ErrUnknownOption", tc.page, tc.field, err)
		}
		if v, ok := s.Value(tc.page, tc.field); ok && v.Equal(tc.value) {
			t.Fatalf("%s.%s stored rejected value %v", tc.page, tc.field, v)
		}
	}

	s.GoTo("shipping")
	for _, sub := range []struct{ key, value string }{
		{values.AddressState, "ZZ"},
		{values.AddressAddressType, "spaceship"},
	} {
		if err := s.UpdateAddressField("shipping", "address", sub.key, sub.value); !errors.Is(err, ErrUnknownOption) {
			t.Fatalf("address %s=%q: got %v, want ErrUnknownOption", sub.key, sub.value, err)
		}
	}
	if v, _ := s.Value("shipping", "address"); !v.Equal(values.AddressOf(values.NewAddress())) {
		t.Fatalf("rejected subfield changed address: %v", v)
	}
}

func TestSession_EmptyChoiceLeftToRequired(t *testing.T) {
	s := readySession(t)
	fillContact(t, s)
	s.Next()
	mustUpdate(t, s, "shipping", "address", values.AddressOf(completeAddress()))
	mustUpdate(t, s, "shipping", "speed", values.Text(""))

	if s.Next() {
		t.Fatalf("Next advanced with no speed chosen")
	}
	if _, ok := s.Errors()["speed"]; !ok {
		t.Fatalf("expected speed error, got %v", s.Errors())
	}
}

func TestSession_ReloadResetsValuesOfChangedKind(t *testing.T) {
	text := question.Set{Questions: []question.Question{{
		ID: "p", Name: "Page",
		Fields: []question.Field{{ID: "f", Label: "F", Type: question.FieldTypeText}},
	}}}
	checkbox := question.Set{Questions: []question.Question{{
		ID: "p", Name: "Page",
		Fields: []question.Field{{ID: "f", Label: "F", Type: question.FieldTypeCheckbox}},
	}}}

	s := New()
	if err := s.LoadSet(text); err != nil {
		t.Fatalf("load text set: %v", err)
	}
	mustUpdate(t, s, "p", "f", values.Text("hello"))

	if err := s.LoadSet(checkbox); err != nil {
		t.Fatalf("load checkbox set: %v", err)
	}
	if v, _ := s.Value("p", "f"); !v.Equal(values.Flag(false)) {
		t.Fatalf("value after reload = %v, want flag default", v)
	}

	sub, err := s.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if v, _ := sub.Values.Get("p", "f"); v.Kind() != values.KindFlag {
		t.Fatalf("submitted kind %s, want %s", v.Kind(), values.KindFlag)
	}
}

func TestSession_ReloadKeepsMatchingValues(t *testing.T) {
	s := readySession(t)
	mustUpdate(t, s, "contact", "name", values.Text("Ada"))

	if err := s.LoadSet(testsupport.SampleSet()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if v, _ := s.Value("contact", "name"); !v.Equal(values.Text("Ada")) {
		t.Fatalf("reload dropped a matching value: %v", v)
	}
}

func TestSession_SubmitMovesToFirstFailingPage(t *testing.T) {
	s := readySession(t)
	fillContact(t, s)
	s.Next()
	fillShipping(t, s)
	s.Next()
	mustUpdate(t, s, "confirm", "terms", values.Flag(true))

	s.GoTo("contact")
	mustUpdate(t, s, "contact", "name", values.Text(""))
	s.GoTo("confirm")

	_, err := s.Submit()
	var pageErr *validation.PageError
	if !errors.As(err, &pageErr) {
		t.Fatalf("expected PageError, got %v", err)
	}
	if pageErr.PageID != "contact" || s.CurrentID() != "contact" {
		t.Fatalf("page=%q current=%q", pageErr.PageID, s.CurrentID())
	}
	if s.FieldError("name") != "Full name is required" {
		t.Fatalf("missing field error: %v", s.Errors())
	}
	if _, ok := s.Submission(); ok {
		t.Fatalf("failed submit recorded a submission")
	}
}

func TestSession_SubmitUnvisitedPagesFail(t *testing.T) {
	s := readySession(t)
	fillContact(t, s)

	_, err := s.Submit()
	var pageErr *validation.PageError
	if !errors.As(err, &pageErr) || pageErr.PageID != "shipping" {
		t.Fatalf("expected shipping to fail, got %v", err)
	}
	if _, ok := s.PageValues("confirm")["terms"]; ok {
		t.Fatalf("submit seeded an unvisited page")
	}
}

func TestSession_SubmitSuccess(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := readySession(t, WithClock(func() time.Time { return at }), WithIDGenerator(func() string { return "sub-1" }))
	fillContact(t, s)
	s.Next()
	fillShipping(t, s)
	s.Next()
	mustUpdate(t, s, "confirm", "terms", values.Flag(true))

	sub, err := s.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.ID != "sub-1" || !sub.SubmittedAt.Equal(at) {
		t.Fatalf("unexpected submission %+v", sub)
	}
	if v, _ := sub.Values.Get("shipping", "speed"); !v.Equal(values.Text("express")) {
		t.Fatalf("submission values missing speed: %v", v)
	}

	snap := s.Snapshot()
	if !snap.Submitted || snap.SubmissionID != "sub-1" {
		t.Fatalf("snapshot not marked submitted: %+v", snap)
	}
}

func TestSession_SubmitRequiresReady(t *testing.T) {
	if _, err := New().Submit(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	s := readySession(t)
	s.LoadSet(question.Set{})
	if _, err := s.Submit(); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestSession_SubscribeSeesSeededValues(t *testing.T) {
	s := readySession(t)
	var seen []string
	unsubscribe := s.Subscribe(func(q question.Question, ok bool) {
		if _, seeded := s.Value(q.ID, q.Fields[0].ID); ok && seeded {
			seen = append(seen, q.ID)
		}
	})
	s.GoTo("confirm")
	unsubscribe()
	s.GoTo("shipping")

	if diff := cmp.Diff([]string{"confirm"}, seen); diff != "" {
		t.Fatalf("listener calls (-want +got):\n%s", diff)
	}
}

func TestPaths(t *testing.T) {
	s := readySession(t)
	s.GoTo("shipping")
	if s.Path() != "/form/shipping" {
		t.Fatalf("path = %q", s.Path())
	}
	if pos, total := s.Progress(); pos != 2 || total != 3 {
		t.Fatalf("progress = %d/%d", pos, total)
	}

	cases := map[string]struct {
		id string
		ok bool
	}{
		"/form/shipping":  {"shipping", true},
		"/form/shipping/": {"shipping", true},
		"/form/a%20b":     {"a b", true},
		"/form/":          {"", false},
		"/form/a/b":       {"", false},
		"/other/shipping": {"", false},
	}
	for path, want := range cases {
		id, ok := ParsePath(path)
		if id != want.id || ok != want.ok {
			t.Fatalf("ParsePath(%q) = %q, %v", path, id, ok)
		}
	}
	if QuestionPath("a b") != "/form/a%20b" {
		t.Fatalf("QuestionPath escape = %q", QuestionPath("a b"))
	}
}
