// Package wizard drives a multi-step form: it loads the question set, seeds
// defaults when a page becomes active, validates pages before moving forward,
// and produces a Submission once every page passes.
//
// A Session models a single user session. It is not safe for concurrent use;
// hosts that serve it from several goroutines must serialise access.
package wizard

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formwizard/pkg/navigator"
	"github.com/goliatone/go-formwizard/pkg/question"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/values"
)

// Status tracks the question fetch lifecycle.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// LoadErrorMessage is shown to users when the question fetch fails.
const LoadErrorMessage = "Failed to load form data. Please try again later."

// PathPrefix is the base of the per-question path.
const PathPrefix = "/form"

// Submission is the result of a successful submit.
type Submission struct {
	ID          string      `json:"id"`
	SubmittedAt time.Time   `json:"submittedAt"`
	Values      values.Form `json:"values"`
}

// Session owns navigation, collected values, and validation state.
type Session struct {
	nav       *navigator.Navigator
	form      values.Form
	errs      validation.Errors
	validator *validation.Validator
	loader    question.Loader
	logger    zerolog.Logger
	now       func() time.Time
	newID     func() string

	loading    atomic.Bool
	status     Status
	loadErr    error
	loadHooks  []func(success bool)
	submission *Submission
}

// New constructs an idle session.
func New(options ...Option) *Session {
	s := &Session{
		nav:       navigator.New(),
		form:      make(values.Form),
		errs:      make(validation.Errors),
		validator: validation.New(),
		logger:    zerolog.Nop(),
		now:       time.Now,
		newID:     defaultID,
		status:    StatusIdle,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.loader == nil {
		s.loader = defaultLoader()
	}

	// Registered first so external listeners observe seeded values.
	s.nav.Subscribe(s.onQuestionChange)
	return s
}

// OnLoad registers a callback invoked with the outcome of every Load.
func (s *Session) OnLoad(fn func(success bool)) {
	if fn != nil {
		s.loadHooks = append(s.loadHooks, fn)
	}
}

// Load fetches and parses the question document. Only one fetch may be
// outstanding; failures are recorded for display and never retried.
func (s *Session) Load(ctx context.Context, src question.Source) error {
	if ctx == nil {
		return fmt.Errorf("wizard: context is required")
	}
	if !s.loading.CompareAndSwap(false, true) {
		return ErrLoadInProgress
	}
	defer s.loading.Store(false)

	location := ""
	if src != nil {
		location = src.Location()
	}
	s.status = StatusLoading
	s.loadErr = nil
	s.logger.Info().Str("source", location).Msg("loading questions")

	doc, err := s.loader.Load(ctx, src)
	if err != nil {
		return s.failLoad(fmt.Errorf("wizard: load questions: %w", err))
	}
	set, err := question.Parse(doc)
	if err != nil {
		return s.failLoad(fmt.Errorf("wizard: parse questions: %w", err))
	}

	s.apply(set)
	return nil
}

// LoadDocument parses an already fetched document and installs it. It fails
// with ErrLoadInProgress while a Load is outstanding.
func (s *Session) LoadDocument(doc question.Document) error {
	if !s.loading.CompareAndSwap(false, true) {
		return ErrLoadInProgress
	}
	defer s.loading.Store(false)

	s.status = StatusLoading
	set, err := question.Parse(doc)
	if err != nil {
		return s.failLoad(fmt.Errorf("wizard: parse questions: %w", err))
	}
	s.apply(set)
	return nil
}

// LoadSet installs an already parsed question set. It fails with
// ErrLoadInProgress while a Load is outstanding.
func (s *Session) LoadSet(set question.Set) error {
	if !s.loading.CompareAndSwap(false, true) {
		return ErrLoadInProgress
	}
	defer s.loading.Store(false)

	s.status = StatusLoading
	if issues := question.Check(set); len(issues) > 0 {
		return s.failLoad(&question.ValidationError{Issues: issues})
	}
	s.apply(set)
	return nil
}

func (s *Session) apply(set question.Set) {
	s.submission = nil
	s.status = StatusReady
	// Values kept from an earlier set must match the new field types.
	for _, q := range set.Questions {
		if dropped := s.form.Conform(q); len(dropped) > 0 {
			s.logger.Debug().Str("question", q.ID).Strs("reset", dropped).Msg("stale values reset")
		}
	}
	s.nav.Load(set.Questions)
	s.logger.Info().Int("questions", len(set.Questions)).Msg("questions loaded")
	s.runLoadHooks(true)
}

func (s *Session) failLoad(err error) error {
	s.status = StatusFailed
	s.loadErr = err
	s.logger.Error().Err(err).Msg("question load failed")
	s.runLoadHooks(false)
	return err
}

func (s *Session) runLoadHooks(success bool) {
	for _, fn := range s.loadHooks {
		fn(success)
	}
}

func (s *Session) onQuestionChange(q question.Question, ok bool) {
	s.errs = make(validation.Errors)
	if !ok {
		return
	}
	seeded := s.form.Seed(q)
	s.logger.Debug().
		Str("question", q.ID).
		Int("index", s.nav.Index()).
		Strs("seeded", seeded).
		Msg("question active")
}

// Status reports the load lifecycle state.
func (s *Session) Status() Status {
	return s.status
}

// LoadError returns the cause of the last failed load.
func (s *Session) LoadError() error {
	return s.loadErr
}

// ErrorMessage returns the user facing load failure message, or "".
func (s *Session) ErrorMessage() string {
	if s.status == StatusFailed {
		return LoadErrorMessage
	}
	return ""
}

// Subscribe forwards to the navigator's listener registry.
func (s *Session) Subscribe(fn navigator.Listener) (unsubscribe func()) {
	return s.nav.Subscribe(fn)
}

// Current returns the active question.
func (s *Session) Current() (question.Question, bool) {
	return s.nav.Current()
}

// CurrentID returns the active question id or "".
func (s *Session) CurrentID() string {
	return s.nav.CurrentID()
}

// Index returns the active index or -1.
func (s *Session) Index() int {
	return s.nav.Index()
}

// Len returns the number of loaded questions.
func (s *Session) Len() int {
	return s.nav.Len()
}

// Questions returns a copy of the loaded questions.
func (s *Session) Questions() []question.Question {
	return s.nav.Questions()
}

func (s *Session) CanGoNext() bool {
	return s.nav.CanGoNext()
}

func (s *Session) CanGoPrevious() bool {
	return s.nav.CanGoPrevious()
}

// IsLast reports whether the active page is the final one.
func (s *Session) IsLast() bool {
	return s.nav.IsLast()
}

// GoTo activates a question by id without validating the current page.
func (s *Session) GoTo(id string) bool {
	return s.nav.GoTo(id)
}

// Previous moves back one page. Edits on the current page are kept.
func (s *Session) Previous() bool {
	return s.nav.Previous()
}

// Next validates the active page and advances only when it passes. On
// failure the errors stay available through Errors.
func (s *Session) Next() bool {
	q, ok := s.nav.Current()
	if !ok {
		return false
	}
	if !s.validateActive(q) {
		return false
	}
	return s.nav.Next()
}

// ValidateCurrent runs a full pass over the active page and reports validity.
func (s *Session) ValidateCurrent() bool {
	q, ok := s.nav.Current()
	if !ok {
		return false
	}
	return s.validateActive(q)
}

func (s *Session) validateActive(q question.Question) bool {
	s.errs = s.validator.Page(q, s.form[q.ID])
	if s.errs.Valid() {
		return true
	}
	s.logger.Debug().
		Str("question", q.ID).
		Strs("fields", s.errs.Keys()).
		Msg("page validation failed")
	return false
}

// Submit validates the active page and then every other page. The first
// failing page becomes active and its errors are returned as a
// *validation.PageError.
func (s *Session) Submit() (Submission, error) {
	if s.status != StatusReady {
		return Submission{}, ErrNotReady
	}
	current, ok := s.nav.Current()
	if !ok {
		return Submission{}, ErrNoQuestions
	}
	if !s.validateActive(current) {
		return Submission{}, &validation.PageError{PageID: current.ID, Errors: s.errs.Clone()}
	}

	for _, q := range s.nav.Questions() {
		if q.ID == current.ID {
			continue
		}
		scratch := values.Form{q.ID: s.form.Page(q.ID)}
		scratch.Seed(q)
		errs := s.validator.Page(q, scratch[q.ID])
		if errs.Valid() {
			continue
		}
		s.nav.GoTo(q.ID)
		s.errs = errs
		s.logger.Debug().Str("question", q.ID).Msg("submit blocked by page")
		return Submission{}, &validation.PageError{PageID: q.ID, Errors: errs.Clone()}
	}

	sub := Submission{
		ID:          s.newID(),
		SubmittedAt: s.now(),
		Values:      s.form.Clone(),
	}
	s.submission = &sub
	s.logger.Info().Str("submission", sub.ID).Int("pages", len(sub.Values)).Msg("form submitted")
	return sub, nil
}

// Submission returns the last successful submission.
func (s *Session) Submission() (Submission, bool) {
	if s.submission == nil {
		return Submission{}, false
	}
	out := *s.submission
	out.Values = s.submission.Values.Clone()
	return out, true
}

// UpdateValue stores a field value. Edits on the active page re-validate that
// field only.
func (s *Session) UpdateValue(pageID, fieldID string, v values.Value) error {
	q, ok := s.nav.Question(pageID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, pageID)
	}
	field, ok := q.Field(fieldID)
	if !ok {
		return fmt.Errorf("%w: %q on %q", ErrUnknownField, fieldID, pageID)
	}
	if want := values.KindFor(field.Type); v.Kind() != want {
		return fmt.Errorf("%w: %s.%s wants %s, got %s", ErrKindMismatch, pageID, fieldID, want, v.Kind())
	}
	if detail, bad := invalidChoice(field, v); bad {
		return fmt.Errorf("%w: %s.%s %s", ErrUnknownOption, pageID, fieldID, detail)
	}

	s.form.Set(pageID, fieldID, v)
	s.logger.Debug().Str("question", pageID).Str("field", fieldID).Str("value", v.String()).Msg("field updated")

	if pageID == s.nav.CurrentID() {
		s.validator.Apply(s.errs, field, v)
	}
	return nil
}

// UpdateAddressField replaces one subfield of an address value.
func (s *Session) UpdateAddressField(pageID, fieldID, subfield, value string) error {
	current, ok := s.form.Get(pageID, fieldID)
	addr, isAddr := current.AsAddress()
	if !ok || !isAddr {
		addr = values.NewAddress()
	}
	next, err := addr.With(subfield, value)
	if err != nil {
		return fmt.Errorf("wizard: %w", err)
	}
	return s.UpdateValue(pageID, fieldID, values.AddressOf(next))
}

// invalidChoice reports option values the field does not declare. An empty
// choice means "not chosen" and is left to required validation.
func invalidChoice(field question.Field, v values.Value) (string, bool) {
	if field.Type.IsChoice() {
		if text, _ := v.AsText(); text != "" && !field.HasOption(text) {
			return fmt.Sprintf("%q", text), true
		}
		return "", false
	}
	if addr, ok := v.AsAddress(); ok {
		if key, raw, bad := addr.InvalidChoice(); bad {
			return fmt.Sprintf("%s %q", key, raw), true
		}
	}
	return "", false
}

// Value returns a stored field value.
func (s *Session) Value(pageID, fieldID string) (values.Value, bool) {
	return s.form.Get(pageID, fieldID)
}

// PageValues returns a copy of one page's values.
func (s *Session) PageValues(pageID string) values.Page {
	return s.form.Page(pageID)
}

// Values returns a deep copy of every collected value.
func (s *Session) Values() values.Form {
	return s.form.Clone()
}

// Errors returns a copy of the active page's validation errors.
func (s *Session) Errors() validation.Errors {
	return s.errs.Clone()
}

// FieldError returns the message recorded for a field or subfield key.
func (s *Session) FieldError(key string) string {
	return s.errs[key]
}

// Progress returns the 1-based position of the active page and the total.
func (s *Session) Progress() (position, total int) {
	total = s.nav.Len()
	if total == 0 {
		return 0, 0
	}
	return s.nav.Index() + 1, total
}

// Path returns the location that mirrors the active question.
func (s *Session) Path() string {
	return QuestionPath(s.nav.CurrentID())
}

// QuestionPath builds /form/{id}.
func QuestionPath(id string) string {
	if id == "" {
		return PathPrefix
	}
	return PathPrefix + "/" + url.PathEscape(id)
}

// ParsePath extracts the question id from /form/{id}.
func ParsePath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, PathPrefix+"/")
	if !ok {
		return "", false
	}
	rest = strings.Trim(rest, "/")
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	id, err := url.PathUnescape(rest)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}
