package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/goliatone/go-formwizard/pkg/preferences"
	"github.com/goliatone/go-formwizard/pkg/question"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/values"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Form actions posted by the page's navigation buttons.
const (
	ActionNext     = "next"
	ActionPrevious = "previous"
	ActionSubmit   = "submit"
)

// FixErrorsMessage is shown above the fields after a blocked action.
const FixErrorsMessage = "Please fix the errors below."

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// flash carries messages from a POST to the page rendered after its redirect.
type flash struct {
	notice string
	errors []string
}

// Server serves a single wizard session.
type Server struct {
	mu        sync.Mutex
	session   *wizard.Session
	renderers *render.Registry
	prefs     *preferences.Service
	opts      Options
	flash     flash
}

// New wires a session to its renderers. prefs may be nil, in which case pages
// render unthemed and the preference routes answer 404.
func New(session *wizard.Session, renderers *render.Registry, prefs *preferences.Service, fns ...OptionFn) (*Server, error) {
	if session == nil {
		return nil, fmt.Errorf("server: missing session")
	}
	if renderers == nil {
		return nil, fmt.Errorf("server: missing renderer registry")
	}
	opts := NewOptions(fns...)
	if opts.Renderer != "" && !renderers.Has(opts.Renderer) {
		return nil, fmt.Errorf("server: renderer %q not registered", opts.Renderer)
	}
	return &Server{
		session:   session,
		renderers: renderers,
		prefs:     prefs,
		opts:      opts,
	}, nil
}

// Handler returns a mux with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	// Registration on a fresh mux cannot fail.
	_ = s.RegisterRoutes(mux)
	return mux
}

// RegisterRoutes mounts the wizard routes on mux. Assets are served at their
// configured path without the base path, matching the theme's asset URLs.
func (s *Server) RegisterRoutes(mux Mux) error {
	if mux == nil {
		return fmt.Errorf("server: missing mux")
	}
	mux.Handle("GET "+s.path("/{$}"), s.handle(s.handleIndex))
	mux.Handle("GET "+s.path(wizard.PathPrefix+"/{id}"), s.handle(s.handlePage))
	mux.Handle("POST "+s.path(wizard.PathPrefix+"/{id}"), s.handle(s.handleAction))
	mux.Handle("GET "+s.path("/api/state"), s.handle(s.handleState))
	mux.Handle("GET "+s.path("/api/values"), s.handle(s.handleValues))
	mux.Handle("POST "+s.path("/preferences/theme"), s.handle(s.handleTheme))
	mux.Handle("POST "+s.path("/preferences/font-size"), s.handle(s.handleFontSize))
	if s.opts.Assets != nil {
		prefix := mountPath("", s.opts.AssetsPath)
		mux.Handle("GET "+strings.TrimRight(prefix, "/")+"/", http.StripPrefix(prefix, http.FileServer(http.FS(s.opts.Assets))))
	}
	return nil
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) handle(fn handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Guard != nil {
			if err := s.opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		if err := fn(w, r); err != nil {
			code := statusOf(err)
			event := s.opts.Logger.Warn()
			if code >= http.StatusInternalServerError {
				event = s.opts.Logger.Error()
			}
			event.Err(err).Str("method", r.Method).Str("path", r.URL.Path).Int("status", code).Msg("request failed")

			msg := http.StatusText(code)
			if code < http.StatusInternalServerError {
				msg = err.Error()
			}
			http.Error(w, msg, code)
		}
	})
}

func writeGuardError(w http.ResponseWriter, err error) {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		if c := httpErr.StatusCode(); c > 0 {
			code = c
		}
	}
	http.Error(w, http.StatusText(code), code)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) error {
	if s.session.CurrentID() == "" {
		return s.renderPage(w, r)
	}
	s.redirectToCurrent(w, r)
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")
	if id != s.session.CurrentID() && !s.session.GoTo(id) {
		s.opts.Logger.Debug().Str("question", id).Msg("unknown question requested")
		s.redirectToCurrent(w, r)
		return nil
	}
	return s.renderPage(w, r)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) error {
	if s.session.Status() != wizard.StatusReady {
		return StatusError{Code: http.StatusConflict, Err: wizard.ErrNotReady}
	}

	id := r.PathValue("id")
	if id != s.session.CurrentID() && !s.session.GoTo(id) {
		return StatusError{Code: http.StatusNotFound, Err: fmt.Errorf("%w: %q", wizard.ErrUnknownQuestion, id)}
	}
	q, _ := s.session.Current()

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxFormBytes)
	if err := r.ParseForm(); err != nil {
		return badRequest(fmt.Errorf("server: parse form: %w", err))
	}
	if err := s.applyForm(q, r.PostForm); err != nil {
		return badRequest(err)
	}

	action := strings.TrimSpace(r.PostForm.Get("action"))
	switch action {
	case ActionNext:
		if !s.session.Next() {
			s.flash.errors = []string{FixErrorsMessage}
		}
	case ActionPrevious:
		s.session.Previous()
	case ActionSubmit:
		sub, err := s.session.Submit()
		var pageErr *validation.PageError
		switch {
		case err == nil:
			s.flash.notice = fmt.Sprintf("Thank you! Your answers were submitted (reference %s).", sub.ID)
		case errors.As(err, &pageErr):
			s.flash.errors = []string{FixErrorsMessage}
		default:
			return fmt.Errorf("server: submit: %w", err)
		}
	case "":
		// Saving without navigating.
	default:
		return badRequest(fmt.Errorf("server: unknown action %q", action))
	}

	s.opts.Logger.Debug().Str("question", q.ID).Str("action", action).Str("now", s.session.CurrentID()).Msg("form action")
	s.redirectToCurrent(w, r)
	return nil
}

// applyForm copies posted inputs for the question's fields into the session.
// An absent checkbox means unchecked; other absent inputs are left alone.
func (s *Server) applyForm(q question.Question, form url.Values) error {
	for _, field := range q.Fields {
		switch values.KindFor(field.Type) {
		case values.KindFlag:
			raw := strings.ToLower(strings.TrimSpace(form.Get(field.ID)))
			checked := raw == "true" || raw == "on" || raw == "1"
			if err := s.session.UpdateValue(q.ID, field.ID, values.Flag(checked)); err != nil {
				return err
			}
		case values.KindAddress:
			for _, key := range values.AddressFields {
				name := field.ID + "." + key
				if _, ok := form[name]; !ok {
					continue
				}
				if err := s.session.UpdateAddressField(q.ID, field.ID, key, strings.TrimSpace(form.Get(name))); err != nil {
					return err
				}
			}
		default:
			if _, ok := form[field.ID]; !ok {
				continue
			}
			if err := s.session.UpdateValue(q.ID, field.ID, values.Text(form.Get(field.ID))); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleValues(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, s.session.Values())
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) error {
	if s.prefs == nil {
		return StatusError{Code: http.StatusNotFound}
	}
	if err := r.ParseForm(); err != nil {
		return badRequest(err)
	}

	raw := strings.TrimSpace(r.PostForm.Get("theme"))
	if raw == "" {
		if _, err := s.prefs.Toggle(); err != nil {
			return err
		}
	} else {
		t, err := preferences.ParseTheme(raw)
		if err != nil {
			return badRequest(err)
		}
		if err := s.prefs.SetTheme(t); err != nil {
			return err
		}
	}
	return s.preferencesResponse(w, r)
}

func (s *Server) handleFontSize(w http.ResponseWriter, r *http.Request) error {
	if s.prefs == nil {
		return StatusError{Code: http.StatusNotFound}
	}
	if err := r.ParseForm(); err != nil {
		return badRequest(err)
	}
	size, err := preferences.ParseFontSize(strings.TrimSpace(r.PostForm.Get("size")))
	if err != nil {
		return badRequest(err)
	}
	if err := s.prefs.SetFontSize(size); err != nil {
		return err
	}
	return s.preferencesResponse(w, r)
}

func (s *Server) preferencesResponse(w http.ResponseWriter, r *http.Request) error {
	if wantsJSON(r) {
		return writeJSON(w, http.StatusOK, s.prefs.Snapshot())
	}
	s.redirectToCurrent(w, r)
	return nil
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request) error {
	renderer, err := s.pageRenderer(r)
	if err != nil {
		return err
	}

	opts := render.RenderOptions{
		ActionPath: s.path(s.session.Path()),
		FormErrors: s.flash.errors,
		Notice:     s.flash.notice,
	}
	s.flash = flash{}

	if s.prefs != nil {
		cfg, err := s.prefs.RendererConfig()
		if err != nil {
			return fmt.Errorf("server: resolve theme: %w", err)
		}
		snap := s.prefs.Snapshot()
		opts.Theme = cfg
		opts.Preferences = &snap
		opts.PreferencesPath = s.path(render.DefaultPreferencesPath)
	}

	body, err := renderer.Render(r.Context(), s.session, opts)
	if err != nil {
		return fmt.Errorf("server: render page: %w", err)
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return nil
	}
	_, err = w.Write(body)
	return err
}

func (s *Server) pageRenderer(r *http.Request) (render.Renderer, error) {
	if s.opts.Renderer != "" {
		return s.renderers.Get(s.opts.Renderer)
	}
	return s.renderers.Negotiate(r.Header.Get("Accept"))
}

func (s *Server) redirectToCurrent(w http.ResponseWriter, r *http.Request) {
	target := s.path("/")
	if s.session.CurrentID() != "" {
		target = s.path(s.session.Path())
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) path(p string) string {
	return mountPath(s.opts.BasePath, p)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	return enc.Encode(v)
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
