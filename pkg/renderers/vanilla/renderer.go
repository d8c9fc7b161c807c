package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/render"
	rendertemplate "github.com/goliatone/go-formwizard/pkg/render/template"
	"github.com/goliatone/go-formwizard/pkg/render/template/pongo"
	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// PageTemplate is the default page template; themes override it through the
// PagePartial key.
const (
	PageTemplate = "templates/page.tmpl"
	PagePartial  = "wizard.page"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	inlineStyles     bool
	stylesheets      []string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithDefaultStyles inlines the embedded stylesheet into every page.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// WithStylesheet links an extra stylesheet after the theme stylesheet.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if href = strings.TrimSpace(href); href != "" {
			cfg.stylesheets = append(cfg.stylesheets, href)
		}
	}
}

// Renderer renders the active wizard page as a standalone HTML document.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	registry     *components.Registry
	inlineStyles string
	stylesheets  []string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
			pongo.WithFilter("sanitize", filterSanitize),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	out := &Renderer{
		templates:   renderer,
		registry:    cfg.registry,
		stylesheets: cfg.stylesheets,
	}
	if cfg.inlineStyles {
		out.inlineStyles = defaultStylesheet()
	}
	return out, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the active page, or the load status when no page is ready.
func (r *Renderer) Render(_ context.Context, session *wizard.Session, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if session == nil {
		return nil, fmt.Errorf("vanilla renderer: session is nil")
	}

	view := render.BuildView(session, opts)

	var partials map[string]string
	if opts.Theme != nil {
		partials = opts.Theme.Partials
	}

	fields := newComponentRenderer(r.templates, r.registry, partials)
	markup := make([]string, 0, len(view.Fields))
	for _, field := range view.Fields {
		rendered, err := fields.render(field)
		if err != nil {
			return nil, err
		}
		markup = append(markup, rendered)
	}

	stylesheets := make([]string, 0, len(r.stylesheets))
	stylesheets = append(stylesheets, fields.stylesheets()...)
	stylesheets = append(stylesheets, r.stylesheets...)

	page := PageTemplate
	if candidate := strings.TrimSpace(partials[PagePartial]); candidate != "" {
		page = candidate
	}

	result, err := r.templates.RenderTemplate(page, map[string]any{
		"view":          view,
		"fields":        markup,
		"title_html":    sanitizeLabel(view.Title),
		"classes":       chromeClasses(),
		"stylesheets":   stylesheets,
		"inline_styles": r.inlineStyles,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
