package preferences

import (
	"fmt"
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName names the built-in manifest.
const DefaultThemeName = "formwizard"

// FontSizeVar is the CSS custom property carrying the base font size.
const FontSizeVar = "--base-font-size"

// DefaultManifest describes the built-in palette. The base tokens are the
// light scheme; the dark variant overrides them.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-bg":         "#ffffff",
			"color-surface":    "#f5f6f8",
			"color-text":       "#1f2328",
			"color-muted":      "#59636e",
			"color-border":     "#d0d7de",
			"color-primary":    "#0969da",
			"color-on-primary": "#ffffff",
			"color-error":      "#cf222e",
			"radius":           "6px",
		},
		Templates: map[string]string{
			"wizard.page": "templates/page.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				"stylesheet": "formwizard.css",
			},
		},
		Variants: map[string]theme.Variant{
			string(ThemeDark): {
				Tokens: map[string]string{
					"color-bg":         "#0d1117",
					"color-surface":    "#161b22",
					"color-text":       "#e6edf3",
					"color-muted":      "#8d96a0",
					"color-border":     "#30363d",
					"color-primary":    "#2f81f7",
					"color-on-primary": "#ffffff",
					"color-error":      "#f85149",
				},
			},
		},
	}
}

// Themes resolves theme manifests into renderer configuration. It satisfies
// theme.ThemeSelector so it can be swapped for any other selector.
type Themes struct {
	provider  theme.ThemeProvider
	manifests map[string]*theme.Manifest
	fallback  string
}

var _ theme.ThemeSelector = (*Themes)(nil)

// NewThemes registers the manifests. The first one is the fallback used when a
// lookup names an unknown theme. With no manifests the built-in one is used.
func NewThemes(manifests ...*theme.Manifest) (*Themes, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{DefaultManifest()}
	}

	registry := theme.NewRegistry()
	t := &Themes{
		provider:  registry,
		manifests: make(map[string]*theme.Manifest, len(manifests)),
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("preferences: register theme %q: %w", manifest.Name, err)
		}
		t.manifests[manifest.Name] = manifest
		if t.fallback == "" {
			t.fallback = manifest.Name
		}
	}
	if t.fallback == "" {
		return nil, fmt.Errorf("preferences: no theme manifests")
	}
	return t, nil
}

// Provider exposes the go-theme registry holding the manifests.
func (t *Themes) Provider() theme.ThemeProvider {
	return t.provider
}

// Select implements theme.ThemeSelector. Unknown variants resolve to the base
// tokens; the light scheme has no variant of its own.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = t.fallback
	}
	manifest, ok := t.manifests[name]
	if !ok {
		return nil, fmt.Errorf("preferences: theme %q not registered", name)
	}
	if _, ok := manifest.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{Theme: manifest.Name, Variant: variant, Manifest: manifest}, nil
}

// Config resolves a theme and variant into renderer configuration with the
// font size applied.
func (t *Themes) Config(name string, scheme Theme, size FontSize) (*theme.RendererConfig, error) {
	selection, err := t.Select(name, string(scheme))
	if err != nil {
		return nil, err
	}
	cfg := RendererConfig(selection, size)
	// Keep the requested scheme even when the manifest has no variant for it.
	cfg.Variant = string(scheme)
	return cfg, nil
}

// RendererConfig flattens a selection: variant tokens, templates, and asset
// files override the manifest's own.
func RendererConfig(selection *theme.Selection, size FontSize) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Partials: map[string]string{},
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}
	assets := map[string]string{}
	prefix := ""

	if selection != nil {
		cfg.Theme = selection.Theme
		cfg.Variant = selection.Variant
		if m := selection.Manifest; m != nil {
			mergeInto(cfg.Tokens, m.Tokens)
			mergeInto(cfg.Partials, m.Templates)
			mergeInto(assets, m.Assets.Files)
			prefix = m.Assets.Prefix
			if v, ok := m.Variants[selection.Variant]; ok {
				mergeInto(cfg.Tokens, v.Tokens)
				mergeInto(cfg.Partials, v.Templates)
				mergeInto(assets, v.Assets.Files)
				if v.Assets.Prefix != "" {
					prefix = v.Assets.Prefix
				}
			}
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+key] = value
	}
	cfg.CSSVars[FontSizeVar] = size.CSSValue()
	cfg.AssetURL = assetResolver(prefix, assets)
	return cfg
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	return func(key string) string {
		key = strings.TrimSpace(key)
		if key == "" {
			return ""
		}
		file, ok := files[key]
		if !ok {
			file = key
		}
		if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") || strings.HasPrefix(file, "/") {
			return file
		}
		if prefix == "" {
			return file
		}
		return path.Join(prefix, file)
	}
}

func mergeInto(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}
