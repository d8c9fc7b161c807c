package preferences

import (
	"fmt"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"
)

// Option customises a Service.
type Option func(*Service)

// WithSystemTheme sets the function consulted when no theme is stored.
func WithSystemTheme(fn func() Theme) Option {
	return func(s *Service) {
		if fn != nil {
			s.system = fn
		}
	}
}

// WithThemes overrides the manifests used by RendererConfig.
func WithThemes(themes *Themes) Option {
	return func(s *Service) {
		if themes != nil {
			s.themes = themes
		}
	}
}

// WithThemeName selects the manifest used by RendererConfig.
func WithThemeName(name string) Option {
	return func(s *Service) {
		s.themeName = name
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// Service owns the active theme and font size. It is safe for concurrent use.
type Service struct {
	mu        sync.RWMutex
	store     Store
	system    func() Theme
	themes    *Themes
	themeName string
	logger    zerolog.Logger

	theme    Theme
	fontSize FontSize
	// explicit holds only the choices the user made; fallbacks stay out.
	explicit Stored
}

// NewService resolves the initial preferences from store. A missing or invalid
// theme falls back to the system preference and an invalid font size to
// DefaultFontSize. The fallbacks are not written back.
func NewService(store Store, options ...Option) (*Service, error) {
	if store == nil {
		store = NewMemoryStore(Stored{})
	}
	s := &Service{
		store:  store,
		system: func() Theme { return ThemeLight },
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.themes == nil {
		themes, err := NewThemes()
		if err != nil {
			return nil, err
		}
		s.themes = themes
	}

	stored, err := store.Load()
	if err != nil {
		return nil, err
	}

	if t, err := ParseTheme(stored.Theme); err == nil {
		s.theme = t
		s.explicit.Theme = string(t)
	} else {
		s.theme = s.system()
		if !s.theme.Valid() {
			s.theme = ThemeLight
		}
	}
	if size, err := ParseFontSize(stored.FontSize); err == nil {
		s.fontSize = size
		s.explicit.FontSize = string(size)
	} else {
		if stored.FontSize != "" {
			s.logger.Warn().Str("font_size", stored.FontSize).Msg("ignoring stored font size")
		}
		s.fontSize = DefaultFontSize
	}
	return s, nil
}

// Theme returns the active theme.
func (s *Service) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// FontSize returns the active font size.
func (s *Service) FontSize() FontSize {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fontSize
}

// Snapshot returns the resolved state.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Theme: s.theme, FontSize: s.fontSize, FontSizeValue: s.fontSize.CSSValue()}
}

// Toggle flips the theme and persists it.
func (s *Service) Toggle() (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.theme.Toggle()
	if err := s.persist(Stored{Theme: string(next), FontSize: s.explicit.FontSize}); err != nil {
		return s.theme, err
	}
	s.theme = next
	return next, nil
}

// SetTheme stores an explicit theme.
func (s *Service) SetTheme(t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("preferences: unknown theme %q", t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(Stored{Theme: string(t), FontSize: s.explicit.FontSize}); err != nil {
		return err
	}
	s.theme = t
	return nil
}

// SetFontSize stores an explicit font size.
func (s *Service) SetFontSize(size FontSize) error {
	if !size.Valid() {
		return fmt.Errorf("preferences: unknown font size %q", size)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(Stored{Theme: s.explicit.Theme, FontSize: string(size)}); err != nil {
		return err
	}
	s.fontSize = size
	return nil
}

// RendererConfig resolves the active preferences into go-theme renderer
// configuration.
func (s *Service) RendererConfig() (*theme.RendererConfig, error) {
	snap := s.Snapshot()
	return s.themes.Config(s.themeName, snap.Theme, snap.FontSize)
}

// persist saves next and records it as the explicit choice set. Callers pass
// only fields the user has chosen.
func (s *Service) persist(next Stored) error {
	if err := s.store.Save(next); err != nil {
		return fmt.Errorf("preferences: save: %w", err)
	}
	s.explicit = next
	s.logger.Debug().Str("theme", next.Theme).Str("font_size", next.FontSize).Msg("preferences saved")
	return nil
}
