package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formwizard/pkg/preferences"
)

// RenderOptions carry per-request presentation data that is not part of the
// session itself.
type RenderOptions struct {
	// Theme is the resolved go-theme configuration. Nil renders unthemed.
	Theme *theme.RendererConfig
	// ActionPath overrides the form's POST target. Defaults to the session path.
	ActionPath string
	// FormErrors are page-level messages shown above the fields, for example a
	// failed submission notice.
	FormErrors []string
	// Notice is an informational banner, such as a submission confirmation.
	Notice string
	// Preferences enables the theme and font size controls when set.
	Preferences *preferences.Snapshot
	// PreferencesPath is the base path the preference controls post to.
	// Defaults to DefaultPreferencesPath.
	PreferencesPath string
}

// DefaultPreferencesPath is where hosts mount the preference endpoints.
const DefaultPreferencesPath = "/preferences"
