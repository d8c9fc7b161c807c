// Package render defines the presentation contract shared by the wizard's
// front ends and the view model they render from.
package render

import (
	"context"

	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Renderer turns the current state of a wizard session into bytes (HTML, JSON,
// plain text). Interactive renderers may drive the session while rendering.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, session *wizard.Session, options RenderOptions) ([]byte, error)
}
