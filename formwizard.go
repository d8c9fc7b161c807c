// Package formwizard is the entry point for building multi-step forms from a
// question document. It wires the loader, session, and renderers so callers
// can start from one import:
//
//	session, err := formwizard.LoadSession(ctx, question.ParseSource("questions.yaml"))
//	if err != nil {
//		return err
//	}
//	for session.Next() {
//	}
package formwizard

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formwizard/pkg/question"
	vanilla "github.com/goliatone/go-formwizard/pkg/renderers/vanilla"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Session aliases wizard.Session for callers that only import the root package.
type Session = wizard.Session

// Submission aliases wizard.Submission.
type Submission = wizard.Submission

// NewSession constructs an idle session. Options are forwarded to wizard.New.
func NewSession(options ...wizard.Option) *Session {
	return wizard.New(options...)
}

// LoadSession builds a session and loads the document at src. The session is
// returned even when loading fails so hosts can render the failure state.
func LoadSession(ctx context.Context, src question.Source, options ...wizard.Option) (*Session, error) {
	if src == nil {
		return nil, fmt.Errorf("formwizard: source is required")
	}
	session := wizard.New(options...)
	if err := session.Load(ctx, src); err != nil {
		return session, err
	}
	return session, nil
}

// EmbeddedTemplates exposes the built-in HTML renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the stylesheet bundle served by the HTML host.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(formwizard.EmbeddedAssets()),
//	  ),
//	)
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
