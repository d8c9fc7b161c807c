package formwizard

import (
	internalLoader "github.com/goliatone/go-formwizard/internal/loader"
	"github.com/goliatone/go-formwizard/pkg/question"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...question.LoaderOption) question.Loader {
	cfg := question.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}
