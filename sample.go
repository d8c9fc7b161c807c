package formwizard

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-formwizard/pkg/question"
)

// SampleName is the embedded demo document's name inside SampleFS.
const SampleName = "questions.yaml"

//go:embed examples/questions.yaml
var embeddedSample embed.FS

// SampleFS exposes the bundled demo question document.
func SampleFS() fs.FS {
	sub, err := fs.Sub(embeddedSample, "examples")
	if err != nil {
		return embeddedSample
	}
	return sub
}

// SampleSource points at the demo document inside SampleFS. Pair it with a
// loader built using question.WithFileSystem(SampleFS()).
func SampleSource() question.Source {
	return question.SourceFromFS(SampleName)
}
