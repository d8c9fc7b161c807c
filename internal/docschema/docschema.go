// Package docschema checks decoded question documents against the embedded
// OpenAPI component schema using kin-openapi.
package docschema

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed schema.yaml
var schemaDoc []byte

// RootSchema names the component describing a whole document.
const RootSchema = "QuestionDocument"

// Issue is a single schema violation.
type Issue struct {
	Path    string
	Message string
}

var (
	loadOnce   sync.Once
	rootSchema *openapi3.Schema
	loadErr    error
)

func schema() (*openapi3.Schema, error) {
	loadOnce.Do(func() {
		loader := openapi3.NewLoader()
		loader.Context = context.Background()

		doc, err := loader.LoadFromData(schemaDoc)
		if err != nil {
			loadErr = fmt.Errorf("docschema: load schema document: %w", err)
			return
		}
		if err := doc.Validate(loader.Context); err != nil {
			loadErr = fmt.Errorf("docschema: validate schema document: %w", err)
			return
		}
		if doc.Components == nil {
			loadErr = errors.New("docschema: schema document has no components")
			return
		}
		ref, ok := doc.Components.Schemas[RootSchema]
		if !ok || ref == nil || ref.Value == nil {
			loadErr = fmt.Errorf("docschema: schema %q missing", RootSchema)
			return
		}
		rootSchema = ref.Value
	})
	return rootSchema, loadErr
}

// Check validates a JSON-shaped value (maps, slices, strings, float64, bool)
// and returns every violation found. A nil slice means the value conforms.
func Check(value any) ([]Issue, error) {
	root, err := schema()
	if err != nil {
		return nil, err
	}

	err = root.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return nil, nil
	}

	var issues []Issue
	collect(err, &issues)
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Path < issues[j].Path
	})
	return issues, nil
}

func collect(err error, out *[]Issue) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, inner := range multi {
			collect(inner, out)
		}
		return
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		*out = append(*out, Issue{
			Path:    "/" + strings.Join(schemaErr.JSONPointer(), "/"),
			Message: strings.TrimSpace(schemaErr.Reason),
		})
		return
	}

	*out = append(*out, Issue{Path: "/", Message: strings.TrimSpace(err.Error())})
}
