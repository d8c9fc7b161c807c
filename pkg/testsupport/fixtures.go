// Package testsupport holds fixtures and golden helpers shared by package
// tests.
package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/question"
)

// LoadDocument reads a fixture and builds a question.Document using a file
// source.
func LoadDocument(t *testing.T, path string) question.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T.
func LoadDocumentFromPath(path string) (question.Document, error) {
	if path == "" {
		return question.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return question.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := question.NewDocument(question.SourceFromFile(path), data)
	if err != nil {
		return question.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// MustParseSet parses an inline JSON or YAML question document.
func MustParseSet(t *testing.T, raw string) question.Set {
	t.Helper()

	set, err := question.ParseBytes([]byte(raw), "inline")
	if err != nil {
		t.Fatalf("parse set: %v", err)
	}
	return set
}

// SampleSet returns a three page wizard covering every built-in field type:
// contact details, a shipping address, and a confirmation page.
func SampleSet() question.Set {
	return question.Set{Questions: []question.Question{
		{
			ID:   "contact",
			Name: "Contact details",
			Type: "page",
			Fields: []question.Field{
				{ID: "name", Label: "Full name", Type: question.FieldTypeText, Required: true},
				{ID: "email", Label: "Email", Type: question.FieldTypeEmail, Required: true},
				{ID: "bio", Label: "About you", Type: question.FieldTypeTextArea},
			},
		},
		{
			ID:   "shipping",
			Name: "Shipping",
			Type: "page",
			Fields: []question.Field{
				{ID: "address", Label: "Address", Type: question.FieldTypeComplexAddress, Required: true},
				{ID: "speed", Label: "Delivery speed", Type: question.FieldTypeRadio, Required: true, Options: []question.Option{
					{Value: "standard", Label: "Standard"},
					{Value: "express", Label: "Express"},
				}},
			},
		},
		{
			ID:   "confirm",
			Name: "Confirm",
			Type: "page",
			Fields: []question.Field{
				{ID: "plan", Label: "Plan", Type: question.FieldTypeSelect, Options: []question.Option{
					{Value: "free", Label: "Free"},
					{Value: "pro", Label: "Pro"},
				}},
				{ID: "terms", Label: "Accept terms", Type: question.FieldTypeCheckbox, Required: true},
			},
		},
	}}
}

// Path resolves a shared testdata file from a package directly under pkg/.
func Path(parts ...string) string {
	return filepath.Join(append([]string{"..", "testsupport", "testdata"}, parts...)...)
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
