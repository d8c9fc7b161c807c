package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/question"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

func TestMapErrors(t *testing.T) {
	q := question.Question{ID: "p", Fields: []question.Field{
		{ID: "name", Type: question.FieldTypeText},
		{ID: "home", Type: question.FieldTypeComplexAddress},
	}}
	errs := validation.Errors{
		"name":        "Name is required",
		"home":        "Home is incomplete",
		"home.city":   "City is required.",
		"/home/state": "State is required.",
		"name.first":  "Not an address",
		"unknown":     "Something else went wrong",
		"":            "Unscoped",
		"a.b.c":       "Too deep",
	}

	got := render.MapErrors(q, errs)

	want := render.ErrorMapping{
		Fields: map[string]string{"name": "Name is required", "home": "Home is incomplete"},
		Sub:    map[string]map[string]string{"home": {"city": "City is required.", "state": "State is required."}},
		Form:   []string{"Unscoped", "Too deep", "Not an address", "Something else went wrong"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
