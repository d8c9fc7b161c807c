package question_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/question"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
)

func TestParse_JSONAndYAMLAgree(t *testing.T) {
	jsonSet, err := question.Parse(testsupport.LoadDocument(t, testsupport.Path("questions.json")))
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	yamlSet, err := question.Parse(testsupport.LoadDocument(t, testsupport.Path("questions.yaml")))
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}

	if diff := cmp.Diff(testsupport.SampleSet(), jsonSet); diff != "" {
		t.Fatalf("json set mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(jsonSet, yamlSet); diff != "" {
		t.Fatalf("yaml set mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_ReportsStructuralIssues(t *testing.T) {
	_, err := question.Parse(testsupport.LoadDocument(t, testsupport.Path("invalid.json")))
	var verr *question.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	want := []question.Issue{
		{Path: "/questions/0/subTypes/0/options", Message: "radio field requires options"},
		{Path: "/questions/1/id", Message: `duplicate question id "a" (first at /questions/0)`},
	}
	if diff := cmp.Diff(want, verr.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBytes_SchemaViolation(t *testing.T) {
	_, err := question.ParseBytes([]byte(`{"questions": [{"id": "", "subTypes": []}]}`), "inline")
	var verr *question.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) == 0 {
		t.Fatalf("expected schema issues")
	}
	if verr.Source != "inline" {
		t.Fatalf("unexpected source %q", verr.Source)
	}
}

func TestParseBytes_RejectsGarbage(t *testing.T) {
	cases := map[string]string{
		"empty":     "   ",
		"not a doc": "{{{",
		"missing":   `{"pages": []}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := question.ParseBytes([]byte(raw), "inline"); err == nil {
				t.Fatalf("expected error for %q", raw)
			}
		})
	}
}

func TestCheck_FieldIDs(t *testing.T) {
	set := question.Set{Questions: []question.Question{{
		ID: "p",
		Fields: []question.Field{
			{ID: "a", Type: question.FieldTypeText},
			{ID: "a", Type: question.FieldTypeText},
			{ID: "b.c", Type: question.FieldTypeText},
			{ID: " ", Type: question.FieldTypeText},
		},
	}}}

	want := []question.Issue{
		{Path: "/questions/0/subTypes/1/id", Message: `duplicate field id "a"`},
		{Path: "/questions/0/subTypes/2/id", Message: `field id "b.c" must not contain '.'`},
		{Path: "/questions/0/subTypes/3/id", Message: "field id is required"},
	}
	if diff := cmp.Diff(want, question.Check(set)); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBytes_UnknownFieldTypeAccepted(t *testing.T) {
	set := testsupport.MustParseSet(t, `
questions:
  - id: p
    subTypes:
      - {id: color, label: Colour, type: color-picker}
`)
	field, ok := set.Questions[0].Field("color")
	if !ok {
		t.Fatalf("field not found")
	}
	if field.Type.Known() {
		t.Fatalf("expected unknown type")
	}
}
