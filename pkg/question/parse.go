package question

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/internal/docschema"
)

// Parse decodes a loaded Document into a question Set.
func Parse(doc Document) (Set, error) {
	return ParseBytes(doc.Raw(), doc.Location())
}

// ParseBytes decodes JSON or YAML question payloads. The decoded tree is
// checked against the document schema before structural checks (unique ids,
// option lists) run, and every issue found is reported at once.
func ParseBytes(data []byte, source string) (Set, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Set{}, fmt.Errorf("question: document %s is empty", source)
	}

	normalized, err := normalize(data)
	if err != nil {
		return Set{}, fmt.Errorf("question: parse %s: %w", source, err)
	}

	var tree any
	if err := json.Unmarshal(normalized, &tree); err != nil {
		return Set{}, fmt.Errorf("question: parse %s: %w", source, err)
	}

	schemaIssues, err := docschema.Check(tree)
	if err != nil {
		return Set{}, err
	}
	if len(schemaIssues) > 0 {
		issues := make([]Issue, 0, len(schemaIssues))
		for _, issue := range schemaIssues {
			issues = append(issues, Issue{Path: issue.Path, Message: issue.Message})
		}
		return Set{}, &ValidationError{Source: source, Issues: issues}
	}

	var set Set
	if err := json.Unmarshal(normalized, &set); err != nil {
		return Set{}, fmt.Errorf("question: decode %s: %w", source, err)
	}

	if issues := Check(set); len(issues) > 0 {
		return Set{}, &ValidationError{Source: source, Issues: issues}
	}
	return set, nil
}

// normalize returns a JSON encoding of the payload. JSON input passes through;
// YAML input is decoded and re-encoded so both formats share one schema check.
func normalize(data []byte) ([]byte, error) {
	if json.Valid(data) {
		return data, nil
	}

	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("invalid JSON or YAML: %w", err)
	}
	out, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("yaml to json: %w", err)
	}
	return out, nil
}

// Check runs the structural rules a schema cannot express: unique question
// ids, unique field ids per question, and options for choice fields.
func Check(set Set) []Issue {
	var issues []Issue
	seenQuestions := make(map[string]int, len(set.Questions))

	for qi, q := range set.Questions {
		qPath := fmt.Sprintf("/questions/%d", qi)
		id := strings.TrimSpace(q.ID)
		if id == "" {
			issues = append(issues, Issue{Path: qPath + "/id", Message: "question id is required"})
		} else if prev, ok := seenQuestions[id]; ok {
			issues = append(issues, Issue{
				Path:    qPath + "/id",
				Message: fmt.Sprintf("duplicate question id %q (first at /questions/%d)", id, prev),
			})
		} else {
			seenQuestions[id] = qi
		}

		seenFields := make(map[string]struct{}, len(q.Fields))
		for fi, field := range q.Fields {
			fPath := fmt.Sprintf("%s/subTypes/%d", qPath, fi)
			fid := strings.TrimSpace(field.ID)
			if fid == "" {
				issues = append(issues, Issue{Path: fPath + "/id", Message: "field id is required"})
				continue
			}
			if strings.Contains(fid, ".") {
				issues = append(issues, Issue{Path: fPath + "/id", Message: fmt.Sprintf("field id %q must not contain '.'", fid)})
			}
			if _, ok := seenFields[fid]; ok {
				issues = append(issues, Issue{Path: fPath + "/id", Message: fmt.Sprintf("duplicate field id %q", fid)})
			}
			seenFields[fid] = struct{}{}

			if field.Type.IsChoice() && len(field.Options) == 0 {
				issues = append(issues, Issue{Path: fPath + "/options", Message: fmt.Sprintf("%s field requires options", field.Type)})
			}
		}
	}
	return issues
}
