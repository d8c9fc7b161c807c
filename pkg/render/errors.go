package render

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/question"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// ErrorMapping splits validation errors into messages attached to a field,
// messages attached to an address subfield, and page-level messages.
type ErrorMapping struct {
	Fields map[string]string
	Sub    map[string]map[string]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrors attaches validation messages to the fields of q. Keys accept the
// dotted form ("address.city") as well as JSON pointers ("/address/city").
// Keys that name no field of q are kept as form-level messages so nothing is
// lost.
func MapErrors(q question.Question, errs validation.Errors) ErrorMapping {
	mapping := ErrorMapping{}
	if len(errs) == 0 {
		return mapping
	}

	for _, key := range errs.Keys() {
		message := strings.TrimSpace(errs[key])
		if message == "" {
			continue
		}

		segments := parsePathSegments(key)
		if len(segments) == 0 || len(segments) > 2 {
			mapping.Form = append(mapping.Form, message)
			continue
		}
		field, ok := q.Field(segments[0])
		if !ok {
			mapping.Form = append(mapping.Form, message)
			continue
		}

		if len(segments) == 1 {
			if mapping.Fields == nil {
				mapping.Fields = make(map[string]string)
			}
			mapping.Fields[field.ID] = message
			continue
		}
		if field.Type != question.FieldTypeComplexAddress {
			mapping.Form = append(mapping.Form, message)
			continue
		}
		if mapping.Sub == nil {
			mapping.Sub = make(map[string]map[string]string)
		}
		if mapping.Sub[field.ID] == nil {
			mapping.Sub[field.ID] = make(map[string]string)
		}
		mapping.Sub[field.ID][segments[1]] = message
	}

	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimPrefix(clean, "#")
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
