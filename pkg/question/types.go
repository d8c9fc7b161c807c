package question

import "strings"

// FieldType names the input kind declared by a field.
type FieldType string

const (
	FieldTypeText           FieldType = "text"
	FieldTypeTextArea       FieldType = "textarea"
	FieldTypeEmail          FieldType = "email"
	FieldTypeCheckbox       FieldType = "checkbox"
	FieldTypeRadio          FieldType = "radio"
	FieldTypeSelect         FieldType = "select"
	FieldTypeComplexAddress FieldType = "complex-address"
)

// Known reports whether the type is one of the built-in field kinds. Unknown
// kinds are still accepted and handled like text inputs.
func (t FieldType) Known() bool {
	switch t {
	case FieldTypeText, FieldTypeTextArea, FieldTypeEmail, FieldTypeCheckbox,
		FieldTypeRadio, FieldTypeSelect, FieldTypeComplexAddress:
		return true
	default:
		return false
	}
}

// Option is a selectable value for radio and select fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Field is a single input on a question page.
type Field struct {
	ID       string    `json:"id" yaml:"id"`
	Label    string    `json:"label" yaml:"label"`
	Type     FieldType `json:"type" yaml:"type"`
	Required bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Options  []Option  `json:"options,omitempty" yaml:"options,omitempty"`
}

// DisplayLabel returns the label, falling back to the field id.
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.ID
}

// OptionLabel resolves the label for an option value. Unknown values are
// returned unchanged.
func (f Field) OptionLabel(value string) string {
	for _, opt := range f.Options {
		if opt.Value == value {
			if opt.Label != "" {
				return opt.Label
			}
			return opt.Value
		}
	}
	return value
}

// HasOption reports whether value is one of the declared options.
func (f Field) HasOption(value string) bool {
	return ContainsOption(f.Options, value)
}

// ContainsOption reports whether value matches one of opts.
func ContainsOption(opts []Option, value string) bool {
	for _, opt := range opts {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// IsChoice reports whether the field type restricts values to its options.
func (t FieldType) IsChoice() bool {
	return t == FieldTypeRadio || t == FieldTypeSelect
}

// Question is one wizard page. The JSON key for Fields is "subTypes" to match
// the published document format.
type Question struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Type   string  `json:"type" yaml:"type"`
	Fields []Field `json:"subTypes" yaml:"subTypes"`
}

// Field looks up a field by id.
func (q Question) Field(id string) (Field, bool) {
	for _, field := range q.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// Clone returns a deep copy so callers cannot mutate loaded questions.
func (q Question) Clone() Question {
	out := q
	if q.Fields != nil {
		out.Fields = make([]Field, len(q.Fields))
		for i, field := range q.Fields {
			clone := field
			if field.Options != nil {
				clone.Options = append([]Option(nil), field.Options...)
			}
			out.Fields[i] = clone
		}
	}
	return out
}

// Set is the parsed question document: `{questions: [...]}`.
type Set struct {
	Questions []Question `json:"questions" yaml:"questions"`
}

// Clone deep copies every question in the set.
func (s Set) Clone() Set {
	if s.Questions == nil {
		return Set{}
	}
	out := Set{Questions: make([]Question, len(s.Questions))}
	for i, q := range s.Questions {
		out.Questions[i] = q.Clone()
	}
	return out
}
