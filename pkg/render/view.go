package render

import (
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formwizard/pkg/preferences"
	"github.com/goliatone/go-formwizard/pkg/question"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/values"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Input kinds used by templates and prompt drivers.
const (
	InputText     = "text"
	InputEmail    = "email"
	InputTextArea = "textarea"
	InputCheckbox = "checkbox"
	InputRadio    = "radio"
	InputSelect   = "select"
	InputAddress  = "address"
)

// View is a renderer-neutral snapshot of the active page.
type View struct {
	Status        string      `json:"status"`
	LoadError     string      `json:"loadError,omitempty"`
	QuestionID    string      `json:"questionId,omitempty"`
	Title         string      `json:"title,omitempty"`
	Position      int         `json:"position"`
	Total         int         `json:"total"`
	Percent       int         `json:"percent"`
	Path          string      `json:"path"`
	ActionPath    string      `json:"actionPath"`
	CanGoNext     bool        `json:"canGoNext"`
	CanGoPrevious bool        `json:"canGoPrevious"`
	IsLast        bool        `json:"isLast"`
	Submitted     bool        `json:"submitted"`
	SubmissionID  string      `json:"submissionId,omitempty"`
	Fields        []FieldView `json:"fields,omitempty"`
	FormErrors    []string    `json:"formErrors,omitempty"`
	Notice        string      `json:"notice,omitempty"`
	Theme         ThemeView   `json:"theme"`
	Preferences   *PrefsView  `json:"preferences,omitempty"`
}

// PrefsView drives the theme toggle and font size picker.
type PrefsView struct {
	Theme        string       `json:"theme"`
	NextTheme    string       `json:"nextTheme"`
	FontSize     string       `json:"fontSize"`
	FontSizes    []OptionView `json:"fontSizes"`
	ThemePath    string       `json:"themePath"`
	FontSizePath string       `json:"fontSizePath"`
}

// FieldView describes one input.
type FieldView struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Label     string         `json:"label"`
	Type      string         `json:"type"`
	Input     string         `json:"input"`
	Required  bool           `json:"required"`
	Value     string         `json:"value"`
	Checked   bool           `json:"checked"`
	Options   []OptionView   `json:"options,omitempty"`
	Error     string         `json:"error,omitempty"`
	Subfields []SubfieldView `json:"subfields,omitempty"`
}

// SubfieldView describes one address input.
type SubfieldView struct {
	Key      string       `json:"key"`
	Name     string       `json:"name"`
	Label    string       `json:"label"`
	Input    string       `json:"input"`
	Required bool         `json:"required"`
	Value    string       `json:"value"`
	Options  []OptionView `json:"options,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// OptionView is a selectable choice.
type OptionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// ThemeView carries the resolved theme for templates.
type ThemeView struct {
	Name       string   `json:"name,omitempty"`
	Variant    string   `json:"variant,omitempty"`
	CSSVars    []CSSVar `json:"cssVars,omitempty"`
	Style      string   `json:"style,omitempty"`
	Stylesheet string   `json:"stylesheet,omitempty"`
}

// CSSVar is a custom property declaration.
type CSSVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// BuildView snapshots the session for rendering.
func BuildView(session *wizard.Session, opts RenderOptions) View {
	view := View{
		Status:     string(session.Status()),
		LoadError:  session.ErrorMessage(),
		Path:       session.Path(),
		FormErrors: normalizeMessages(opts.FormErrors),
		Notice:     strings.TrimSpace(opts.Notice),
		Theme:      BuildThemeView(opts.Theme),
	}
	if opts.Preferences != nil {
		view.Preferences = buildPrefs(*opts.Preferences, opts.PreferencesPath)
	}
	view.ActionPath = opts.ActionPath
	if view.ActionPath == "" {
		view.ActionPath = view.Path
	}
	if sub, ok := session.Submission(); ok {
		view.Submitted = true
		view.SubmissionID = sub.ID
	}

	q, ok := session.Current()
	if !ok {
		return view
	}

	view.QuestionID = q.ID
	view.Title = q.Name
	if view.Title == "" {
		view.Title = q.ID
	}
	view.Position, view.Total = session.Progress()
	if view.Total > 0 {
		view.Percent = view.Position * 100 / view.Total
	}
	view.CanGoNext = session.CanGoNext()
	view.CanGoPrevious = session.CanGoPrevious()
	view.IsLast = session.IsLast()

	mapping := MapErrors(q, session.Errors())
	view.FormErrors = MergeFormErrors(view.FormErrors, mapping.Form...)

	page := session.PageValues(q.ID)
	view.Fields = make([]FieldView, 0, len(q.Fields))
	for _, field := range q.Fields {
		view.Fields = append(view.Fields, buildField(field, page[field.ID], mapping))
	}
	return view
}

func buildField(field question.Field, value values.Value, mapping ErrorMapping) FieldView {
	fv := FieldView{
		ID:       field.ID,
		Name:     field.ID,
		Label:    field.DisplayLabel(),
		Type:     string(field.Type),
		Input:    InputFor(field.Type),
		Required: field.Required,
		Error:    mapping.Fields[field.ID],
	}

	switch fv.Input {
	case InputCheckbox:
		fv.Checked, _ = value.AsFlag()
		if fv.Checked {
			fv.Value = "true"
		}
	case InputAddress:
		addr, ok := value.AsAddress()
		if !ok {
			addr = values.NewAddress()
		}
		fv.Value = addr.String()
		fv.Subfields = buildSubfields(field, addr, mapping.Sub[field.ID])
	default:
		fv.Value, _ = value.AsText()
		fv.Options = buildOptions(field.Options, fv.Value)
	}
	return fv
}

func buildSubfields(field question.Field, addr values.Address, errs map[string]string) []SubfieldView {
	out := make([]SubfieldView, 0, len(values.AddressFields))
	for _, key := range values.AddressFields {
		raw, _ := addr.Get(key)
		sub := SubfieldView{
			Key:      key,
			Name:     field.ID + "." + key,
			Label:    validation.SubfieldLabel(key),
			Input:    InputText,
			Required: field.Required && isRequiredSubfield(key),
			Value:    raw,
			Error:    errs[key],
		}
		if options := AddressOptions(key); options != nil {
			sub.Input = InputSelect
			sub.Options = buildOptions(options, raw)
		}
		out = append(out, sub)
	}
	return out
}

// AddressOptions returns the fixed choices for an address subfield, or nil for
// free text subfields.
func AddressOptions(key string) []question.Option {
	return values.SubfieldOptions(key)
}

func isRequiredSubfield(key string) bool {
	for _, k := range validation.RequiredAddressFields {
		if k == key {
			return true
		}
	}
	return false
}

func buildOptions(options []question.Option, selected string) []OptionView {
	if len(options) == 0 {
		return nil
	}
	out := make([]OptionView, 0, len(options))
	for _, opt := range options {
		label := opt.Label
		if label == "" {
			label = opt.Value
		}
		out = append(out, OptionView{Value: opt.Value, Label: label, Selected: opt.Value == selected})
	}
	return out
}

func buildPrefs(snap preferences.Snapshot, base string) *PrefsView {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultPreferencesPath
	}
	out := &PrefsView{
		Theme:        string(snap.Theme),
		NextTheme:    string(snap.Theme.Toggle()),
		FontSize:     string(snap.FontSize),
		ThemePath:    base + "/theme",
		FontSizePath: base + "/font-size",
	}
	for _, size := range preferences.FontSizes {
		out.FontSizes = append(out.FontSizes, OptionView{
			Value:    string(size),
			Label:    strings.ToUpper(string(size[:1])) + string(size[1:]),
			Selected: size == snap.FontSize,
		})
	}
	return out
}

// InputFor maps a field type onto an input kind. Unknown types render as text.
func InputFor(t question.FieldType) string {
	switch t {
	case question.FieldTypeEmail:
		return InputEmail
	case question.FieldTypeTextArea:
		return InputTextArea
	case question.FieldTypeCheckbox:
		return InputCheckbox
	case question.FieldTypeRadio:
		return InputRadio
	case question.FieldTypeSelect:
		return InputSelect
	case question.FieldTypeComplexAddress:
		return InputAddress
	default:
		return InputText
	}
}

// BuildThemeView flattens a renderer config for templates.
func BuildThemeView(cfg *theme.RendererConfig) ThemeView {
	if cfg == nil {
		return ThemeView{}
	}
	view := ThemeView{Name: cfg.Theme, Variant: cfg.Variant}

	parts := make([]string, 0, len(cfg.CSSVars))
	for _, name := range sortedKeys(cfg.CSSVars) {
		value := cfg.CSSVars[name]
		view.CSSVars = append(view.CSSVars, CSSVar{Name: name, Value: value})
		parts = append(parts, name+": "+value)
	}
	view.Style = strings.Join(parts, "; ")

	if cfg.AssetURL != nil {
		view.Stylesheet = cfg.AssetURL("stylesheet")
	}
	return view
}
