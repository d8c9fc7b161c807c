package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/render"
	rendertemplate "github.com/goliatone/go-formwizard/pkg/render/template"
	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla/components"
)

type componentRenderer struct {
	templates      rendertemplate.TemplateRenderer
	registry       *components.Registry
	partials       map[string]string
	usedComponents map[string]struct{}
	order          []string
}

func newComponentRenderer(templates rendertemplate.TemplateRenderer, registry *components.Registry, partials map[string]string) *componentRenderer {
	return &componentRenderer{
		templates:      templates,
		registry:       registry,
		partials:       partials,
		usedComponents: make(map[string]struct{}),
	}
}

// render returns the complete markup of one field: chrome, control, and
// error message.
func (r *componentRenderer) render(field render.FieldView) (string, error) {
	name := components.ForInput(field.Input)
	descriptor, ok := r.registry.Descriptor(name)
	if !ok {
		return "", fmt.Errorf("vanilla renderer: component %q not registered for field %q", name, field.ID)
	}

	var buf bytes.Buffer
	err := descriptor.Renderer(&buf, field, components.ComponentData{
		Template:      r.templates,
		ThemePartials: r.partials,
		ControlID:     componentControlID(field.Name),
		ErrorID:       componentErrorID(field.Name),
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: field %q: %w", field.ID, err)
	}

	if _, seen := r.usedComponents[name]; !seen {
		r.usedComponents[name] = struct{}{}
		r.order = append(r.order, name)
	}
	return buildFieldMarkup(field, name, buf.String()), nil
}

func (r *componentRenderer) stylesheets() []string {
	return r.registry.Stylesheets(r.order)
}

func buildFieldMarkup(field render.FieldView, componentName, control string) string {
	grouped := !labelSupportsFor(componentName)

	var builder strings.Builder
	builder.Grow(len(control) + 256)

	if grouped {
		builder.WriteString(`<fieldset class="`)
		builder.WriteString(string(ClassFieldset))
	} else {
		builder.WriteString(`<div class="`)
		builder.WriteString(string(ClassField))
	}
	if field.Error != "" {
		builder.WriteString(` is-invalid`)
	}
	builder.WriteString(`" data-component="`)
	builder.WriteString(html.EscapeString(componentName))
	builder.WriteString(`" data-field="`)
	builder.WriteString(html.EscapeString(field.ID))
	builder.WriteString(`"`)
	if grouped {
		builder.WriteString(` aria-labelledby="`)
		builder.WriteString(html.EscapeString(componentLabelID(field.Name)))
		builder.WriteString(`"`)
	}
	builder.WriteString(">\n")

	if label := sanitizeLabel(field.Label); label != "" {
		if grouped {
			builder.WriteString(`    <legend id="`)
			builder.WriteString(html.EscapeString(componentLabelID(field.Name)))
			builder.WriteString(`" class="`)
		} else {
			builder.WriteString(`    <label for="`)
			builder.WriteString(html.EscapeString(componentControlID(field.Name)))
			builder.WriteString(`" class="`)
		}
		builder.WriteString(string(ClassLabel))
		builder.WriteString(`">`)
		builder.WriteString(label)
		if field.Required {
			builder.WriteString(` <span class="formwizard-required" aria-hidden="true">*</span>`)
		}
		if grouped {
			builder.WriteString("</legend>\n")
		} else {
			builder.WriteString("</label>\n")
		}
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if msg := strings.TrimSpace(field.Error); msg != "" {
		builder.WriteString(`    <p id="`)
		builder.WriteString(html.EscapeString(componentErrorID(field.Name)))
		builder.WriteString(`" class="`)
		builder.WriteString(string(ClassError))
		builder.WriteString(`" role="alert">`)
		builder.WriteString(html.EscapeString(msg))
		builder.WriteString("</p>\n")
	}

	if grouped {
		builder.WriteString("</fieldset>\n")
	} else {
		builder.WriteString("</div>\n")
	}
	return builder.String()
}
