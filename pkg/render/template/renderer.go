package template

import (
	"io"
)

// TemplateRenderer executes named templates or inline template strings against
// a data value. Optional writers receive the rendered output as well.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
