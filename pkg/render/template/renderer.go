package template

import (
	"io"
)

// TemplateRenderer is the seam the HTML renderer executes templates through.
// Data passed to RenderTemplate is converted through its JSON representation,
// so templates address fields by their json tag names.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	GlobalContext(data map[string]any) error
}
