package render

import (
	"context"

	"github.com/goliatone/go-formdisplay/pkg/model"
)

// Renderer turns a form and its answers into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.Form, options RenderOptions) ([]byte, error)
}
