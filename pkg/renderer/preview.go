package renderer

import (
	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"
)

// PreviewWidth is the wrap width of terminal previews.
const PreviewWidth = 100

// Preview renders markdown for the terminal. style is a glamour style name
// such as "dark", "light" or "notty"; empty picks one from the terminal.
func Preview(markdown, style string) (out string, err error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(PreviewWidth)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	var r *glamour.TermRenderer
	r, err = glamour.NewTermRenderer(opts...)
	if err != nil {
		err = errors.Wrap(err, "failed to create terminal renderer")
		return out, err
	}

	out, err = r.Render(markdown)
	if err != nil {
		err = errors.Wrap(err, "failed to render preview")
		return out, err
	}
	return out, err
}
