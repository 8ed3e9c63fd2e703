package dashboard

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed page.html
var pageSource string

var pageTemplate = template.Must(template.New("page").Parse(pageSource))

// RenderPage writes the single dashboard page. The layout is embedded as
// JSON; the page fetches figures and table rows from the API.
func RenderPage(w io.Writer, layout Layout) error {
	if err := pageTemplate.Execute(w, layout); err != nil {
		return fmt.Errorf("render dashboard page: %w", err)
	}
	return nil
}
