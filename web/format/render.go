package format

import (
	"github.com/gomarkdown/markdown"
)

// RenderHTML renders normalized assistant text as HTML for the rendered
// response field. Math delimiters are preserved literally for the client's
// math renderer.
func RenderHTML(text string) string {
	if text == "" {
		return ""
	}
	return string(markdown.ToHTML([]byte(text), nil, nil))
}
