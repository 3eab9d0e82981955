package handler

import (
	"fmt"
	"html"
	"strings"

	"github.com/Ra7ch/LeetSol/backend/model"
)

// RenderReport turns the dispatcher's findings into the HTML fragment the
// frontend embeds. Pure formatting: the pipeline itself only ever handles
// the plain findings slice.
func RenderReport(findings []model.Finding) string {
	if len(findings) == 0 {
		return `<p style="color: green; font-weight: bold;">No vulnerabilities found.</p>`
	}

	var b strings.Builder
	for _, finding := range findings {
		b.WriteString(fmt.Sprintf(`<p style="color: red; font-weight: bold;">- %s</p>`, html.EscapeString(finding)))
	}
	return b.String()
}
