// Package report renders analysis runs as Markdown and HTML tables.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"goanova/models"
)

// Markdown renders a run as a Markdown document with the ANOVA table.
func Markdown(run *models.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# ANOVA: %s\n\n", run.Response)
	fmt.Fprintf(&b, "- **Source:** %s\n", run.Source)
	fmt.Fprintf(&b, "- **Factors:** %s\n", strings.Join(run.FactorNames(), ", "))
	fmt.Fprintf(&b, "- **Run:** %s (%s)\n\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05 MST"))

	b.WriteString("| Effect | SS | df | MS | F | p |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, e := range run.Effects {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			e.Name,
			formatNum(e.SS),
			formatNum(e.DF),
			formatPtr(e.MS),
			formatPtr(e.F),
			formatPtr(e.P),
		)
	}
	return b.String()
}

// HTML renders the Markdown report as a standalone HTML fragment.
func HTML(run *models.Run) []byte {
	md := []byte(Markdown(run))
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML(md, p, renderer)
}

func formatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatNum(*v)
}

func formatNum(v float64) string {
	if v == float64(int64(v)) && v < 1e15 && v > -1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
