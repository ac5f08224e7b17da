package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"goanova/models"
)

func fptr(v float64) *float64 { return &v }

func sampleRun() *models.Run {
	return &models.Run{
		ID:        "run-1",
		Source:    "yield.csv",
		Response:  "Yield",
		Factors:   "Treatment,Block",
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Effects: []models.RunEffect{
			{Position: 0, Name: "Total", SS: 112, DF: 7},
			{Position: 1, Name: "Treatment", SS: 72, DF: 1, MS: fptr(72), F: fptr(36), P: fptr(0.003883)},
			{Position: 2, Name: "Error", SS: 8, DF: 4, MS: fptr(2)},
		},
	}
}

func TestMarkdownTable(t *testing.T) {
	md := Markdown(sampleRun())

	assert.Contains(t, md, "# ANOVA: Yield")
	assert.Contains(t, md, "**Factors:** Treatment, Block")
	assert.Contains(t, md, "| Treatment | 72 | 1 | 72 | 36 | 0.003883 |")
	assert.Contains(t, md, "| Total | 112 | 7 |  |  |  |")
	assert.Contains(t, md, "| Error | 8 | 4 | 2 |  |  |")
}

func TestHTMLRendersTable(t *testing.T) {
	out := string(HTML(sampleRun()))

	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>Treatment</td>")
	assert.Contains(t, out, "<h1>ANOVA: Yield</h1>")
}
