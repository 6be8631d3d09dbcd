package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"

	"github.com/rpgo/roth-optimizer/internal/domain"
)

// HTMLFormatter produces a standalone HTML report. The spread series is
// embedded as JSON for charting in the browser.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string      { return "html" }
func (h HTMLFormatter) Extension() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatWholeCurrency,
	"pct":  FormatPercentage,
	"rate": FormatRate,
	"add":  func(i, j int) int { return i + j },
	"json": scriptJSON,
}).Parse(htmlTemplateSource))

// scriptJSON encodes v for a script block. An error aborts template execution.
func scriptJSON(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

func (h HTMLFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	if report == nil || report.Comparison == nil {
		report = &domain.Report{Comparison: &domain.Comparison{}}
	}
	cmp := report.Comparison

	var top []domain.GridCell
	if report.Search != nil {
		top = report.Search.Top(report.TopN)
	}

	data := struct {
		*domain.Report
		Recommendation Recommendation
		Assumptions    []string
		Top            []domain.GridCell
	}{report, AnalyzeReport(report), GenerateAssumptions(cmp.Parameters, cmp.Policies), top}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
