package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

// DefaultPlotlyURL is the plotly.js bundle loaded by generated pages.
const DefaultPlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// ClickPath is the endpoint the interactive page posts click data to.
const ClickPath = "/api/click"

//go:embed templates/page.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

// PageOptions controls WritePage.
type PageOptions struct {
	// Interactive adds the click detail panel and its POST handler.
	Interactive bool
	PlotlyURL   string
	// Title is the document title; defaults to the figure title.
	Title string
}

type pageData struct {
	Title       string
	PlotlyURL   string
	Interactive bool
	NoSelection string
	ClickPath   string
	Figure      *Figure
}

// WritePage renders fig as a self-contained HTML document.
func WritePage(w io.Writer, fig *Figure, opts PageOptions) error {
	if fig == nil {
		return fmt.Errorf("nil figure")
	}
	data := pageData{
		Title:       opts.Title,
		PlotlyURL:   opts.PlotlyURL,
		Interactive: opts.Interactive,
		NoSelection: NoSelectionText,
		ClickPath:   ClickPath,
		Figure:      fig,
	}
	if data.Title == "" {
		data.Title = fig.Layout.Title.Text
	}
	if data.PlotlyURL == "" {
		data.PlotlyURL = DefaultPlotlyURL
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}
