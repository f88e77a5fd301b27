package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/retailreboot/retailreboot/pkg/dataset"
	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
	"github.com/retailreboot/retailreboot/pkg/network"
	"github.com/retailreboot/retailreboot/pkg/pipeline"
	"github.com/retailreboot/retailreboot/pkg/render/styles"
)

// PageNetwork shows the supply-chain map.
const PageNetwork = "network"

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var dashboardTmpl = template.Must(template.New("dashboard.html.tmpl").Funcs(template.FuncMap{
	"color":  styles.CardColor,
	"toggle": network.ToggleSelection,
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
}).ParseFS(templateFS, "templates/dashboard.html.tmpl"))

type dashboardView struct {
	Name     string
	Page     string
	Pages    []string
	Cards    []dataset.Card
	Charts   []chartPanel
	Insights []dataset.Insight
	Map      template.HTML
	Nodes    []network.Node
	Selected string
	Details  *network.Details
	Filter   network.Filter
	Zoom     network.Zoom
}

type chartPanel struct {
	Name  string
	Title string
	SVG   template.HTML
}

// handleDashboard renders the HTML page. Charts and the map are inlined as
// SVG produced by the same pipeline as the API.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")
	if page == "" {
		page = dataset.PageDashboard
	}

	view := dashboardView{
		Name:  s.data.Name,
		Page:  page,
		Pages: append(s.data.Pages(), PageNetwork),
	}

	if page == PageNetwork {
		req, err := s.networkRequest(r, pipeline.FormatSVG)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		res, err := s.runner.RenderNetwork(r.Context(), req)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		view.Map = template.HTML(res.Artifacts[pipeline.FormatSVG])
		view.Nodes = res.Layout.Nodes
		view.Selected = req.Selected
		view.Details = res.Details
		view.Filter = *req.Filter
		view.Zoom = req.Zoom
	} else {
		charts := s.data.ChartsFor(page)
		cards := s.data.CardsFor(page)
		if len(charts) == 0 && len(cards) == 0 {
			s.fail(w, r, apperrors.New(apperrors.ErrCodeNotFound, "page not found: %s", page))
			return
		}
		view.Cards = cards
		if page == dataset.PageAnalytics || len(s.data.Pages()) == 1 {
			view.Insights = s.data.Insights
		}
		for _, c := range charts {
			res, err := s.runner.RenderChart(r.Context(), pipeline.ChartRequest{
				Name:   c.Name,
				Series: c.Series(),
				Mode:   c.Mode,
				Options: pipeline.Options{
					Formats: []string{pipeline.FormatSVG},
					Width:   s.opts.Width,
					Height:  s.opts.Height,
					Title:   c.DisplayTitle(),
					Color:   c.Color,
					Logger:  s.logger,
				},
			})
			if err != nil {
				s.fail(w, r, err)
				return
			}
			view.Charts = append(view.Charts, chartPanel{
				Name:  c.Name,
				Title: c.DisplayTitle(),
				SVG:   template.HTML(res.Artifacts[pipeline.FormatSVG]),
			})
		}
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, view); err != nil {
		s.fail(w, r, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render dashboard"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
