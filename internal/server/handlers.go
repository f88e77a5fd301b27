package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/retailreboot/retailreboot/pkg/buildinfo"
	"github.com/retailreboot/retailreboot/pkg/chart"
	"github.com/retailreboot/retailreboot/pkg/dataset"
	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
	"github.com/retailreboot/retailreboot/pkg/network"
	"github.com/retailreboot/retailreboot/pkg/pipeline"
)

// maxBodySize limits POST bodies.
const maxBodySize = 1 << 20

// fail logs server-side failures and writes the error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestIDFrom(r.Context()))
	}
	writeError(w, r, err)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Current()})
}

type cardView struct {
	dataset.Card
	TrendText string `json:"trend_text,omitempty"`
	Label     string `json:"label"`
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	cards := s.data.Cards
	if page := r.URL.Query().Get("page"); page != "" {
		cards = s.data.CardsFor(page)
	}
	out := make([]cardView, len(cards))
	for i, c := range cards {
		out[i] = cardView{Card: c, TrendText: c.TrendText(), Label: c.Label()}
	}
	writeJSON(w, http.StatusOK, out)
}

type chartSummary struct {
	Name      string     `json:"name"`
	Title     string     `json:"title"`
	Page      string     `json:"page,omitempty"`
	Mode      chart.Mode `json:"mode"`
	Points    int        `json:"points"`
	HasTarget bool       `json:"has_target"`
}

func (s *Server) handleListCharts(w http.ResponseWriter, r *http.Request) {
	charts := s.data.Charts
	if page := r.URL.Query().Get("page"); page != "" {
		charts = s.data.ChartsFor(page)
	}
	out := make([]chartSummary, len(charts))
	for i, c := range charts {
		out[i] = chartSummary{
			Name:      c.Name,
			Title:     c.DisplayTitle(),
			Page:      c.Page,
			Mode:      c.Mode,
			Points:    len(c.Values),
			HasTarget: c.Target != nil,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	c, err := s.data.Chart(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	format, err := singleFormat(q.Get("format"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	width, height, err := s.size(q.Get("width"), q.Get("height"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	mode := c.Mode
	if m := q.Get("mode"); m != "" {
		mode = chart.Mode(m)
	}

	req := pipeline.ChartRequest{
		Name:   c.Name,
		Series: c.Series(),
		Mode:   mode,
		Options: pipeline.Options{
			Formats: []string{format},
			Width:   width,
			Height:  height,
			Title:   c.DisplayTitle(),
			Color:   c.Color,
			Logger:  s.logger,
		},
	}
	s.renderChart(w, r, req)
}

// renderSeriesBody is the POST /api/charts/render payload.
type renderSeriesBody struct {
	Series chart.Series `json:"series"`
	Mode   string       `json:"mode"`
	Format string       `json:"format"`
	Title  string       `json:"title"`
	Color  string       `json:"color"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
}

func (s *Server) handleRenderSeries(w http.ResponseWriter, r *http.Request) {
	var body renderSeriesBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.fail(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	format, err := singleFormat(body.Format)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if body.Mode == "" {
		body.Mode = string(chart.ModeBar)
	}
	width, height := body.Width, body.Height
	if width == 0 {
		width = s.opts.Width
	}
	if height == 0 {
		height = s.opts.Height
	}

	s.renderChart(w, r, pipeline.ChartRequest{
		Series: body.Series,
		Mode:   chart.Mode(body.Mode),
		Options: pipeline.Options{
			Formats: []string{format},
			Width:   width,
			Height:  height,
			Title:   body.Title,
			Color:   body.Color,
			Logger:  s.logger,
		},
	})
}

func (s *Server) renderChart(w http.ResponseWriter, r *http.Request, req pipeline.ChartRequest) {
	res, err := s.runner.RenderChart(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	format := req.Formats[0]
	writeArtifact(w, format, res.Artifacts[format], res.CacheInfo.Hit)
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, err := singleFormat(q.Get("format"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	req, err := s.networkRequest(r, format)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	req.VizType = q.Get("viz")

	res, err := s.runner.RenderNetwork(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeArtifact(w, format, res.Artifacts[format], res.CacheInfo.Hit)
}

// networkRequest builds a map request from the query string:
// types=supplier,retail issues=true selected=<id> zoom=1.2 width= height=.
func (s *Server) networkRequest(r *http.Request, format string) (pipeline.NetworkRequest, error) {
	q := r.URL.Query()
	nodes, conns, err := s.network.Load(r.Context())
	if err != nil {
		return pipeline.NetworkRequest{}, err
	}

	types, err := network.ParseTypeSet(q.Get("types"))
	if err != nil {
		return pipeline.NetworkRequest{}, err
	}
	issues, err := parseBool(q.Get("issues"))
	if err != nil {
		return pipeline.NetworkRequest{}, err
	}
	zoom := network.DefaultZoom
	if z := q.Get("zoom"); z != "" {
		v, err := strconv.ParseFloat(z, 64)
		if err != nil {
			return pipeline.NetworkRequest{}, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid zoom: %q", z)
		}
		zoom = network.ClampZoom(v)
	}
	width, height, err := parseSize(q.Get("width"), q.Get("height"))
	if err != nil {
		return pipeline.NetworkRequest{}, err
	}

	return pipeline.NetworkRequest{
		Nodes:       nodes,
		Connections: conns,
		Filter:      &network.Filter{Types: types, IssuesOnly: issues},
		Selected:    q.Get("selected"),
		Zoom:        zoom,
		Options: pipeline.Options{
			Formats: []string{format},
			Width:   width,
			Height:  height,
			Logger:  s.logger,
		},
	}, nil
}

func (s *Server) handleNodeDetails(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := apperrors.ValidateID(id); err != nil {
		s.fail(w, r, err)
		return
	}
	nodes, conns, err := s.network.Load(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d, ok := network.Describe(nodes, conns, id)
	if !ok {
		s.fail(w, r, apperrors.New(apperrors.ErrCodeNodeNotFound, "node not found: %s", id))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// singleFormat validates a one-format query value, defaulting to svg.
// Whether the format suits the visualization is checked by the pipeline.
func singleFormat(f string) (string, error) {
	f = strings.ToLower(strings.TrimSpace(f))
	if f == "" {
		return pipeline.FormatSVG, nil
	}
	if strings.Contains(f, ",") {
		return "", apperrors.New(apperrors.ErrCodeInvalidFormat, "request one format at a time")
	}
	if _, ok := contentTypes[f]; !ok {
		return "", apperrors.New(apperrors.ErrCodeInvalidFormat, "invalid format: %q", f)
	}
	return f, nil
}

// size parses width/height, falling back to the server's chart defaults.
func (s *Server) size(w, h string) (float64, float64, error) {
	width, height, err := parseSize(w, h)
	if err != nil {
		return 0, 0, err
	}
	if width == 0 {
		width = s.opts.Width
	}
	if height == 0 {
		height = s.opts.Height
	}
	return width, height, nil
}

func parseSize(w, h string) (float64, float64, error) {
	parse := func(name, v string) (float64, error) {
		if v == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid %s: %q", name, v)
		}
		return f, nil
	}
	width, err := parse("width", w)
	if err != nil {
		return 0, 0, err
	}
	height, err := parse("height", h)
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

func parseBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid boolean: %q", v)
	}
	return b, nil
}
