package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/retailreboot/retailreboot/pkg/chart"
	"github.com/retailreboot/retailreboot/pkg/dataset"
	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
	"github.com/retailreboot/retailreboot/pkg/pipeline"
)

// chartOpts holds the command-line flags for the chart command.
type chartOpts struct {
	values    string
	labels    string
	target    float64
	hasTarget bool
	mode      string
	formats   string
	output    string
	ascii     bool
	noCache   bool
	refresh   bool
	render    pipeline.Options
}

// chartCommand creates the chart command.
func (c *CLI) chartCommand() *cobra.Command {
	var opts chartOpts

	cmd := &cobra.Command{
		Use:   "chart [name]",
		Short: "Render a KPI chart",
		Long: `Render a KPI chart to SVG, PNG, PDF, JSON or ASCII.

Pass the name of a chart in the dataset (see 'retailreboot datasets list'),
or an ad-hoc series with --values. Bar charts draw the target as a solid
line; line and area charts draw it dashed.

Examples:
  retailreboot chart inventory -f svg,png
  retailreboot chart --values 64,58,75,80 --labels Q1,Q2,Q3,Q4 --target 70 --mode line
  retailreboot chart fulfillment --ascii`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeChartNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.hasTarget = cmd.Flags().Changed("target")
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return c.runChart(cmd.Context(), name, opts)
		},
	}

	cmd.Flags().StringVar(&opts.values, "values", "", "comma-separated series values")
	cmd.Flags().StringVar(&opts.labels, "labels", "", "comma-separated labels (default 1..N)")
	cmd.Flags().Float64Var(&opts.target, "target", 0, "target value drawn as a reference line")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "chart mode: bar, line, area (default: the chart's own, or bar)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, ascii (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&opts.ascii, "ascii", false, "print a terminal preview")
	cmd.Flags().Float64Var(&opts.render.Width, "width", 0, "image width in pixels")
	cmd.Flags().Float64Var(&opts.render.Height, "height", 0, "image height in pixels")
	cmd.Flags().StringVar(&opts.render.Title, "title", "", "chart title")
	cmd.Flags().StringVar(&opts.render.Color, "color", "", "series colour: palette name or #hex")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

// runChart resolves the series, renders it and writes the artifacts.
func (c *CLI) runChart(ctx context.Context, name string, opts chartOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	var req pipeline.ChartRequest
	switch {
	case opts.values != "":
		req, err = inlineChartRequest(name, opts)
	case name != "":
		d, derr := c.loadDataset(cfg)
		if derr != nil {
			return derr
		}
		ch, cerr := d.Chart(name)
		if cerr != nil {
			return cerr
		}
		req = datasetChartRequest(ch, opts)
	default:
		err = apperrors.New(apperrors.ErrCodeInvalidInput, "specify a chart name or --values")
	}
	if err != nil {
		return err
	}
	applySize(&req.Options, cfg.Render.Width, cfg.Render.Height)

	fileFormats := pipeline.ParseFormats(opts.formats)
	if len(fileFormats) == 0 && !opts.ascii {
		fileFormats = []string{pipeline.FormatSVG}
	}
	req.Formats = slices.Clone(fileFormats)
	if opts.ascii && !slices.Contains(req.Formats, pipeline.FormatASCII) {
		req.Formats = append(req.Formats, pipeline.FormatASCII)
	}
	req.Refresh = opts.refresh
	req.Logger = logger

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", req.Name))
	spinner.Start()

	res, err := runner.RenderChart(ctx, req)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render chart: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %s", req.Name))

	if opts.ascii {
		fmt.Fprintln(out, string(res.Artifacts[pipeline.FormatASCII]))
	}

	var paths []string
	if len(fileFormats) > 0 {
		paths, err = writeArtifacts(artifactWriteParams{
			artifacts: res.Artifacts,
			formats:   fileFormats,
			name:      req.Name,
			output:    opts.output,
		})
		if err != nil {
			return err
		}
	}

	printSuccess("%s %s chart", req.Name, res.Spec.Mode)
	printStats(chartStats(res.Spec), res.CacheInfo.Hit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// inlineChartRequest builds a request from --values.
func inlineChartRequest(name string, opts chartOpts) (pipeline.ChartRequest, error) {
	values, err := parseValues(opts.values)
	if err != nil {
		return pipeline.ChartRequest{}, err
	}
	series := chart.NewSeries(parseLabels(opts.labels, len(values)), values)
	if opts.hasTarget {
		series = series.WithTarget(opts.target)
	}
	if name == "" {
		name = "chart"
	}
	req := pipeline.ChartRequest{
		Name:    name,
		Series:  series,
		Mode:    chart.Mode(opts.mode),
		Options: opts.render,
	}
	if req.Mode == "" {
		req.Mode = chart.ModeBar
	}
	return req, nil
}

// datasetChartRequest lets flags override a dataset chart's stored
// presentation.
func datasetChartRequest(ch dataset.Chart, opts chartOpts) pipeline.ChartRequest {
	series := ch.Series()
	if opts.hasTarget {
		series = series.WithTarget(opts.target)
	}
	req := pipeline.ChartRequest{
		Name:    ch.Name,
		Series:  series,
		Mode:    ch.Mode,
		Options: opts.render,
	}
	if opts.mode != "" {
		req.Mode = chart.Mode(opts.mode)
	}
	if req.Title == "" {
		req.Title = ch.DisplayTitle()
	}
	if req.Color == "" {
		req.Color = ch.Color
	}
	return req
}

func applySize(o *pipeline.Options, width, height float64) {
	if o.Width == 0 {
		o.Width = width
	}
	if o.Height == 0 {
		o.Height = height
	}
}

// parseValues parses "64, 58,75" into numbers.
func parseValues(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid value %q in --values", p)
		}
		values = append(values, v)
	}
	return values, nil
}

// parseLabels splits s, or numbers the points 1..n when s is empty.
// A count mismatch is left for series validation to report.
func parseLabels(s string, n int) []string {
	if s == "" {
		labels := make([]string, n)
		for i := range labels {
			labels[i] = strconv.Itoa(i + 1)
		}
		return labels
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func chartStats(spec chart.Spec) []string {
	n := len(spec.Bars) + len(spec.Points)
	parts := []string{
		fmt.Sprintf("%d points", n),
		"max " + chart.FormatValue(spec.MaxValue),
	}
	if spec.Target != nil {
		parts = append(parts, spec.Target.Label())
	}
	return parts
}
