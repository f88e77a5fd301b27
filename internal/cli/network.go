package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
	"github.com/retailreboot/retailreboot/pkg/network"
	"github.com/retailreboot/retailreboot/pkg/pipeline"
)

// networkOpts holds the command-line flags for the network command.
type networkOpts struct {
	types     string
	issues    bool
	selected  string
	zoom      float64
	vizType   string
	detailed  bool
	formats   string
	output    string
	fromNeo4j bool
	noCache   bool
	refresh   bool
	render    pipeline.Options
}

// networkCommand creates the network command for rendering the supply-chain map.
func (c *CLI) networkCommand() *cobra.Command {
	opts := networkOpts{zoom: float64(network.DefaultZoom), vizType: pipeline.VizMap}

	cmd := &cobra.Command{
		Use:   "network",
		Short: "Render the supply-chain network map",
		Long: `Render the supply-chain network map.

Nodes are drawn at their stored positions (-t map) or placed by Graphviz
(-t nodelink). Filters hide node types or everything running normally;
connections to hidden nodes are dropped. Selecting a node highlights it and
adds its detail panel without changing the layout.

Examples:
  retailreboot network -f svg,png
  retailreboot network --types supplier,warehouse --issues
  retailreboot network --select warehouse2 --zoom 1.2
  retailreboot network -t nodelink -f dot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNetwork(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.types, "types", "", "node types to show (comma-separated, default all)")
	cmd.Flags().BoolVar(&opts.issues, "issues", false, "show only nodes with warning, critical or success status")
	cmd.Flags().StringVar(&opts.selected, "select", "", "node id to highlight")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", opts.zoom, "map zoom, 0.5 to 1.5")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", opts.vizType, "visualization type: map, nodelink")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node metrics (nodelink)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().Float64Var(&opts.render.Width, "width", 0, "canvas width in pixels")
	cmd.Flags().Float64Var(&opts.render.Height, "height", 0, "canvas height in pixels")
	cmd.Flags().StringVar(&opts.render.Title, "title", "", "map title")
	cmd.Flags().BoolVar(&opts.fromNeo4j, "neo4j", false, "load the network from the configured neo4j database")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

// runNetwork loads the network, renders it and writes the artifacts.
func (c *CLI) runNetwork(ctx context.Context, opts networkOpts) error {
	logger := loggerFromContext(ctx)

	filter, err := parseFilter(opts.types, opts.issues)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	nodes, conns, err := c.loadNetwork(ctx, cfg, opts.fromNeo4j)
	if err != nil {
		return err
	}

	req := pipeline.NetworkRequest{
		Nodes:       nodes,
		Connections: conns,
		Filter:      &filter,
		Selected:    opts.selected,
		Zoom:        network.ClampZoom(opts.zoom),
		VizType:     strings.ToLower(opts.vizType),
		Detailed:    opts.detailed,
		Options:     opts.render,
	}
	req.Formats = pipeline.ParseFormats(opts.formats)
	req.Refresh = opts.refresh
	req.Logger = logger

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", req.VizType))
	spinner.Start()

	res, err := runner.RenderNetwork(ctx, req)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render network: %w", err)
	}
	spinner.Stop()
	prog.done("Rendered network")

	formats := req.Formats
	if len(formats) == 0 {
		formats = []string{pipeline.FormatSVG}
	}
	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: res.Artifacts,
		formats:   formats,
		name:      "network",
		output:    opts.output,
	})
	if err != nil {
		return err
	}

	printSuccess("Network %s", req.VizType)
	printStats([]string{
		fmt.Sprintf("%d/%d nodes", len(res.Layout.Nodes), len(nodes)),
		fmt.Sprintf("%d connections", len(res.Layout.Paths)),
		"types " + filter.Types.String(),
	}, res.CacheInfo.Hit)
	for _, p := range paths {
		printFile(p)
	}
	if opts.selected != "" && res.Details == nil {
		printWarning("No node with id %q", opts.selected)
	}
	return nil
}

// parseFilter builds a filter from --types and --issues. An empty type list
// enables every type.
func parseFilter(types string, issuesOnly bool) (network.Filter, error) {
	set, err := network.ParseTypeSet(types)
	if err != nil {
		return network.Filter{}, err
	}
	if set == 0 {
		return network.Filter{}, apperrors.New(apperrors.ErrCodeInvalidInput, "--types must name at least one node type")
	}
	return network.Filter{Types: set, IssuesOnly: issuesOnly}, nil
}

// nodeCommand creates the node command that prints one node's detail panel.
func (c *CLI) nodeCommand() *cobra.Command {
	var fromNeo4j bool

	cmd := &cobra.Command{
		Use:   "node <id>",
		Short: "Show a node's metrics and connections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			nodes, conns, err := c.loadNetwork(cmd.Context(), cfg, fromNeo4j)
			if err != nil {
				return err
			}
			d, ok := network.Describe(nodes, conns, args[0])
			if !ok {
				return apperrors.New(apperrors.ErrCodeNodeNotFound, "node not found: %q", args[0])
			}
			printDetails(d)
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromNeo4j, "neo4j", false, "load the network from the configured neo4j database")
	return cmd
}

// printDetails prints the detail panel: metrics, then incident links.
func printDetails(d network.Details) {
	fmt.Fprintln(out, StyleTitle.Render(d.Node.DisplayName()))
	printKeyValue("ID", d.Node.ID)
	printKeyValue("Type", string(d.Node.Type))
	fmt.Fprintln(out, styleKey.Render("Status")+" "+renderStatus(d.Node.Status))
	for _, m := range d.Node.Metrics {
		printKeyValue(m.Label, m.Value)
	}

	printNewline()
	if len(d.Links) == 0 {
		printDetail("No connections")
		return
	}
	fmt.Fprintln(out, StyleHighlight.Render("Connections"))
	for _, l := range d.Links {
		fmt.Fprintf(out, "  %-5s %s %s\n", l.Direction.Prefix(), StyleValue.Render(l.Peer.DisplayName()), renderStatus(l.Status))
	}
}
