package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailreboot/retailreboot/internal/server"
	"github.com/retailreboot/retailreboot/pkg/observability"
	neo4jsrc "github.com/retailreboot/retailreboot/pkg/source/neo4j"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	fromNeo4j bool
	noCache   bool
}

// serveCommand creates the serve command that runs the dashboard server.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard and rendering API over HTTP",
		Long: `Serve the dashboard page and the chart and network API.

The address, cache backend and default chart size come from the config file.
With --neo4j the network is read from the configured database on every
request, so map changes show up without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&opts.fromNeo4j, "neo4j", false, "read the network from the configured neo4j database")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}

	d, err := c.loadDataset(cfg)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if c.Verbose() {
		observability.NewLogHooks(c.Logger).Register()
		defer observability.Reset()
	}

	srvOpts := server.Options{
		Addr:   cfg.Server.Addr,
		Width:  cfg.Render.Width,
		Height: cfg.Render.Height,
	}
	if opts.fromNeo4j {
		exec, err := c.openNeo4j(ctx, cfg)
		if err != nil {
			return err
		}
		defer exec.Close(context.Background())
		srvOpts.Network = neo4jsrc.NewLoader(exec)
	}

	printInfo("Serving on %s", StyleLink.Render(displayAddr(cfg.Server.Addr)))
	printDetail("Cache: %s · dataset: %d charts, %d nodes", cfg.Cache.Backend, len(d.Charts), len(d.Network.Nodes))
	return server.New(d, runner, c.Logger, srvOpts).ListenAndServe(ctx)
}

// displayAddr turns ":8080" into a clickable URL.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
