package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/retailreboot/retailreboot/pkg/chart"
	"github.com/retailreboot/retailreboot/pkg/dataset"
	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
	neo4jsrc "github.com/retailreboot/retailreboot/pkg/source/neo4j"
)

// datasetsCommand creates the datasets command group.
func (c *CLI) datasetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "datasets",
		Aliases: []string{"dataset"},
		Short:   "Inspect, convert and publish datasets",
	}

	cmd.AddCommand(c.datasetsListCommand())
	cmd.AddCommand(c.datasetsExportCommand())
	cmd.AddCommand(c.datasetsPushCommand())

	return cmd
}

// datasetsListCommand creates the "datasets list" subcommand.
func (c *CLI) datasetsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the charts, cards and network in the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			d, err := c.loadDataset(cfg)
			if err != nil {
				return err
			}
			printDataset(d)
			return nil
		},
	}
}

func printDataset(d *dataset.Dataset) {
	title := d.Name
	if title == "" {
		title = "Dataset"
	}
	fmt.Fprintln(out, StyleTitle.Render(title))

	for _, page := range d.Pages() {
		printNewline()
		fmt.Fprintln(out, StyleHighlight.Render(page))
		for _, card := range d.CardsFor(page) {
			trend := card.TrendText()
			if trend != "" {
				trend = " " + StyleDim.Render(trend)
			}
			printDetail("card  %s %s%s", card.Title, card.Value, trend)
		}
		for _, ch := range d.ChartsFor(page) {
			fmt.Fprintf(out, "  %-14s %-6s %s\n", StyleValue.Render(ch.Name), ch.Mode, StyleDim.Render(chartSummary(ch)))
		}
	}

	printNewline()
	printKeyValue("Network", fmt.Sprintf("%d nodes, %d connections", len(d.Network.Nodes), len(d.Network.Connections)))
	printNextStep("Render a chart", appName+" chart <name>")
}

func chartSummary(ch dataset.Chart) string {
	parts := []string{ch.DisplayTitle(), fmt.Sprintf("%d points", len(ch.Values))}
	if ch.Target != nil {
		parts = append(parts, "target "+chart.FormatValue(*ch.Target))
	}
	return strings.Join(parts, " · ")
}

// datasetsExportCommand creates the "datasets export" subcommand.
func (c *CLI) datasetsExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dataset as TOML, JSON or YAML",
		Long: `Write the active dataset as TOML, JSON or YAML.

The format follows the output file extension. Without -o the dataset is
printed as TOML. Use this to start a custom dataset from the built-in sample
or to convert a spreadsheet into a text format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			d, err := c.loadDataset(cfg)
			if err != nil {
				return err
			}

			if output == "" {
				return dataset.Encode(out, d, dataset.FormatTOML)
			}
			format, err := dataset.FormatFor(output)
			if err != nil {
				return err
			}
			if format == dataset.FormatXLSX {
				return apperrors.New(apperrors.ErrCodeUnsupported, "export to .xlsx is not supported")
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := dataset.Encode(f, d, format); err != nil {
				f.Close()
				return fmt.Errorf("encode %s: %w", output, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			printSuccess("Exported %s dataset", format)
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.toml, .json, .yaml)")
	return cmd
}

// datasetsPushCommand creates the "datasets push" subcommand.
func (c *CLI) datasetsPushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Replace the network in neo4j with the dataset's network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			d, err := c.loadDataset(cfg)
			if err != nil {
				return err
			}
			exec, err := c.openNeo4j(ctx, cfg)
			if err != nil {
				return err
			}
			defer exec.Close(ctx)

			spinner := newSpinnerWithContext(ctx, "Writing network...")
			spinner.Start()
			if err := neo4jsrc.NewLoader(exec).Save(ctx, d.Network.Nodes, d.Network.Connections); err != nil {
				spinner.StopWithError("Push failed")
				return fmt.Errorf("push network: %w", err)
			}
			spinner.StopWithSuccess(fmt.Sprintf("Pushed %d nodes and %d connections", len(d.Network.Nodes), len(d.Network.Connections)))
			printDetail("Database: %s", cfg.Neo4j.URI)
			return nil
		},
	}
}
