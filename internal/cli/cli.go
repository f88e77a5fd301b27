// Package cli implements the retailreboot command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/retailreboot/retailreboot/pkg/buildinfo"
	"github.com/retailreboot/retailreboot/pkg/cache"
	"github.com/retailreboot/retailreboot/pkg/config"
	"github.com/retailreboot/retailreboot/pkg/dataset"
	"github.com/retailreboot/retailreboot/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	// ConfigPath overrides the default config file location.
	ConfigPath string
	// DatasetPath overrides the dataset named in the config file.
	DatasetPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Verbose reports whether debug logging is enabled.
func (c *CLI) Verbose() bool {
	return c.Logger.GetLevel() <= log.DebugLevel
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "RetailReboot renders supply-chain dashboards",
		Long:         `RetailReboot turns KPI series and supply-chain networks into charts and maps, from the terminal or over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/retailreboot/config.toml)")
	root.PersistentFlags().StringVarP(&c.DatasetPath, "dataset", "d", "", "dataset file: .toml, .json, .yaml or .xlsx (default: built-in sample)")

	root.AddCommand(c.chartCommand())
	root.AddCommand(c.networkCommand())
	root.AddCommand(c.nodeCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.datasetsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config, Dataset and Runner
// =============================================================================

func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// loadDataset reads --dataset, then the config's dataset path, then falls
// back to the built-in sample.
func (c *CLI) loadDataset(cfg config.Config) (*dataset.Dataset, error) {
	path := c.DatasetPath
	if path == "" {
		path = cfg.Dataset.Path
	}
	if path == "" {
		c.Logger.Debug("Using built-in dataset")
		return dataset.Builtin(), nil
	}
	d, err := dataset.Load(config.ExpandHome(path))
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	c.Logger.Debugf("Loaded dataset %s: %d charts, %d nodes", path, len(d.Charts), len(d.Network.Nodes))
	return d, nil
}

// newRunner creates a pipeline runner on the configured cache backend.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	cc := cfg.Cache
	if noCache {
		cc.Backend = config.BackendNone
	}
	store, err := cache.New(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cc.Backend, err)
	}
	c.Logger.Debug("Cache ready", "backend", cc.Backend)

	runner := pipeline.NewRunner(store, nil, c.Logger)
	runner.TTL = cfg.Cache.TTL.Duration
	return runner, nil
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	// name is the default file stem when output is empty.
	name   string
	output string
}

// writeArtifacts writes each requested format to disk. A single format goes
// to output verbatim; several formats share output as a base path.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	formats := p.formats
	if len(formats) == 0 {
		for f := range p.artifacts {
			formats = append(formats, f)
		}
		sort.Strings(formats)
	}

	var paths []string
	for _, f := range formats {
		data, ok := p.artifacts[f]
		if !ok {
			return paths, fmt.Errorf("no %s output was rendered", f)
		}
		path := outputPath(p.output, p.name, f, len(formats) == 1)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath picks the file for one format.
func outputPath(output, name, format string, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, name) + "." + fileExt(format)
}

// basePath strips a known format extension from output, falling back to
// name when output is empty.
func basePath(output, name string) string {
	if output == "" {
		return name
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if slices.Contains(pipeline.ChartFormats, ext) || slices.Contains(pipeline.NetworkFormats, ext) || ext == "txt" || ext == "gv" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

func fileExt(format string) string {
	if format == pipeline.FormatASCII {
		return "txt"
	}
	return format
}
