package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailreboot/retailreboot/pkg/cache"
	"github.com/retailreboot/retailreboot/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts from the configured backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.BackendNone {
				printInfo("Caching is disabled")
				return nil
			}

			store, err := cache.New(ctx, cfg.Cache)
			if err != nil {
				return fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
			}
			defer store.Close()

			count, err := cache.Clear(ctx, store)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Backend: %s", cacheLocation(cfg.Cache))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, cacheLocation(cfg.Cache))
			return nil
		},
	}
}

// cacheLocation describes the backend: a directory for the file cache, an
// address for the network backends.
func cacheLocation(cc config.CacheConfig) string {
	switch cc.Backend {
	case config.BackendRedis:
		return fmt.Sprintf("redis://%s/%d", cc.RedisAddr, cc.RedisDB)
	case config.BackendMongo:
		return "mongo database " + cc.MongoDatabase
	case config.BackendNone:
		return "none"
	default:
		return cc.Dir
	}
}
