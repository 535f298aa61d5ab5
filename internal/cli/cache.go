package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/llmstream/pkg/cache"
	"github.com/matzehuels/llmstream/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached renders and datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cc, err := newCache(cmd.Context(), cfg.Cache, false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				printInfo("Cache backend %q holds nothing to clear", cfg.Cache.Backend)
				return nil
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared cache")
			printDetail("Backend: %s", cacheLocation(cfg.Cache, cc))
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
			if cfg.Cache.Backend == config.CacheRedis {
				fmt.Fprintln(out, "redis://"+cfg.Cache.RedisAddr)
				return nil
			}
			dir := cfg.Cache.Dir
			if dir == "" {
				if dir, err = cacheDir(); err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
			}
			fmt.Fprintln(out, dir)
			return nil
		},
	}
}

func cacheLocation(cfg config.Cache, cc cache.Cache) string {
	if fc, ok := cc.(*cache.FileCache); ok {
		return fc.Dir()
	}
	if cfg.Backend == config.CacheRedis {
		return "redis://" + cfg.RedisAddr
	}
	return cfg.Backend
}
