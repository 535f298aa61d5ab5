package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/llmstream/pkg/server"
	"github.com/matzehuels/llmstream/pkg/source"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		watch   bool
		noCache bool
		offset  string
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the interactive chart",
		Long: `Serve the streamgraph with live hover tooltips.

Hovering a layer shows a bar chart of that model's monthly usage. With
--watch the dataset file is re-read when it changes and every open page is
redrawn.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runServe(cmd, input, addr, watch, noCache, offset)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&watch, "watch", true, "redraw when the dataset file changes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&offset, "offset", "", "stack offset: wiggle, silhouette, expand, none")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, input, addr string, watch, noCache bool, offset string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	applyChartFlags(&cfg.Chart, offset, -1)
	if err := cfg.Chart.Validate(); err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}
	if !cmd.Flags().Changed("watch") {
		watch = cfg.Server.Watch
	}

	src, err := source.Open(ctx, cfg.Source, input)
	if err != nil {
		return err
	}
	defer source.Close(context.Background(), src)

	runner, err := c.newRunner(ctx, cfg.Cache, noCache, serveScope)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(runner, src, server.Options{
		Chart:    cfg.Chart,
		Tooltip:  cfg.Tooltip,
		Watch:    watch,
		Debounce: time.Duration(cfg.Server.WatchDebounceMS) * time.Millisecond,
		Logger:   logger,
	})

	printInfo("Serving %s on %s", src.Name(), StyleLink.Render("http://"+displayAddr(addr)))
	return srv.Run(ctx, addr)
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
