package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/llmstream/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "llmstream draws LLM usage over time as an interactive streamgraph",
		Long: `llmstream stacks monthly usage of several language models into a
streamgraph with a legend, a time axis and per-series hover tooltips.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML configuration file")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
