package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dshills/wordcount/internal/app"
	"github.com/dshills/wordcount/internal/config"
)

type rootOptions struct {
	configPath string
	logLevel   string
	language   string
}

// newRootCmd builds the command tree. Commands are built per call so
// tests can execute them in isolation.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "wordcount",
		Short: "Live word counts for Markdown documents",
		Long: `wordcount shows the number of words in Markdown documents, or the
number of selected words against the document total, the way an editor
status bar would.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a TOML or YAML config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "override the log level (debug, info, warn, error)")
	flags.StringVarP(&opts.language, "language", "l", "", "override the language id that is counted")

	root.AddCommand(newCountCmd(opts), newWatchCmd(opts), newVersionCmd())
	return root
}

// loadConfig loads the config file and applies command line overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.language != "" {
		cfg.Language = o.language
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := app.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return app.NewLogger(level, w), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of wordcount",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wordcount %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
