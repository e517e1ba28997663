package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/wordcount/internal/app"
	"github.com/dshills/wordcount/internal/renderer/backend"
)

func newWatchCmd(root *rootOptions) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "watch <file>...",
		Short: "Show a live status bar for the given files",
		Long: `watch opens the files in a terminal view with a status bar and
updates the word count whenever a file changes on disk.

Keys: Tab switches file, q or Esc quits.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			// The terminal is taken by the view; logs go to a file or nowhere.
			var logOut io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}
			logger, err := newLogger(cfg, logOut)
			if err != nil {
				return err
			}

			term, err := backend.NewTerminal()
			if err != nil {
				return fmt.Errorf("create terminal: %w", err)
			}

			application, err := app.New(app.Options{
				Config:  cfg,
				Files:   args,
				Backend: term,
				Logger:  logger,
				Watch:   true,
			})
			if err != nil {
				return err
			}
			defer application.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return application.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file")
	return cmd
}
