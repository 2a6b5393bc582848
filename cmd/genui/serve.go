package main

import (
	"bytes"
	"os"
	"os/signal"
	"syscall"

	"github.com/dimiro1/banner"
	"github.com/genui/genui/internal/config"
	"github.com/genui/genui/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long:  `The serve command starts the chat API on the configured host and port and shuts down gracefully on SIGINT or SIGTERM.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner()

			cfg, err := load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(cfg)
			if err != nil {
				return err
			}

			log.Info().
				Str("env", cfg.Environment).
				Str("addr", cfg.Addr()).
				Msg("genui backend starting")

			if err := srv.Run(ctx); err != nil {
				return err
			}
			log.Info().Msg("server stopped")
			return nil
		},
	}
}

func printBanner() {
	tpl := "{{ .Title \"GENUI\" \"\" 0 }}\nVersion: " + version + "\n"
	banner.Init(os.Stdout, true, true, bytes.NewBufferString(tpl))
}
