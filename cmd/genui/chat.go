package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/genui/genui/internal/agent"
	"github.com/genui/genui/internal/config"
	"github.com/genui/genui/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newChatCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Run one message through the model and tools",
		Long:  `The chat command sends a single user message through the same graph as POST /chat and prints the JSON output.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			core, err := server.NewCore(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.ModelTimeout())
			defer cancel()
			ctx = log.Logger.WithContext(ctx)

			input := []agent.Message{{Role: agent.RoleUser, Content: strings.Join(args, " ")}}
			state, err := core.Graph.Run(ctx, input)
			if err != nil {
				return fmt.Errorf("chat: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(state.Output())
		},
	}
}
