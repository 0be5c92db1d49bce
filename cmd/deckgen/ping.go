package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gnemet/DeckForge/internal/ai"
	"github.com/spf13/cobra"
)

const pingPrompt = "Say 'The forge is hot!' if you are working correctly."

func (c *cli) pingCommand() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured text model answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			name, settings, err := cfg.AI.Active()
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "provider: %s (driver %s)\nmodel: %s\n", name, settings.Driver, settings.Model)
			if settings.Key != "" {
				fmt.Fprintf(c.stdout, "key: %s\n", maskKey(settings.Key))
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			client, err := ai.NewProviderClient(ctx, name, settings)
			if err != nil {
				return err
			}
			defer client.Close()
			client.Log = c.logger(cfg)

			start := time.Now()
			reply, err := client.GenerateContent(ctx, pingPrompt)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "reply (%s): %s\n", time.Since(start).Round(time.Millisecond), reply)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")
	return cmd
}

func maskKey(k string) string {
	if len(k) <= 8 {
		return "****"
	}
	return k[:4] + "..." + k[len(k)-4:]
}
