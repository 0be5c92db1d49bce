package main

import (
	"github.com/gnemet/DeckForge/internal/observer"
	"github.com/spf13/cobra"
)

func (c *cli) watchCommand() *cobra.Command {
	var (
		previews  bool
		reprocess bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Turn Markdown briefs dropped into the inbox into decks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ct, err := c.container(ctx)
			if err != nil {
				return err
			}
			defer ct.Close()

			b, err := ct.RequireBuilder()
			if err != nil {
				return err
			}
			o := observer.NewObserver(ct.Config, b, ct.Log)
			o.Previews = previews
			if reprocess {
				o.ReprocessAll(ctx)
			}
			return o.Start(ctx)
		},
	}
	cmd.Flags().BoolVar(&previews, "previews", false, "render PNG thumbnails with LibreOffice")
	cmd.Flags().BoolVar(&reprocess, "reprocess", false, "move handled briefs back to the inbox first")
	return cmd
}
