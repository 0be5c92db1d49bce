package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnemet/DeckForge/internal/deck"
	"github.com/spf13/cobra"
)

func (c *cli) generateCommand() *cobra.Command {
	var (
		slides int
		theme  string
		output string
	)
	cmd := &cobra.Command{
		Use:   "generate [topic]",
		Short: "Generate a deck for a topic",
		Long:  "Generate a presentation for the given topic and write it to --output.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.TrimSpace(strings.Join(args, " "))
			if topic == "" {
				return fmt.Errorf("topic must not be empty")
			}

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
			if theme != "" {
				if !ct.Themes.Has(theme) {
					return fmt.Errorf("unknown theme %q (available: %s)", theme, strings.Join(ct.Themes.Names(), ", "))
				}
				b = b.WithTheme(theme)
			}
			if slides == 0 {
				slides = ct.Config.Deck.Slides
			}
			if dir := filepath.Dir(output); dir != "" {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return err
				}
			}

			run, err := b.BuildRun(ctx, topic, deck.ClampSlides(slides), output, ct.Config.Images.Key)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "%s (%d slides, theme %s)\n", run.OutputPath, run.Slides, run.Theme)
			if run.OutlineFallback {
				fmt.Fprintf(c.stdout, "note: used the built-in outline (%s)\n", run.OutlineReason)
			}
			if run.ImageFallbacks > 0 {
				fmt.Fprintf(c.stdout, "note: %d placeholder image(s)\n", run.ImageFallbacks)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&slides, "slides", "n", 0, fmt.Sprintf("number of slides (%d-%d)", deck.MinSlides, deck.MaxSlides))
	cmd.Flags().StringVarP(&theme, "theme", "t", "", "theme name")
	cmd.Flags().StringVarP(&output, "output", "o", "generated_presentation.pptx", "output file")
	return cmd
}
