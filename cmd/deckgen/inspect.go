package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gnemet/DeckForge/internal/pptx"
	"github.com/spf13/cobra"
)

func (c *cli) inspectCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect [file.pptx]",
		Short: "Print the slides of a deck",
		Long:  "Print title, layout, background, picture count and text runs of every slide.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slides, err := pptx.OrderedSlides(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(c.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(slides)
			}
			printSlides(c.stdout, slides)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printSlides(w io.Writer, slides []pptx.SlideData) {
	for _, s := range slides {
		st := s.Styles
		if st == nil {
			fmt.Fprintf(w, "Slide %d\n", s.SlideNumber)
			continue
		}
		fmt.Fprintf(w, "Slide %d: %s\n", s.SlideNumber, st.Title())
		fmt.Fprintf(w, "  layout: %s  background: %s  pictures: %d\n", st.Layout, st.Background, st.Pictures)
		for _, sh := range st.Shapes {
			for _, r := range sh.Runs {
				if strings.TrimSpace(r.Text) == "" {
					continue
				}
				fmt.Fprintf(w, "  [%s] %q %s %dpt %s\n", sh.Type, r.Text, r.Font, r.Size, r.Color)
			}
		}
	}
}
