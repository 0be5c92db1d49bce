package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gnemet/DeckForge/internal/pptx"
	"github.com/spf13/cobra"
)

func (c *cli) previewCommand() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "preview [file.pptx]",
		Short: "Render PNG thumbnails of a deck (needs LibreOffice and pdftoppm)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			deckPath := args[0]
			if outDir == "" {
				name := strings.TrimSuffix(filepath.Base(deckPath), filepath.Ext(deckPath))
				outDir = filepath.Join(cfg.Application.Storage.Thumbnails, name)
			}
			pngs, err := pptx.ExtractSlidesToPNG(deckPath, outDir, cfg.Application.Storage.Temp)
			if err != nil {
				return err
			}
			for _, p := range pngs {
				fmt.Fprintln(c.stdout, p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "thumbnail directory (default: storage thumbnails/<deck name>)")
	return cmd
}
