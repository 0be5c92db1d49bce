package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnemet/DeckForge/internal/config"
	"github.com/gnemet/DeckForge/internal/di"
	"github.com/gnemet/DeckForge/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// cli carries what every subcommand shares.
type cli struct {
	configPath string
	logLevel   string
	stdout     io.Writer
	stderr     io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:          "deckgen",
		Short:        "Generate themed PowerPoint decks from a topic",
		Long:         "deckgen asks a language model for a slide outline, adds stock photos and writes a themed .pptx file.",
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to config.yaml")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		c.generateCommand(),
		c.watchCommand(),
		c.inspectCommand(),
		c.previewCommand(),
		c.pingCommand(),
	)
	return root
}

func (c *cli) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if c.logLevel != "" {
		cfg.Application.LogLevel = c.logLevel
	}
	return cfg, nil
}

func (c *cli) logger(cfg *config.Config) *logrus.Entry {
	return logrus.NewEntry(logging.New(cfg.Application.LogLevel, c.stderr))
}

// container loads config and wires the collaborators a command needs.
func (c *cli) container(ctx context.Context) (*di.Container, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return di.BuildContainer(ctx, cfg, c.logger(cfg), di.Options{})
}
