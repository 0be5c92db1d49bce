package di

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gnemet/DeckForge/internal/ai"
	"github.com/gnemet/DeckForge/internal/config"
	"github.com/gnemet/DeckForge/internal/database"
	"github.com/gnemet/DeckForge/internal/deck"
	"github.com/gnemet/DeckForge/internal/imagesource"
	"github.com/gnemet/DeckForge/internal/metrics"
	"github.com/gnemet/DeckForge/internal/outline"
	"github.com/gnemet/DeckForge/internal/theme"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Container holds the shared collaborators of one process.
type Container struct {
	Config  *config.Config
	Log     *logrus.Entry
	Themes  *theme.Registry
	Images  *imagesource.Provider
	Metrics *metrics.Metrics

	// Model and Builder are nil when no text model could be built; ModelErr
	// says why (usually ai.ErrMissingAPIKey).
	Model    *ai.Client
	ModelErr error
	Builder  *deck.Builder

	// DB and Ledger are nil unless a database is configured and reachable.
	DB     *sql.DB
	Ledger *database.Ledger
}

type Options struct {
	// Registerer receives the metrics; nil disables them.
	Registerer prometheus.Registerer
	// Model replaces the configured ai client, mainly for tests.
	Model outline.Model
}

// BuildContainer wires everything cfg describes. A missing model key or an
// unreachable database is not an error; the container comes back without
// those parts.
func BuildContainer(ctx context.Context, cfg *config.Config, log *logrus.Entry, opts Options) (*Container, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	c := &Container{Config: cfg, Log: log}

	themes, err := buildThemes(cfg)
	if err != nil {
		return nil, err
	}
	c.Themes = themes

	if opts.Registerer != nil {
		c.Metrics = metrics.MustNew(opts.Registerer)
	}
	c.Images = imagesource.New(cfg.Images.Endpoint, time.Duration(cfg.Images.Timeout)*time.Second, log.WithField("component", "images"))

	if cfg.Database.Enabled() {
		db, err := database.NewConnection(ctx, cfg.Database.GetConnectStr())
		if err == nil {
			err = database.EnsureSchema(ctx, db)
			if err != nil {
				db.Close()
			}
		}
		if err != nil {
			// Not fatal - the ledger is audit only
			log.WithError(err).Warn("database unavailable, run history disabled")
		} else {
			c.DB = db
			c.Ledger = database.NewLedger(db)
		}
	}

	model := opts.Model
	if model == nil {
		client, err := ai.NewClient(ctx, cfg)
		if err != nil {
			c.ModelErr = err
			log.WithError(err).Warn("text model unavailable")
		} else {
			client.Log = log.WithField("component", "ai")
			if c.Ledger != nil {
				client.Recorder = c.Ledger
			}
			c.Model = client
			model = client
		}
	}

	if model != nil {
		bopts := deck.Options{
			Theme:    cfg.Deck.Theme,
			Subtitle: cfg.Deck.Subtitle,
			TempDir:  cfg.Application.Storage.Temp,
			Log:      log,
			Metrics:  c.Metrics,
		}
		if c.Ledger != nil {
			bopts.Recorder = c.Ledger
		}
		c.Builder, err = deck.New(model, c.Images, themes, bopts)
		if err != nil {
			c.Close()
			return nil, err
		}
	}

	return c, nil
}

func buildThemes(cfg *config.Config) (*theme.Registry, error) {
	extra, err := theme.LoadDir(cfg.Application.Storage.Themes)
	if err != nil {
		return nil, fmt.Errorf("failed to load themes: %w", err)
	}
	def := cfg.Deck.Theme
	specs := append(theme.Presets(), extra...)
	found := false
	for _, s := range specs {
		if s.Name == def {
			found = true
			break
		}
	}
	if !found {
		def = theme.DefaultName
	}
	return theme.NewRegistry(def, specs...)
}

// RequireBuilder returns the builder or the reason there is none.
func (c *Container) RequireBuilder() (*deck.Builder, error) {
	if c.Builder != nil {
		return c.Builder, nil
	}
	if c.ModelErr != nil {
		return nil, c.ModelErr
	}
	return nil, deck.ErrNoModel
}

func (c *Container) Close() {
	if c.Model != nil {
		c.Model.Close()
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
