package di

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnemet/DeckForge/internal/ai"
	"github.com/gnemet/DeckForge/internal/config"
	"github.com/gnemet/DeckForge/internal/pptx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, provider string, settings config.ProviderSettings) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.AI.ActiveProvider = provider
	cfg.AI.Providers = map[string]config.ProviderSettings{provider: settings}
	cfg.Deck.Theme = "Modern Blue"
	cfg.Deck.Slides = 5
	cfg.Images.Timeout = 1
	cfg.Application.Storage.Temp = t.TempDir()
	return cfg
}

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestMissingKeyLeavesBuilderOut(t *testing.T) {
	cfg := testConfig(t, "groq", config.ProviderSettings{Driver: "openai", Model: "llama-3.3-70b-versatile"})

	c, err := BuildContainer(context.Background(), cfg, quietLog(), Options{})
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Builder)
	assert.ErrorIs(t, c.ModelErr, ai.ErrMissingAPIKey)
	_, err = c.RequireBuilder()
	assert.ErrorIs(t, err, ai.ErrMissingAPIKey)
}

func TestMockProviderBuildsDeck(t *testing.T) {
	cfg := testConfig(t, "mock", config.ProviderSettings{Driver: "mock", Model: "mock"})

	c, err := BuildContainer(context.Background(), cfg, quietLog(), Options{Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)
	defer c.Close()

	b, err := c.RequireBuilder()
	require.NoError(t, err)
	assert.NotNil(t, c.Metrics)
	assert.Nil(t, c.Ledger)

	out := filepath.Join(t.TempDir(), "mock.pptx")
	_, err = b.Build(context.Background(), "Bridges", 4, out, "")
	require.NoError(t, err)

	slides, err := pptx.OrderedSlides(out)
	require.NoError(t, err)
	assert.Len(t, slides, 4)
}

func TestThemeFilesJoinRegistry(t *testing.T) {
	cfg := testConfig(t, "mock", config.ProviderSettings{Driver: "mock"})
	dir := t.TempDir()
	cfg.Application.Storage.Themes = dir
	cfg.Deck.Theme = "Forest"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "forest.json"), []byte(`{
		"name": "Forest", "background": "#0B3D20",
		"title_font": {"family": "Georgia", "size": 40, "color": "#FFFFFF"},
		"body_font": {"family": "Georgia", "size": 22, "color": "#E0E0E0"},
		"accent": "#A3D977"}`), 0644))

	c, err := BuildContainer(context.Background(), cfg, quietLog(), Options{})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, []string{"Modern Blue", "Classic Dark", "Minimal White", "Forest"}, c.Themes.Names())
	assert.Equal(t, "Forest", c.Themes.Default())
}

func TestUnknownDefaultThemeFallsBack(t *testing.T) {
	cfg := testConfig(t, "mock", config.ProviderSettings{Driver: "mock"})
	cfg.Deck.Theme = "Nope"

	c, err := BuildContainer(context.Background(), cfg, quietLog(), Options{})
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, "Modern Blue", c.Themes.Default())
}

func TestBadThemeFileFails(t *testing.T) {
	cfg := testConfig(t, "mock", config.ProviderSettings{Driver: "mock"})
	dir := t.TempDir()
	cfg.Application.Storage.Themes = dir
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"name": "X", "background": "blue"}`), 0644))

	_, err := BuildContainer(context.Background(), cfg, quietLog(), Options{})
	assert.ErrorContains(t, err, "failed to load themes")
}
