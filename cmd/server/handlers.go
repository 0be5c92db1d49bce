package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gnemet/DeckForge/internal/ai"
	"github.com/gnemet/DeckForge/internal/config"
	"github.com/gnemet/DeckForge/internal/database"
	"github.com/gnemet/DeckForge/internal/deck"
	"github.com/gnemet/DeckForge/internal/i18n"
	"github.com/gnemet/DeckForge/internal/logging"
	"github.com/gnemet/DeckForge/internal/pptx"
	"github.com/gnemet/DeckForge/internal/theme"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	defaultTopic     = "Cricket and Its History"
	downloadFilename = "generated_presentation.pptx"
	historyLimit     = 50
)

// History lists recent runs. *database.Ledger satisfies it.
type History interface {
	Recent(ctx context.Context, limit int) ([]database.DeckRun, error)
}

type app struct {
	cfg     *config.Config
	log     *logrus.Entry
	tmpl    *template.Template
	themes  *theme.Registry
	builder *deck.Builder
	// modelErr is why builder is nil, usually ai.ErrMissingAPIKey.
	modelErr error
	history  History
	recent   *logging.Recent
	gatherer prometheus.Gatherer
}

func parseTemplates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"T": i18n.T,
	}).ParseFS(templateFS, "templates/*.html"))
}

func (a *app) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", a.handleIndex)
	mux.HandleFunc("/generate", a.handleGenerate)
	mux.HandleFunc("/themes", a.handleThemes)
	mux.HandleFunc("/history", a.handleHistory)
	mux.HandleFunc("/logs", a.handleLogs)
	mux.HandleFunc("/healthz", a.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))
	return mux
}

type pageData struct {
	Lang      string
	Langs     []string
	Themes    []string
	Theme     string
	Topic     string
	Slides    int
	MinSlides int
	MaxSlides int
	Error     string
	Runs      []database.DeckRun
	HasLedger bool
}

func (a *app) page(r *http.Request) pageData {
	return pageData{
		Lang:      i18n.GetLang(r, a.cfg.Application.Language),
		Langs:     i18n.GetAvailableLangs(),
		Themes:    a.themes.Names(),
		Theme:     a.themes.Lookup(a.cfg.Deck.Theme).Name,
		Topic:     defaultTopic,
		Slides:    deck.ClampSlides(a.cfg.Deck.Slides),
		MinSlides: deck.MinSlides,
		MaxSlides: deck.MaxSlides,
		HasLedger: a.history != nil,
	}
}

func (a *app) render(w http.ResponseWriter, status int, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := a.tmpl.ExecuteTemplate(w, name, data); err != nil {
		a.log.WithError(err).WithField("template", name).Error("render failed")
	}
}

func (a *app) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := a.page(r)
	if l := r.URL.Query().Get("lang"); i18n.Supported(l) {
		http.SetCookie(w, &http.Cookie{Name: "lang", Value: l, Path: "/"})
	}
	a.render(w, http.StatusOK, "index.html", data)
}

func (a *app) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data := a.page(r)
	data.Topic = strings.TrimSpace(r.FormValue("topic"))
	if name := r.FormValue("theme"); name != "" {
		data.Theme = a.themes.Lookup(name).Name
	}
	if n, err := strconv.Atoi(r.FormValue("slides")); err == nil {
		data.Slides = deck.ClampSlides(n)
	}

	if a.builder == nil {
		if errors.Is(a.modelErr, ai.ErrMissingAPIKey) {
			data.Error = i18n.T(data.Lang, "error.missing_key")
			a.render(w, http.StatusPreconditionFailed, "index.html", data)
			return
		}
		a.log.WithError(a.modelErr).Error("no text model available")
		data.Error = i18n.T(data.Lang, "error.generation")
		a.render(w, http.StatusServiceUnavailable, "index.html", data)
		return
	}
	if data.Topic == "" {
		data.Error = i18n.T(data.Lang, "error.empty_topic")
		a.render(w, http.StatusBadRequest, "index.html", data)
		return
	}

	outDir := a.cfg.Application.Storage.Output
	if err := os.MkdirAll(outDir, 0755); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := filepath.Join(outDir, uuid.NewString()+".pptx")

	log := a.log.WithFields(logrus.Fields{"topic": data.Topic, "theme": data.Theme, "slides": data.Slides})
	path, err := a.builder.WithTheme(data.Theme).Build(r.Context(), data.Topic, data.Slides, out, a.cfg.Images.Key)
	if err != nil {
		log.WithError(err).Error("deck build failed")
		data.Error = i18n.T(data.Lang, "error.generation")
		a.render(w, http.StatusInternalServerError, "index.html", data)
		return
	}
	log.WithField("output", path).Info("presentation generated")
	defer func() {
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warn("failed to remove served deck")
		}
	}()

	w.Header().Set("Content-Type", pptx.MediaType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+downloadFilename+`"`)
	http.ServeFile(w, r, path)
}

func (a *app) handleThemes(w http.ResponseWriter, r *http.Request) {
	type themeInfo struct {
		Name       string `json:"name"`
		Background string `json:"background"`
		TitleFont  string `json:"title_font"`
		BodyFont   string `json:"body_font"`
		Accent     string `json:"accent"`
		Default    bool   `json:"default"`
	}
	var out []themeInfo
	for _, name := range a.themes.Names() {
		s := a.themes.Lookup(name)
		out = append(out, themeInfo{
			Name:       s.Name,
			Background: "#" + s.Background.Hex(),
			TitleFont:  s.Title.Family,
			BodyFont:   s.Body.Family,
			Accent:     "#" + s.Accent.Hex(),
			Default:    name == a.themes.Default(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *app) handleHistory(w http.ResponseWriter, r *http.Request) {
	data := a.page(r)
	if a.history != nil {
		runs, err := a.history.Recent(r.Context(), historyLimit)
		if err != nil {
			a.log.WithError(err).Error("failed to load history")
			http.Error(w, "history unavailable", http.StatusInternalServerError)
			return
		}
		data.Runs = runs
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		if data.Runs == nil {
			data.Runs = []database.DeckRun{}
		}
		writeJSON(w, http.StatusOK, data.Runs)
		return
	}
	a.render(w, http.StatusOK, "history.html", data)
}

func (a *app) handleLogs(w http.ResponseWriter, r *http.Request) {
	lines := []string{}
	if a.recent != nil {
		lines = a.recent.Lines()
	}
	writeJSON(w, http.StatusOK, lines)
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"model":   a.builder != nil,
		"ledger":  a.history != nil,
		"version": a.cfg.Application.Version,
	}
	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
