package observer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gnemet/DeckForge/internal/config"
	"github.com/gnemet/DeckForge/internal/deck"
	"github.com/gnemet/DeckForge/internal/pptx"
	"github.com/sirupsen/logrus"
)

// Observer watches the inbox for Markdown briefs and turns each one into a
// deck in the output directory. Handled briefs move to the done directory.
type Observer struct {
	cfg     *config.Config
	builder *deck.Builder
	log     *logrus.Entry

	// Settle is the pause between a file event and reading the file.
	Settle time.Duration
	// Previews renders PNG thumbnails of every deck (needs LibreOffice).
	Previews bool

	activeTasks int
	mu          sync.Mutex
}

func NewObserver(cfg *config.Config, builder *deck.Builder, log *logrus.Entry) *Observer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Observer{
		cfg:     cfg,
		builder: builder,
		log:     log.WithField("component", "observer"),
		Settle:  2 * time.Second,
	}
}

func (o *Observer) incrementTask() {
	o.mu.Lock()
	o.activeTasks++
	o.mu.Unlock()
}

func (o *Observer) decrementTask() {
	o.mu.Lock()
	o.activeTasks--
	o.mu.Unlock()
}

func isBrief(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

func (o *Observer) Start(ctx context.Context) error {
	storage := o.cfg.Application.Storage
	inbox := storage.Inbox
	if inbox == "" {
		return fmt.Errorf("inbox storage directory not configured")
	}
	for _, dir := range []string{inbox, storage.Done, storage.Output} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(inbox); err != nil {
		return err
	}
	o.log.WithField("dir", inbox).Info("observer started")

	// Initial scan
	o.scanDirectory(ctx, inbox)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if (event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) && isBrief(event.Name) {
				o.log.WithField("file", event.Name).Debug("change detected")

				// let the writer finish
				select {
				case <-time.After(o.Settle):
				case <-ctx.Done():
					return nil
				}
				o.processFile(ctx, event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			o.log.WithError(err).Warn("watcher error")

		case <-ctx.Done():
			return nil
		}
	}
}

func (o *Observer) scanDirectory(ctx context.Context, dir string) {
	files, err := os.ReadDir(dir)
	if err != nil {
		o.log.WithError(err).Warn("failed to scan directory")
		return
	}
	for _, f := range files {
		if !f.IsDir() && isBrief(f.Name()) {
			o.processFile(ctx, filepath.Join(dir, f.Name()))
		}
	}
}

// processFile builds the deck for one brief. It returns the deck path, or ""
// when nothing was written.
func (o *Observer) processFile(ctx context.Context, path string) string {
	o.incrementTask()
	defer o.decrementTask()

	filename := filepath.Base(path)
	log := o.log.WithField("file", filename)

	data, err := os.ReadFile(path)
	if err != nil {
		// Create and Write often both fire; the first one already moved the file.
		if !os.IsNotExist(err) {
			log.WithError(err).Warn("failed to read brief")
		}
		return ""
	}

	brief, err := ParseBrief(data)
	if err != nil {
		log.WithError(err).Warn("rejected brief")
		o.finalizeFile(path, filename+".failed")
		return ""
	}

	outDir := o.cfg.Application.Storage.Output
	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.WithError(err).Error("failed to create output directory")
		return ""
	}
	slides := brief.Slides
	if slides == 0 {
		slides = o.cfg.Deck.Slides
	}
	b := o.builder
	if brief.Theme != "" {
		b = b.WithTheme(brief.Theme)
	}

	out := filepath.Join(outDir, brief.OutputName())
	log = log.WithField("topic", brief.Topic)
	if _, err := b.Build(ctx, brief.Topic, deck.ClampSlides(slides), out, o.cfg.Images.Key); err != nil {
		log.WithError(err).Error("deck build failed")
		o.finalizeFile(path, filename+".failed")
		return ""
	}
	log.WithField("output", out).Info("brief processed")

	if o.Previews {
		o.renderPreviews(out)
	}

	o.finalizeFile(path, filename)
	return out
}

func (o *Observer) renderPreviews(deckPath string) {
	storage := o.cfg.Application.Storage
	if storage.Thumbnails == "" {
		return
	}
	name := strings.TrimSuffix(filepath.Base(deckPath), filepath.Ext(deckPath))
	pngs, err := pptx.ExtractSlidesToPNG(deckPath, filepath.Join(storage.Thumbnails, name), storage.Temp)
	if err != nil {
		o.log.WithError(err).WithField("deck", deckPath).Warn("failed to render previews")
		return
	}
	o.log.WithField("deck", deckPath).Infof("rendered %d previews", len(pngs))
}

// finalizeFile moves a handled brief into the done directory under name.
func (o *Observer) finalizeFile(path, name string) {
	doneDir := o.cfg.Application.Storage.Done
	if doneDir == "" {
		return
	}
	newPath := filepath.Join(doneDir, name)
	if path == newPath {
		return
	}
	if err := os.MkdirAll(doneDir, 0755); err != nil {
		o.log.WithError(err).Warn("failed to create done directory")
		return
	}
	if err := os.Rename(path, newPath); err != nil {
		o.log.WithError(err).Warnf("failed to move %s to done folder", filepath.Base(path))
		return
	}
	o.log.Debugf("moved %s to %s", filepath.Base(path), newPath)
}

// ReprocessAll moves every handled brief back into the inbox and scans it again.
func (o *Observer) ReprocessAll(ctx context.Context) {
	o.incrementTask()
	defer o.decrementTask()

	inbox := o.cfg.Application.Storage.Inbox
	doneDir := o.cfg.Application.Storage.Done
	if inbox == "" || doneDir == "" {
		return
	}

	files, err := os.ReadDir(doneDir)
	if err == nil {
		for _, file := range files {
			name := strings.TrimSuffix(file.Name(), ".failed")
			if file.IsDir() || !isBrief(name) {
				continue
			}
			if err := os.Rename(filepath.Join(doneDir, file.Name()), filepath.Join(inbox, name)); err != nil {
				o.log.WithError(err).Warnf("failed to move %s back to inbox", file.Name())
			}
		}
	}

	o.log.WithField("dir", inbox).Info("rescanning inbox")
	o.scanDirectory(ctx, inbox)
}

func (o *Observer) IsProcessing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.activeTasks > 0
}
