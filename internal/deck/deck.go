package deck

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gnemet/DeckForge/internal/assembler"
	"github.com/gnemet/DeckForge/internal/metrics"
	"github.com/gnemet/DeckForge/internal/outline"
	"github.com/gnemet/DeckForge/internal/pptx"
	"github.com/gnemet/DeckForge/internal/theme"
	"github.com/sirupsen/logrus"
)

const DefaultSubtitle = "Generated by Groq AI"

var ErrNoModel = errors.New("deck: a text model is required")

// Run summarizes one finished build.
type Run struct {
	Topic           string
	Theme           string
	Requested       int
	Slides          int
	OutlineFallback bool
	OutlineReason   string
	ImageFallbacks  int
	OutputPath      string
	Started         time.Time
	Duration        time.Duration
}

// Recorder is told about every deck that was written.
type Recorder interface {
	RecordRun(ctx context.Context, r Run) error
}

type Options struct {
	Theme    string
	Subtitle string
	TempDir  string
	Log      *logrus.Entry
	Metrics  *metrics.Metrics
	Recorder Recorder
}

// Builder turns a topic into a saved presentation. It holds only shared,
// read-only collaborators, so one Builder can serve concurrent builds.
type Builder struct {
	outlines *outline.Generator
	images   assembler.ImageSource
	themes   *theme.Registry
	theme    string
	subtitle string
	tempDir  string
	log      *logrus.Entry
	metrics  *metrics.Metrics
	recorder Recorder
}

func New(model outline.Model, images assembler.ImageSource, themes *theme.Registry, opts Options) (*Builder, error) {
	if model == nil {
		return nil, ErrNoModel
	}
	if themes == nil {
		themes = theme.Builtin()
	}
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	if opts.Subtitle == "" {
		opts.Subtitle = DefaultSubtitle
	}
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	return &Builder{
		outlines: outline.NewGenerator(model, opts.Log),
		images:   images,
		themes:   themes,
		theme:    opts.Theme,
		subtitle: opts.Subtitle,
		tempDir:  opts.TempDir,
		log:      opts.Log,
		metrics:  opts.Metrics,
		recorder: opts.Recorder,
	}, nil
}

// WithTheme returns a copy of b that renders with the named theme.
func (b *Builder) WithTheme(name string) *Builder {
	c := *b
	c.theme = name
	return &c
}

// Build generates the deck and writes it to outputPath.
func (b *Builder) Build(ctx context.Context, topic string, count int, outputPath, imageKey string) (string, error) {
	run, err := b.BuildRun(ctx, topic, count, outputPath, imageKey)
	if err != nil {
		return "", err
	}
	return run.OutputPath, nil
}

// BuildRun is Build returning the run summary.
func (b *Builder) BuildRun(ctx context.Context, topic string, count int, outputPath, imageKey string) (Run, error) {
	started := time.Now()
	th := b.themes.Lookup(b.theme)
	log := b.log.WithFields(logrus.Fields{"topic": topic, "theme": th.Name})

	if err := os.MkdirAll(b.tempDir, 0755); err != nil {
		return Run{}, fmt.Errorf("temp dir: %w", err)
	}

	res := b.outlines.Generate(ctx, topic, count)
	if res.Fallback {
		b.metrics.OutlineFallback()
	}

	doc := pptx.New()
	doc.Title = topic
	doc.MajorFont = th.Title.Family
	doc.MinorFont = th.Body.Family

	asm := assembler.New(th, b.images, b.tempDir, log)
	for idx, d := range res.Outline {
		i := idx + 1
		layout := LayoutFor(i, d.Kind)
		var err error
		switch layout {
		case LayoutTitle:
			asm.TitleSlide(doc, d.Title, b.subtitle)
		case LayoutImage:
			_, err = asm.ImageSlide(ctx, doc, d.Title, d.Content, d.ImageQuery, imageKey)
		default:
			_, err = asm.ContentSlide(ctx, doc, d.Title, d.Content, ShouldForceImage(i, d.Kind), d.ImageQuery, imageKey)
		}
		if err != nil {
			return Run{}, fmt.Errorf("slide %d: %w", i, err)
		}
		b.metrics.SlideRendered(string(layout))
		log.WithFields(logrus.Fields{"slide": i, "layout": layout}).Debug("slide added")
	}
	for n := 0; n < asm.ImageFallbacks(); n++ {
		b.metrics.ImageFallback()
	}

	if err := doc.Save(outputPath); err != nil {
		return Run{}, fmt.Errorf("save presentation: %w", err)
	}

	run := Run{
		Topic:           topic,
		Theme:           th.Name,
		Requested:       count,
		Slides:          len(res.Outline),
		OutlineFallback: res.Fallback,
		ImageFallbacks:  asm.ImageFallbacks(),
		OutputPath:      outputPath,
		Started:         started,
		Duration:        time.Since(started),
	}
	if res.Reason != nil {
		run.OutlineReason = res.Reason.Error()
	}
	b.metrics.DeckGenerated(th.Name, run.Duration)
	log.WithFields(logrus.Fields{"slides": run.Slides, "path": outputPath}).Info("deck saved")

	if b.recorder != nil {
		if err := b.recorder.RecordRun(ctx, run); err != nil {
			log.WithError(err).Warn("failed to record run")
		}
	}
	return run, nil
}
