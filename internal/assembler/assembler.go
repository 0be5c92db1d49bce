package assembler

import (
	"context"
	"fmt"
	"os"

	"github.com/gnemet/DeckForge/internal/imagesource"
	"github.com/gnemet/DeckForge/internal/outline"
	"github.com/gnemet/DeckForge/internal/pptx"
	"github.com/gnemet/DeckForge/internal/theme"
	"github.com/sirupsen/logrus"
)

// ImageSource writes an image for query to dest. *imagesource.Provider
// satisfies it.
type ImageSource interface {
	Fetch(ctx context.Context, query, dest, apiKey string) (imagesource.Result, error)
}

var (
	contentPicture = pptx.Rect{X: pptx.Inches(5), Y: pptx.Inches(2), CY: pptx.Inches(4)}
	imagePicture   = pptx.Rect{X: pptx.Inches(5), Y: pptx.Inches(2), CY: pptx.Inches(5)}
	imageTitleBox  = pptx.Rect{X: pptx.Inches(0.5), Y: pptx.Inches(0.5), CX: pptx.Inches(9), CY: pptx.Inches(1)}
	imageBodyBox   = pptx.Rect{X: pptx.Inches(0.5), Y: pptx.Inches(2), CX: pptx.Inches(4), CY: pptx.Inches(5)}
)

// Assembler appends themed slides to a presentation. One Assembler serves
// one deck build.
type Assembler struct {
	theme   theme.Spec
	images  ImageSource
	tempDir string
	log     *logrus.Entry

	imageFallbacks int
}

func New(th theme.Spec, images ImageSource, tempDir string, log *logrus.Entry) *Assembler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Assembler{theme: th, images: images, tempDir: tempDir, log: log}
}

// ImageFallbacks counts embedded placeholders so far.
func (a *Assembler) ImageFallbacks() int {
	return a.imageFallbacks
}

// TitleSlide adds a title slide. Only the background and title are styled.
func (a *Assembler) TitleSlide(doc *pptx.Presentation, title, subtitle string) *pptx.Slide {
	s := doc.AddSlide(pptx.LayoutTitle)
	s.Title().Text.SetText(title)
	if subtitle != "" {
		s.Placeholder(1).Text.SetText(subtitle)
	}
	a.applyTheme(s, false)
	return s
}

// ContentSlide adds a title-and-content slide. A picture is embedded only
// when includeImage is set and imageQuery is non-empty.
func (a *Assembler) ContentSlide(ctx context.Context, doc *pptx.Presentation, title string, content outline.Content, includeImage bool, imageQuery, apiKey string) (*pptx.Slide, error) {
	s := doc.AddSlide(pptx.LayoutTitleAndContent)
	s.Title().Text.SetText(title)
	s.Placeholder(1).Text.SetText(content.Render())
	a.applyTheme(s, true)

	if includeImage && imageQuery != "" {
		if err := a.embedImage(ctx, s, imageQuery, apiKey, contentPicture); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ImageSlide adds a blank-layout slide with free text boxes and a picture,
// which is always fetched.
func (a *Assembler) ImageSlide(ctx context.Context, doc *pptx.Presentation, title string, content outline.Content, imageQuery, apiKey string) (*pptx.Slide, error) {
	s := doc.AddSlide(pptx.LayoutBlank)
	s.AddTextbox(imageTitleBox).Text.SetText(title)
	s.AddTextbox(imageBodyBox).Text.SetText(content.Render())
	a.applyTheme(s, true)

	if err := a.embedImage(ctx, s, imageQuery, apiKey, imagePicture); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *Assembler) embedImage(ctx context.Context, s *pptx.Slide, query, apiKey string, at pptx.Rect) error {
	f, err := os.CreateTemp(a.tempDir, "slide-image-*.jpg")
	if err != nil {
		return fmt.Errorf("create temp image: %w", err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	res, err := a.images.Fetch(ctx, query, path, apiKey)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	placeholder := res.Placeholder
	if _, err := s.AddPicture(data, at.X, at.Y, at.CY); err != nil {
		if placeholder {
			return fmt.Errorf("embed image: %w", err)
		}
		a.log.WithFields(logrus.Fields{"query": query, "reason": err.Error()}).Warn("image unusable, using placeholder")
		if err := a.embedPlaceholder(s, path, at); err != nil {
			return err
		}
		placeholder = true
	}
	if placeholder {
		a.imageFallbacks++
	}
	a.log.WithFields(logrus.Fields{"query": query, "placeholder": placeholder}).Debug("image embedded")
	return nil
}

func (a *Assembler) embedPlaceholder(s *pptx.Slide, path string, at pptx.Rect) error {
	if err := imagesource.WritePlaceholder(path); err != nil {
		return fmt.Errorf("write placeholder: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	if _, err := s.AddPicture(data, at.X, at.Y, at.CY); err != nil {
		return fmt.Errorf("embed image: %w", err)
	}
	return nil
}

// applyTheme fills the background and styles the title placeholder. With
// body set, every other text shape gets the body family and size in the
// accent color; the body font color is not used.
func (a *Assembler) applyTheme(s *pptx.Slide, body bool) {
	th := a.theme
	s.SetBackground(pptxColor(th.Background))

	title := s.Title()
	if title != nil && len(title.Text.Paragraphs) > 0 {
		c := pptxColor(th.Title.Color)
		title.Text.Paragraphs[0].Font = pptx.Font{Name: th.Title.Family, Size: th.Title.Size, Color: &c}
	}

	if !body {
		return
	}
	accent := pptxColor(th.Accent)
	for _, sh := range s.Shapes {
		if !sh.HasTextFrame() || sh == title {
			continue
		}
		for _, p := range sh.Text.Paragraphs {
			c := accent
			p.Font = pptx.Font{Name: th.Body.Family, Size: th.Body.Size, Color: &c}
		}
	}
}

func pptxColor(c theme.Color) pptx.Color {
	return pptx.Color{R: c.R, G: c.G, B: c.B}
}
