package outline

import (
	"fmt"
	"strings"
)

// Kind is the declared purpose of a slide.
type Kind string

const (
	KindTitle      Kind = "title"
	KindContent    Kind = "content"
	KindImage      Kind = "image"
	KindConclusion Kind = "conclusion"
)

// ParseKind maps model output onto a Kind. Matching is exact, so "Title" or
// " image" is content like any other unknown or empty value.
func ParseKind(s string) Kind {
	switch k := Kind(s); k {
	case KindTitle, KindImage, KindConclusion:
		return k
	default:
		return KindContent
	}
}

const bulletGlyph = "• "

// Content is either an ordered bullet list or one block of text.
type Content struct {
	Bullets []string
	Text    string
	IsList  bool
}

func Bullets(items ...string) Content {
	return Content{Bullets: items, IsList: true}
}

func Text(s string) Content {
	return Content{Text: s}
}

// Render returns the text placed in a slide body: one "• item" line per
// bullet, or the text block unchanged.
func (c Content) Render() string {
	if !c.IsList {
		return c.Text
	}
	lines := make([]string, len(c.Bullets))
	for i, b := range c.Bullets {
		lines[i] = bulletGlyph + b
	}
	return strings.Join(lines, "\n")
}

// Descriptor is one slide before layout.
type Descriptor struct {
	Title      string
	Content    Content
	Kind       Kind
	ImageQuery string
}

type Outline []Descriptor

func (o Outline) Titles() []string {
	titles := make([]string, len(o))
	for i, d := range o {
		titles[i] = d.Title
	}
	return titles
}

// Fallback is the fixed five-slide outline used whenever the model cannot
// provide one. The requested slide count does not apply.
func Fallback(topic string) Outline {
	return Outline{
		{Title: fmt.Sprintf("Introduction to %s", topic), Content: Bullets("Overview", "Objectives"), Kind: KindTitle},
		{Title: "Key Concepts", Content: Bullets("Main principles", "Core ideas"), Kind: KindContent},
		{Title: "Applications", Content: Bullets("Examples", "Case studies"), Kind: KindContent},
		{Title: "Challenges", Content: Bullets("Limitations", "Ethics"), Kind: KindContent},
		{Title: "Conclusion", Content: Bullets("Summary", "Next steps"), Kind: KindConclusion},
	}
}
