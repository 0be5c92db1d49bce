package deck

import "github.com/gnemet/DeckForge/internal/outline"

// Layout is the rendering strategy picked for one slide.
type Layout string

const (
	LayoutTitle   Layout = "title"
	LayoutContent Layout = "content"
	LayoutImage   Layout = "image"
)

// IsTitleSlide reports whether the slide at 1-based position i uses the
// title layout. The first slide always does.
func IsTitleSlide(i int, kind outline.Kind) bool {
	return i == 1 || kind == outline.KindTitle
}

// ShouldForceImage reports whether a content-layout slide at position i asks
// for a picture. Every even position does, whatever its declared kind; the
// picture is still skipped when the slide has no image query.
func ShouldForceImage(i int, kind outline.Kind) bool {
	return LayoutFor(i, kind) == LayoutContent && i%2 == 0
}

func LayoutFor(i int, kind outline.Kind) Layout {
	switch {
	case IsTitleSlide(i, kind):
		return LayoutTitle
	case kind == outline.KindImage:
		return LayoutImage
	default:
		return LayoutContent
	}
}

// Slide count bounds offered to users. The builder itself does not enforce them.
const (
	MinSlides     = 3
	MaxSlides     = 15
	DefaultSlides = 5
)

// ClampSlides maps a requested count into [MinSlides, MaxSlides]; zero or
// negative means DefaultSlides.
func ClampSlides(n int) int {
	switch {
	case n <= 0:
		return DefaultSlides
	case n < MinSlides:
		return MinSlides
	case n > MaxSlides:
		return MaxSlides
	default:
		return n
	}
}
