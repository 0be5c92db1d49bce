package pptx

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

// EMU is an English Metric Unit, 914400 per inch.
type EMU int64

const (
	emuPerInch  = 914400
	emuPerPoint = 12700

	SlideWidth  EMU = 9144000
	SlideHeight EMU = 6858000
)

func Inches(v float64) EMU {
	return EMU(v * emuPerInch)
}

func Points(v float64) EMU {
	return EMU(v * emuPerPoint)
}

// Color is an sRGB triple written as <a:srgbClr>.
type Color struct {
	R, G, B uint8
}

func (c Color) hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Layout selects one of the slide layouts shipped with every document.
type Layout int

const (
	LayoutTitle Layout = iota
	LayoutTitleAndContent
	LayoutBlank
)

func (l Layout) String() string {
	switch l {
	case LayoutTitle:
		return "title"
	case LayoutTitleAndContent:
		return "titleAndContent"
	case LayoutBlank:
		return "blank"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// ShapeKind distinguishes placeholders, free text boxes and pictures.
type ShapeKind int

const (
	ShapePlaceholder ShapeKind = iota
	ShapeTextbox
	ShapePicture
)

// Placeholder types, as written in <p:ph type="...">.
const (
	PhCenteredTitle = "ctrTitle"
	PhTitle         = "title"
	PhSubtitle      = "subTitle"
	PhBody          = "body"
)

// Rect is a position and extent on the slide.
type Rect struct {
	X, Y, CX, CY EMU
}

// Font holds run properties. Zero values inherit from the layout.
type Font struct {
	Name  string
	Size  float64 // points
	Color *Color
}

type Paragraph struct {
	Text string
	Font Font
}

type TextFrame struct {
	Paragraphs []*Paragraph
}

// SetText replaces the frame content; each line becomes one paragraph.
func (tf *TextFrame) SetText(s string) {
	lines := strings.Split(s, "\n")
	tf.Paragraphs = make([]*Paragraph, 0, len(lines))
	for _, l := range lines {
		tf.Paragraphs = append(tf.Paragraphs, &Paragraph{Text: l})
	}
}

func (tf *TextFrame) Text() string {
	lines := make([]string, len(tf.Paragraphs))
	for i, p := range tf.Paragraphs {
		lines[i] = p.Text
	}
	return strings.Join(lines, "\n")
}

type Shape struct {
	ID          int
	Name        string
	Kind        ShapeKind
	Placeholder string
	Idx         int
	Frame       Rect
	Text        *TextFrame

	media *Media
}

func (s *Shape) HasTextFrame() bool {
	return s.Text != nil
}

func (s *Shape) IsTitle() bool {
	return s.Kind == ShapePlaceholder && (s.Placeholder == PhTitle || s.Placeholder == PhCenteredTitle)
}

// Media is an embedded image part.
type Media struct {
	Name   string // e.g. image3.jpeg
	Ext    string
	Data   []byte
	Width  int
	Height int
}

type Slide struct {
	Layout     Layout
	Background *Color
	Shapes     []*Shape

	nextID int
}

// Title returns the slide's title placeholder, or nil when the layout has none.
func (s *Slide) Title() *Shape {
	for _, sh := range s.Shapes {
		if sh.IsTitle() {
			return sh
		}
	}
	return nil
}

// Placeholder returns the placeholder with the given idx (title is idx 0).
func (s *Slide) Placeholder(idx int) *Shape {
	for _, sh := range s.Shapes {
		if sh.Kind == ShapePlaceholder && sh.Idx == idx {
			return sh
		}
	}
	return nil
}

func (s *Slide) SetBackground(c Color) {
	s.Background = &c
}

func (s *Slide) Pictures() []*Shape {
	var pics []*Shape
	for _, sh := range s.Shapes {
		if sh.Kind == ShapePicture {
			pics = append(pics, sh)
		}
	}
	return pics
}

func (s *Slide) addShape(sh *Shape) *Shape {
	s.nextID++
	sh.ID = s.nextID
	s.Shapes = append(s.Shapes, sh)
	return sh
}

// AddTextbox places a free text box.
func (s *Slide) AddTextbox(frame Rect) *Shape {
	return s.addShape(&Shape{
		Name:  fmt.Sprintf("TextBox %d", s.nextID),
		Kind:  ShapeTextbox,
		Frame: frame,
		Text:  &TextFrame{},
	})
}

// AddPicture embeds an image at (x, y). The width follows the image aspect ratio.
func (s *Slide) AddPicture(data []byte, x, y, height EMU) (*Shape, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Height == 0 {
		return nil, fmt.Errorf("image has zero height")
	}
	width := EMU(float64(height) * float64(cfg.Width) / float64(cfg.Height))
	m := &Media{Ext: format, Data: data, Width: cfg.Width, Height: cfg.Height}
	return s.addShape(&Shape{
		Name:  fmt.Sprintf("Picture %d", s.nextID),
		Kind:  ShapePicture,
		Frame: Rect{X: x, Y: y, CX: width, CY: height},
		media: m,
	}), nil
}

// Presentation is an in-memory deck. Slides are appended in order and the
// whole package is written once by Save.
type Presentation struct {
	// MajorFont and MinorFont populate the theme font scheme.
	MajorFont string
	MinorFont string
	Title     string
	Creator   string

	slides []*Slide
}

func New() *Presentation {
	return &Presentation{MajorFont: "Calibri", MinorFont: "Calibri", Creator: "DeckForge"}
}

// AddSlide appends a slide with the layout's placeholders already in place.
func (p *Presentation) AddSlide(layout Layout) *Slide {
	s := &Slide{Layout: layout, nextID: 1}
	for _, ph := range layoutPlaceholders[layout] {
		s.addShape(&Shape{
			Name:        ph.name,
			Kind:        ShapePlaceholder,
			Placeholder: ph.typ,
			Idx:         ph.idx,
			Frame:       ph.frame,
			Text:        &TextFrame{},
		})
	}
	p.slides = append(p.slides, s)
	return s
}

func (p *Presentation) Slides() []*Slide {
	return p.slides
}

type placeholderDef struct {
	name  string
	typ   string
	idx   int
	frame Rect
}

var (
	titleFrame    = Rect{X: 457200, Y: 274638, CX: 8229600, CY: 1143000}
	bodyFrame     = Rect{X: 457200, Y: 1600200, CX: 8229600, CY: 4525963}
	ctrTitleFrame = Rect{X: 685800, Y: 2130425, CX: 7772400, CY: 1470025}
	subTitleFrame = Rect{X: 1371600, Y: 3886200, CX: 6400800, CY: 1752600}
)

var layoutPlaceholders = map[Layout][]placeholderDef{
	LayoutTitle: {
		{name: "Title 1", typ: PhCenteredTitle, idx: 0, frame: ctrTitleFrame},
		{name: "Subtitle 2", typ: PhSubtitle, idx: 1, frame: subTitleFrame},
	},
	LayoutTitleAndContent: {
		{name: "Title 1", typ: PhTitle, idx: 0, frame: titleFrame},
		{name: "Content Placeholder 2", typ: PhBody, idx: 1, frame: bodyFrame},
	},
	LayoutBlank: nil,
}
