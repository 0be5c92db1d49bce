package pptx

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 74, G: 144, B: 226, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func buildSample(t *testing.T) *Presentation {
	t.Helper()
	p := New()

	title := p.AddSlide(LayoutTitle)
	title.Title().Text.SetText("Cats & Dogs")
	title.Placeholder(1).Text.SetText("Generated by Groq AI")
	title.SetBackground(Color{R: 0, G: 102, B: 204})

	content := p.AddSlide(LayoutTitleAndContent)
	content.Title().Text.SetText("Key Concepts")
	body := content.Placeholder(1)
	body.Text.SetText("• Main principles\n• Core ideas")
	for _, para := range body.Text.Paragraphs {
		para.Font = Font{Name: "Calibri", Size: 24, Color: &Color{R: 255, G: 215}}
	}
	_, err := content.AddPicture(pngBytes(t, 80, 60), Inches(5), Inches(2), Inches(4))
	require.NoError(t, err)

	blank := p.AddSlide(LayoutBlank)
	box := blank.AddTextbox(Rect{X: Inches(0.5), Y: Inches(0.5), CX: Inches(9), CY: Inches(1)})
	box.Text.SetText("Gallery")
	_, err = blank.AddPicture(pngBytes(t, 40, 40), Inches(5), Inches(2), Inches(5))
	require.NoError(t, err)

	return p
}

func TestSaveAndExtractRoundTrip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "deck.pptx")
	require.NoError(t, buildSample(t).Save(out))

	slides, err := OrderedSlides(out)
	require.NoError(t, err)
	require.Len(t, slides, 3)

	first := slides[0].Styles
	assert.Equal(t, "title", first.Layout)
	assert.Equal(t, "Cats & Dogs", first.Title())
	assert.Equal(t, "#0066CC", first.Background)
	assert.Equal(t, 0, first.Pictures)

	second := slides[1].Styles
	assert.Equal(t, "titleAndContent", second.Layout)
	assert.Equal(t, "Key Concepts", second.Title())
	assert.Equal(t, 1, second.Pictures)
	require.Len(t, second.Shapes, 2)
	bodyShape := second.Shapes[1]
	assert.Equal(t, "body", bodyShape.Type)
	assert.Equal(t, "• Main principles\n• Core ideas", bodyShape.Text())
	for _, run := range bodyShape.Runs {
		assert.Equal(t, "Calibri", run.Font)
		assert.Equal(t, 24, run.Size)
		assert.Equal(t, "#FFD700", run.Color)
	}

	third := slides[2].Styles
	assert.Equal(t, "blank", third.Layout)
	assert.Equal(t, "", third.Title())
	assert.Equal(t, 1, third.Pictures)
	require.Len(t, third.Shapes, 1)
	assert.Equal(t, "other", third.Shapes[0].Type)
}

func TestPackageParts(t *testing.T) {
	var buf bytes.Buffer
	n, err := buildSample(t).WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout3.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide3.xml",
		"ppt/media/image1.png",
		"ppt/media/image2.png",
	} {
		assert.True(t, names[want], "missing part %s", want)
	}
}

func TestSlideRelsMatchEmbeds(t *testing.T) {
	p := New()
	s := p.AddSlide(LayoutBlank)
	_, err := s.AddPicture(pngBytes(t, 10, 10), 0, 0, Inches(1))
	require.NoError(t, err)
	_, err = s.AddPicture(pngBytes(t, 20, 10), 0, 0, Inches(1))
	require.NoError(t, err)
	p.assignMedia()

	rels := slideRelsXML(s)
	assert.Contains(t, rels, `Target="../slideLayouts/slideLayout3.xml"`)
	assert.Contains(t, rels, `Id="rId2" Type="`+relBase+`image" Target="../media/image1.png"`)
	assert.Contains(t, rels, `Id="rId3" Type="`+relBase+`image" Target="../media/image2.png"`)

	xml := slideXML(s)
	assert.Contains(t, xml, `r:embed="rId2"`)
	assert.Contains(t, xml, `r:embed="rId3"`)
}

func TestAddPictureKeepsAspectRatio(t *testing.T) {
	s := New().AddSlide(LayoutBlank)
	pic, err := s.AddPicture(pngBytes(t, 800, 600), Inches(5), Inches(2), Inches(4))
	require.NoError(t, err)

	assert.Equal(t, Inches(4), pic.Frame.CY)
	assert.Equal(t, Inches(4)*4/3, pic.Frame.CX)
	assert.Equal(t, Inches(5), pic.Frame.X)
}

func TestAddPictureRejectsGarbage(t *testing.T) {
	s := New().AddSlide(LayoutBlank)
	_, err := s.AddPicture([]byte("not an image"), 0, 0, Inches(1))
	assert.Error(t, err)
	assert.Empty(t, s.Pictures())
}

func TestSetTextSplitsParagraphs(t *testing.T) {
	tf := &TextFrame{}
	tf.SetText("a\nb\n\nc")
	require.Len(t, tf.Paragraphs, 4)
	assert.Equal(t, "a\nb\n\nc", tf.Text())

	var b strings.Builder
	writeTextBody(&b, tf, `<a:bodyPr/>`)
	assert.Equal(t, 3, strings.Count(b.String(), "<a:r>"))
}

func TestThemeFontsFollowPresentation(t *testing.T) {
	x := themeXML("Times New Roman", "Arial")
	assert.Contains(t, x, `<a:majorFont><a:latin typeface="Times New Roman"/>`)
	assert.Contains(t, x, `<a:minorFont><a:latin typeface="Arial"/>`)
}

func TestNormalizePlaceholder(t *testing.T) {
	assert.Equal(t, "title", normalizePlaceholder("ctrTitle"))
	assert.Equal(t, "title", normalizePlaceholder("title"))
	assert.Equal(t, "subtitle", normalizePlaceholder("subTitle"))
	assert.Equal(t, "body", normalizePlaceholder(""))
	assert.Equal(t, "other", normalizePlaceholder("dt"))
}
