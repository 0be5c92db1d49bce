package outline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	reply   string
	err     error
	prompts []string
}

func (m *stubModel) GenerateContent(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.reply, m.err
}

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

var fallbackTitles = []string{"Introduction to Rust", "Key Concepts", "Applications", "Challenges", "Conclusion"}

func TestFallbackIgnoresCountWhenModelFails(t *testing.T) {
	g := NewGenerator(&stubModel{err: errors.New("connection refused")}, quietLog())
	for n := 1; n <= 50; n++ {
		res := g.Generate(context.Background(), "Rust", n)
		require.True(t, res.Fallback, "n=%d", n)
		require.Error(t, res.Reason)
		assert.Equal(t, fallbackTitles, res.Outline.Titles(), "n=%d", n)
	}
}

func TestFallbackContent(t *testing.T) {
	o := Fallback("Tides")
	require.Len(t, o, 5)
	assert.Equal(t, KindTitle, o[0].Kind)
	assert.Equal(t, KindConclusion, o[4].Kind)
	assert.Equal(t, "• Overview\n• Objectives", o[0].Content.Render())
	assert.Equal(t, "• Limitations\n• Ethics", o[3].Content.Render())
	for _, d := range o {
		assert.Empty(t, d.ImageQuery)
	}
}

func TestGenerateParsesFencedReply(t *testing.T) {
	m := &stubModel{reply: "Sure!\n```json\n" + `[
		{"title": "Welcome", "content": ["a", "b"], "slide_type": "title", "image_prompt": ""},
		{"title": "Details", "content": "plain text", "slide_type": "content", "image_prompt": "ocean waves"},
		{"title": "Gallery", "content": ["c"], "slide_type": "image", "image_prompt": "reef"}
	]` + "\n```\nEnjoy."}
	g := NewGenerator(m, quietLog())

	res := g.Generate(context.Background(), "Oceans", 7)
	require.False(t, res.Fallback)
	assert.NoError(t, res.Reason)
	require.Len(t, res.Outline, 3, "length follows the model, not the request")

	assert.Equal(t, Descriptor{Title: "Details", Content: Text("plain text"), Kind: KindContent, ImageQuery: "ocean waves"}, res.Outline[1])
	assert.Equal(t, KindImage, res.Outline[2].Kind)

	require.Len(t, m.prompts, 1)
	assert.Contains(t, m.prompts[0], `topic: "Oceans" with 7 slides`)
}

func TestMalformedReplyFallsBack(t *testing.T) {
	cases := map[string]string{
		"prose":           "I cannot help with that.",
		"object":          `{"title": "x", "content": ["y"]}`,
		"empty array":     "[]",
		"missing title":   `[{"content": ["a"]}]`,
		"blank title":     `[{"title": "  ", "content": ["a"]}]`,
		"missing content": `[{"title": "A"}]`,
		"numeric content": `[{"title": "A", "content": 4}]`,
		"mixed list":      `[{"title": "A", "content": ["a", 2]}]`,
		"null bullet":     `[{"title": "A", "content": ["a", null]}]`,
		"title not text":  `[{"title": ["A"], "content": ["a"]}]`,
		"null slide":      `[null]`,
		"empty":           "",
	}
	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			g := NewGenerator(&stubModel{reply: reply}, quietLog())
			res := g.Generate(context.Background(), "Rust", 4)
			assert.True(t, res.Fallback)
			var pe *ParseError
			assert.ErrorAs(t, res.Reason, &pe)
			assert.Equal(t, fallbackTitles, res.Outline.Titles())
		})
	}
}

func TestParseRepairsTrailingComma(t *testing.T) {
	o, err := Parse(`[{"title": "A", "content": ["x", "y"],},]`)
	require.NoError(t, err)
	require.Len(t, o, 1)
	assert.Equal(t, []string{"x", "y"}, o[0].Content.Bullets)
}

func TestParseErrorNamesSlide(t *testing.T) {
	_, err := Parse(`[{"title": "A", "content": ["a"]}, {"title": "B"}]`)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Index)
	assert.Equal(t, "outline: slide 2: missing content", err.Error())
}

func TestParseRejectsNullBullet(t *testing.T) {
	o, err := Parse(`[{"title": "A", "content": ["a", null]}]`)
	assert.Nil(t, o)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 0, pe.Index)
	assert.Contains(t, err.Error(), "item 2 is null")
}

func TestParseDefaultsKind(t *testing.T) {
	o, err := Parse(`[{"title": "A", "content": "x"}, {"title": "B", "content": "y", "slide_type": "Quote"}, {"title": "C", "content": "z", "slide_type": "image", "image_prompt": null}]`)
	require.NoError(t, err)
	assert.Equal(t, KindContent, o[0].Kind)
	assert.Equal(t, KindContent, o[1].Kind)
	assert.Equal(t, KindImage, o[2].Kind)
	assert.Empty(t, o[2].ImageQuery)
}

func TestParseKindIsCaseSensitive(t *testing.T) {
	cases := map[string]Kind{
		"title":      KindTitle,
		"image":      KindImage,
		"conclusion": KindConclusion,
		"content":    KindContent,
		"Title":      KindContent,
		"IMAGE":      KindContent,
		" image":     KindContent,
		"":           KindContent,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseKind(in), "%q", in)
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"[1]", "[1]"},
		{"```json\n[1]\n```", "[1]"},
		{"text ```json [2] ``` more ```json [3]```", "[2]"},
		{"```\n[4]\n```", "[4]"},
		{"```JSON\n[5]\n```", "[5]"},
		{"before ``` [6] ``` after", "[6]"},
		{"```json\n[7]", "[7]"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StripFences(c.in), c.in)
	}
}

func TestRenderContent(t *testing.T) {
	assert.Equal(t, "• one\n• two", Bullets("one", "two").Render())
	assert.Equal(t, "as is", Text("as is").Render())
	assert.Equal(t, "", Bullets().Render())
}

func TestNilModelFallsBack(t *testing.T) {
	res := NewGenerator(nil, quietLog()).Generate(context.Background(), "Rust", 3)
	assert.True(t, res.Fallback)
}

func ExampleContent_Render() {
	fmt.Println(Bullets("Overview", "Objectives").Render())
	// Output:
	// • Overview
	// • Objectives
}
