package observer

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/russross/blackfriday/v2"
)

var ErrNoTopic = errors.New("brief has no heading to use as topic")

// Brief is a deck request dropped into the inbox as Markdown:
//
//	# Renewable Energy
//	- slides: 7
//	- theme: Classic Dark
//	- output: energy.pptx
type Brief struct {
	Topic  string
	Slides int
	Theme  string
	Output string
}

func ParseBrief(data []byte) (Brief, error) {
	var b Brief
	root := blackfriday.New(blackfriday.WithExtensions(blackfriday.CommonExtensions)).Parse(data)

	root.Walk(func(n *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if !entering {
			return blackfriday.GoToNext
		}
		switch n.Type {
		case blackfriday.Heading:
			if b.Topic == "" {
				b.Topic = strings.TrimSpace(nodeText(n))
			}
			return blackfriday.SkipChildren
		case blackfriday.Item:
			b.apply(nodeText(n))
			return blackfriday.SkipChildren
		}
		return blackfriday.GoToNext
	})

	if b.Topic == "" {
		return Brief{}, ErrNoTopic
	}
	return b, nil
}

func (b *Brief) apply(item string) {
	key, value, ok := strings.Cut(item, ":")
	if !ok {
		return
	}
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "slides", "count":
		if n, err := strconv.Atoi(value); err == nil {
			b.Slides = n
		}
	case "theme":
		b.Theme = value
	case "output", "file":
		b.Output = value
	}
}

func nodeText(n *blackfriday.Node) string {
	var sb strings.Builder
	n.Walk(func(c *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if entering && (c.Type == blackfriday.Text || c.Type == blackfriday.Code) {
			sb.Write(c.Literal)
		}
		return blackfriday.GoToNext
	})
	return sb.String()
}

// OutputName returns the .pptx file name for the brief, derived from the
// topic when no output is given. Directory parts are dropped.
func (b Brief) OutputName() string {
	name := strings.TrimSpace(b.Output)
	if name != "" {
		name = lastElem(name)
	}
	if name == "" || name == "." || name == ".." {
		name = slug(b.Topic)
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pptx") {
		name += ".pptx"
	}
	return name
}

func lastElem(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

func slug(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
		} else if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(sb.String(), "-")
	if out == "" {
		return "deck"
	}
	return out
}
