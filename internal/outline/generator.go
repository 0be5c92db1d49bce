package outline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Model is a text-completion backend. *ai.Client satisfies it.
type Model interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Result carries the outline and whether it came from the fallback path.
// Reason is set only when Fallback is true.
type Result struct {
	Outline  Outline
	Fallback bool
	Reason   error
}

type Generator struct {
	model Model
	log   *logrus.Entry
}

func NewGenerator(model Model, log *logrus.Entry) *Generator {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Generator{model: model, log: log}
}

// Prompt asks for a JSON array of count slides about topic.
func Prompt(topic string, count int) string {
	return fmt.Sprintf(`Generate a PowerPoint outline for topic: %q with %d slides.
Return JSON array like:
[
    {
        "title": "Slide Title",
        "content": ["Bullet point 1", "Bullet point 2"],
        "slide_type": "title|content|image|conclusion",
        "image_prompt": "Optional image description"
    }
]`, topic, count)
}

// Generate never fails: any model or parse problem yields Fallback(topic).
// The model may return more or fewer slides than count; that is kept as is.
func (g *Generator) Generate(ctx context.Context, topic string, count int) Result {
	log := g.log.WithField("topic", topic)

	if g.model == nil {
		return g.fallback(log, topic, fmt.Errorf("outline: no model configured"))
	}

	raw, err := g.model.GenerateContent(ctx, Prompt(topic, count))
	if err != nil {
		return g.fallback(log, topic, fmt.Errorf("outline request: %w", err))
	}

	o, err := Parse(raw)
	if err != nil {
		return g.fallback(log, topic, err)
	}

	log.WithFields(logrus.Fields{"requested": count, "slides": len(o)}).Info("outline generated")
	return Result{Outline: o}
}

func (g *Generator) fallback(log *logrus.Entry, topic string, reason error) Result {
	log.WithField("reason", reason.Error()).Warn("using fallback outline")
	return Result{Outline: Fallback(topic), Fallback: true, Reason: reason}
}
