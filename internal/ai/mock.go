package ai

import (
	"context"
	"strings"
)

// mockDriver answers without any network call, for local runs and demos.
// The reply is fenced the way hosted models usually fence JSON.
type mockDriver struct{}

const mockOutline = "Here is your outline:\n```json\n" + `[
  {"title": "Overview", "content": ["What it is", "Why it matters"], "slide_type": "title", "image_prompt": ""},
  {"title": "How It Works", "content": ["Inputs", "Process", "Outputs"], "slide_type": "content", "image_prompt": "diagram"},
  {"title": "In Pictures", "content": "A visual tour of the subject.", "slide_type": "image", "image_prompt": "landscape"},
  {"title": "Wrap-up", "content": ["Key takeaways", "Questions"], "slide_type": "conclusion", "image_prompt": ""}
]` + "\n```"

func (mockDriver) complete(_ context.Context, prompt string) (string, Usage, error) {
	words := len(strings.Fields(prompt))
	return mockOutline, Usage{PromptTokens: words, CompletionTokens: 80, TotalTokens: words + 80}, nil
}

func (mockDriver) close() error { return nil }
