// Package reply drafts automatic replies to comments with a generative
// text backend.
package reply

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// FallbackReply is returned whenever generation fails. Auto-reply must never
// block or error the pipeline.
const FallbackReply = "Thank you for your comment!"

// TextModel is a single-shot generative text backend.
type TextModel interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Generator turns a post/comment pair into a reply written as the post's
// author. It never fails; one model call per invocation, no retry, no cache.
type Generator struct {
	model TextModel
}

func NewGenerator(model TextModel) *Generator {
	return &Generator{model: model}
}

// Reply generates a reply to commentContent in the context of postContent
func (g *Generator) Reply(ctx context.Context, postContent, commentContent string) string {
	prompt := buildPrompt(postContent, commentContent)

	text, err := g.model.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("Reply generation failed, using fallback: %v", err)
		return FallbackReply
	}

	text = strings.TrimSpace(text)
	if text == "" {
		log.Printf("Reply generation returned empty output, using fallback")
		return FallbackReply
	}

	return text
}

func buildPrompt(postContent, commentContent string) string {
	return fmt.Sprintf(
		"Post: %q\n\nComment: %q\n\nAs the author of the post, write a reply to this comment that is relevant and helpful.",
		postContent, commentContent,
	)
}
