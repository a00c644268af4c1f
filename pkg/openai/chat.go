package openai

import (
	"context"

	"github.com/sashabaranov/go-openai"

	apperrors "clipforge/pkg/errors"
)

// ChatCompletion sends one user prompt and returns the first choice's text.
func (c *Client) ChatCompletion(prompt string) (string, error) {
	model := c.model
	if model == "" {
		model = openai.GPT4oMini
	}
	resp, err := c.client.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInternal, "chat completion request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.New(apperrors.CodeInternal, "chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
