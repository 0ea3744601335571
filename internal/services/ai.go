package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/surveyhq/survey-management-api/internal/constants"
)

type AIService struct {
	client *openai.Client
}

type SuggestedQuestion struct {
	Text    string `json:"text"`
	Type    string `json:"type"`
	Choices string `json:"choices"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestQuestionsFromText drafts survey questions from free text using OpenAI GPT
func (s *AIService) SuggestQuestionsFromText(ctx context.Context, text string) ([]SuggestedQuestion, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You are a survey design assistant. Draft concrete survey questions from the following topic description.

Topic:
%s

Return a JSON array of questions in this exact shape:
[
  {
    "text": "the question text",
    "type": "one of: text, radio, select, select-multiple, integer",
    "choices": "comma-separated options for choice types, empty string otherwise"
  }
]

Rules:
- Return an empty array [] if no sensible questions can be drafted
- Choice types (radio, select, select-multiple) must list at least two options
- Return only the JSON, no surrounding prose`, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var questions []SuggestedQuestion
	if err := json.Unmarshal([]byte(content), &questions); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	if len(questions) > constants.MaxAISuggestedQuestions {
		questions = questions[:constants.MaxAISuggestedQuestions]
	}

	return questions, nil
}
