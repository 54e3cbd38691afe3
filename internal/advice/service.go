// Package advice wraps the generative-AI flows behind plain request/response
// structs. Each flow is one prompt and one model call; there is no retry or
// backoff, errors surface to the caller.
package advice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// DefaultModelName is the model used for all advice flows.
const DefaultModelName = "gemini-2.0-flash"

// Service issues advice requests against a genai model.
type Service struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// NewService creates a Service. Credentials come from the environment, the
// same way the rest of the Google clients pick them up.
func NewService(ctx context.Context, log zerolog.Logger) (*Service, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("advice: create genai client: %w", err)
	}

	return &Service{
		client: client,
		model:  DefaultModelName,
		log:    log,
	}, nil
}

// SpendingInsights returns a list of insights for the given figures.
func (s *Service) SpendingInsights(ctx context.Context, req SpendingInsightsRequest) (*SpendingInsightsResponse, error) {
	raw, err := s.generate(ctx, buildSpendingInsightsPrompt(req))
	if err != nil {
		return nil, err
	}

	var insights []string
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &insights); err != nil {
		return nil, fmt.Errorf("advice: parsing insights response: %w\nraw response: %s", err, raw)
	}

	return &SpendingInsightsResponse{Insights: insights}, nil
}

// Wellness returns a 0-100 wellness score plus recommendations.
func (s *Service) Wellness(ctx context.Context, req WellnessRequest) (*WellnessResponse, error) {
	raw, err := s.generate(ctx, buildWellnessPrompt(req))
	if err != nil {
		return nil, err
	}

	var resp WellnessResponse
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &resp); err != nil {
		return nil, fmt.Errorf("advice: parsing wellness response: %w\nraw response: %s", err, raw)
	}
	if resp.WellnessScore < 0 || resp.WellnessScore > 100 {
		return nil, fmt.Errorf("advice: wellness score %d out of range", resp.WellnessScore)
	}

	return &resp, nil
}

// GoalAdvice returns free-text advice for reaching a savings goal.
func (s *Service) GoalAdvice(ctx context.Context, req GoalAdviceRequest) (*GoalAdviceResponse, error) {
	raw, err := s.generate(ctx, buildGoalAdvicePrompt(req))
	if err != nil {
		return nil, err
	}
	return &GoalAdviceResponse{Advice: strings.TrimSpace(raw)}, nil
}

// CreditCardAdvice returns free-text advice for an upcoming card payment.
func (s *Service) CreditCardAdvice(ctx context.Context, req CreditCardAdviceRequest) (*CreditCardAdviceResponse, error) {
	raw, err := s.generate(ctx, buildCreditCardAdvicePrompt(req))
	if err != nil {
		return nil, err
	}
	return &CreditCardAdviceResponse{Advice: strings.TrimSpace(raw)}, nil
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("advice: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("advice: empty response from model")
	}

	return text, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the model
// ignored the strict-JSON instructions, keeping the outermost array or object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only the outermost JSON value, whichever bracket comes first.
	arrStart := strings.Index(s, "[")
	objStart := strings.Index(s, "{")
	switch {
	case arrStart != -1 && (objStart == -1 || arrStart < objStart):
		if end := strings.LastIndex(s, "]"); end > arrStart {
			s = s[arrStart : end+1]
		}
	case objStart != -1:
		if end := strings.LastIndex(s, "}"); end > objStart {
			s = s[objStart : end+1]
		}
	}

	return strings.TrimSpace(s)
}
