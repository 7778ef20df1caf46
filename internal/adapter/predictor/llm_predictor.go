package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ludora/internal/domain"
	"ludora/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const serviceName = "weakness-predictor"

// LLMPredictor asks a language model to rank a user's weak topics.
type LLMPredictor struct {
	model   llms.Model
	timeout time.Duration
}

func NewLLMPredictor(model llms.Model, timeout time.Duration) *LLMPredictor {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &LLMPredictor{model: model, timeout: timeout}
}

type llmSignal struct {
	Topic       string  `json:"topic"`
	Probability float64 `json:"probability"`
	ActionLevel int     `json:"action_level"`
}

type llmResponse struct {
	Signals []llmSignal `json:"signals"`
}

// Predict implements domain.WeaknessPredictor.
func (p *LLMPredictor) Predict(ctx context.Context, userID string, features domain.PerformanceFeatures) ([]domain.WeaknessSignal, error) {
	l := logger.Get()
	if p.model == nil {
		return nil, domain.NewUpstreamUnavailableError(serviceName, errors.New("no model configured"))
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := llms.GenerateFromSinglePrompt(ctx, p.model, buildPrompt(features), llms.WithTemperature(0.1))
	if err != nil {
		l.Warn("Weakness prediction call failed", zap.String("user_id", userID), zap.Error(err))
		return nil, domain.NewUpstreamUnavailableError(serviceName, err)
	}
	l.Debug("Raw weakness prediction received", zap.String("user_id", userID), zap.String("raw_response", raw))

	signals, err := parseSignals(raw)
	if err != nil {
		l.Warn("Could not parse weakness prediction", zap.String("user_id", userID), zap.Error(err))
		return nil, domain.NewUpstreamUnavailableError(serviceName, err)
	}
	return signals, nil
}

func buildPrompt(features domain.PerformanceFeatures) string {
	var b strings.Builder
	b.WriteString(`You are a learning analyst for a children's math practice app. Given a student's performance,
identify the topics the student is weakest at. Respond with ONLY a JSON object in the following format:
{
    "signals": [
        {"topic": "topic name exactly as given", "probability": 0.0, "action_level": 1}
    ]
}

Rules:
1. probability is the likelihood (0 to 1) that the student struggles with the topic
2. action_level is 1 (monitor only), 2 (suggest practice) or 3 (recommend intervention)
3. Order signals from most to least urgent
4. Only use topic names from the list below

Topics (name: average quiz score out of 100, minutes practiced):
`)
	if len(features.Topics) == 0 {
		b.WriteString("- none recorded yet\n")
	}
	for _, t := range features.Topics {
		fmt.Fprintf(&b, "- %s: %.1f, %d\n", t.Topic, t.AverageScore, t.MinutesSpent)
	}
	b.WriteString("Most recent quiz scores (newest first): ")
	scores := make([]string, len(features.RecentQuizScores))
	for i, s := range features.RecentQuizScores {
		scores[i] = fmt.Sprintf("%.1f", s)
	}
	b.WriteString(strings.Join(scores, ", "))
	return b.String()
}

// parseSignals extracts the JSON object from a model reply. Reasoning wrapped
// in <think> tags is dropped. Signals with an out-of-range action level are
// discarded and probabilities are clamped to [0, 1].
func parseSignals(raw string) ([]domain.WeaknessSignal, error) {
	cleaned := strings.TrimSpace(raw)
	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd > thinkStart {
			cleaned = strings.TrimSpace(cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):])
		}
	}

	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		return nil, fmt.Errorf("no JSON object found in model response")
	}

	var resp llmResponse
	if err := json.Unmarshal([]byte(cleaned[jsonStart:jsonEnd+1]), &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model response: %w", err)
	}

	signals := make([]domain.WeaknessSignal, 0, len(resp.Signals))
	for _, s := range resp.Signals {
		if s.ActionLevel < 1 || s.ActionLevel > 3 {
			continue
		}
		prob := s.Probability
		if prob < 0 {
			prob = 0
		} else if prob > 1 {
			prob = 1
		}
		signals = append(signals, domain.WeaknessSignal{
			Topic:       s.Topic,
			Probability: prob,
			ActionLevel: s.ActionLevel,
		})
	}
	return signals, nil
}

var _ domain.WeaknessPredictor = (*LLMPredictor)(nil)
