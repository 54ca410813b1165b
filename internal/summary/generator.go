// Package summary turns practice feedback into a coach-facing summary using
// an AWS Bedrock text model. Generation never fails from the caller's point
// of view: service errors are converted into a degraded summary whose text
// carries the failure description.
package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/clubpulse/internal/config"
	"github.com/clubpulse/internal/domain"
)

// noResponsesText is returned without calling the model when a practice has
// no feedback yet.
const noResponsesText = "No responses were submitted for this practice session."

// Invoker is the slice of the Bedrock Runtime client the generator uses.
type Invoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Generator assembles feedback prompts and invokes a Bedrock model.
type Generator struct {
	client Invoker
	cfg    config.BedrockConfig
	logger *slog.Logger
}

// NewGenerator creates a generator backed by the default AWS credential
// chain. When cfg.Enabled is false the generator is constructed without a
// client and every generation yields the degraded fallback summary.
func NewGenerator(ctx context.Context, cfg config.BedrockConfig, logger *slog.Logger) (*Generator, error) {
	if !cfg.Enabled {
		logger.Info("summary generation disabled by configuration")
		return &Generator{cfg: cfg, logger: logger}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	logger.Info("summary generation enabled", "region", cfg.Region, "model_id", cfg.ModelID)
	return &Generator{
		client: bedrockruntime.NewFromConfig(awsCfg),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// NewGeneratorWithClient creates a generator over an existing client.
func NewGeneratorWithClient(client Invoker, cfg config.BedrockConfig, logger *slog.Logger) *Generator {
	return &Generator{client: client, cfg: cfg, logger: logger}
}

// modelRequest is the Bedrock messages payload for the Nova model family.
type modelRequest struct {
	Messages        []modelMessage  `json:"messages"`
	InferenceConfig inferenceConfig `json:"inferenceConfig"`
}

type modelMessage struct {
	Role    string         `json:"role"`
	Content []modelContent `json:"content"`
}

type modelContent struct {
	Text string `json:"text"`
}

type inferenceConfig struct {
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"topP"`
}

type modelResponse struct {
	Output struct {
		Message struct {
			Content []modelContent `json:"content"`
		} `json:"message"`
	} `json:"output"`
}

// Generate produces a summary for the given practice. An empty response set
// short-circuits to a fixed placeholder; any model failure produces a
// degraded summary rather than an error.
func (g *Generator) Generate(ctx context.Context, practiceID string, responses []domain.Response) domain.Summary {
	if len(responses) == 0 {
		return domain.Summary{
			PracticeID:  practiceID,
			Text:        noResponsesText,
			GeneratedAt: time.Now(),
		}
	}

	text, err := g.invoke(ctx, buildPrompt(responses))
	if err != nil {
		g.logger.Error("summary generation failed", "practice_id", practiceID, "error", err)
		return domain.Summary{
			PracticeID:  practiceID,
			Text:        fmt.Sprintf("Error generating AI summary: %s. Manual review of responses may be needed.", err),
			GeneratedAt: time.Now(),
		}
	}

	return domain.Summary{
		PracticeID:  practiceID,
		Text:        strings.TrimSpace(text),
		GeneratedAt: time.Now(),
	}
}

func (g *Generator) invoke(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", errors.New("bedrock client not configured")
	}

	body, err := json.Marshal(modelRequest{
		Messages: []modelMessage{
			{Role: "user", Content: []modelContent{{Text: prompt}}},
		},
		InferenceConfig: inferenceConfig{
			MaxTokens:   g.cfg.MaxTokens,
			Temperature: g.cfg.Temperature,
			TopP:        g.cfg.TopP,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	out, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.cfg.ModelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("invoking model: %w", err)
	}
	if len(out.Body) == 0 {
		return "", errors.New("empty response body from model")
	}

	var resp modelResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(resp.Output.Message.Content) == 0 || resp.Output.Message.Content[0].Text == "" {
		return "", errors.New("model returned no output text")
	}
	return resp.Output.Message.Content[0].Text, nil
}

// buildPrompt embeds every response's answers grouped by respondent, in
// submission order. The assembly is deterministic for a given response set.
func buildPrompt(responses []domain.Response) string {
	var b strings.Builder
	b.WriteString("You are analyzing team practice feedback from players. ")
	b.WriteString("Please provide a concise summary of the key themes, insights, and areas for improvement based on the following player responses.\n\n")
	b.WriteString("Practice Responses:\n")

	for i, response := range responses {
		fmt.Fprintf(&b, "\nPlayer %d Responses:\n", i+1)
		for _, answer := range response.Answers {
			fmt.Fprintf(&b, "- %s\n", answer.Text)
		}
	}

	b.WriteString("\nPlease provide a summary that includes:\n")
	b.WriteString("1. Overall performance themes\n")
	b.WriteString("2. Common challenges mentioned\n")
	b.WriteString("3. Skills that players focused on\n")
	b.WriteString("4. Areas for improvement in future practices\n")
	b.WriteString("5. Any notable individual insights\n\n")
	b.WriteString("Keep the summary concise but informative, focusing on actionable insights for the coach.")

	return b.String()
}
