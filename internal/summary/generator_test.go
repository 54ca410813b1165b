package summary_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubpulse/internal/config"
	"github.com/clubpulse/internal/domain"
	"github.com/clubpulse/internal/summary"
)

type fakeInvoker struct {
	calls     int
	lastBody  []byte
	lastModel string
	body      []byte
	err       error
}

func (f *fakeInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.calls++
	f.lastBody = params.Body
	if params.ModelId != nil {
		f.lastModel = *params.ModelId
	}
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.body}, nil
}

func testConfig() config.BedrockConfig {
	return config.BedrockConfig{
		Enabled:     true,
		Region:      "us-east-1",
		ModelID:     "amazon.nova-micro-v1:0",
		MaxTokens:   1000,
		Temperature: 0.3,
		TopP:        0.9,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleResponses() []domain.Response {
	return []domain.Response{
		{
			ID:         "r1",
			PracticeID: "pr1",
			PlayerID:   "p1",
			Answers: []domain.Answer{
				{QuestionID: "q1", Text: "Serving felt strong"},
				{QuestionID: "q2", Text: "Struggled with blocking"},
			},
			SubmittedAt: time.Now(),
		},
		{
			ID:         "r2",
			PracticeID: "pr1",
			PlayerID:   "p2",
			Answers: []domain.Answer{
				{QuestionID: "q1", Text: "Passing drills went well"},
			},
			SubmittedAt: time.Now(),
		},
	}
}

func TestGenerateEmptyResponsesSkipsModel(t *testing.T) {
	invoker := &fakeInvoker{}
	gen := summary.NewGeneratorWithClient(invoker, testConfig(), testLogger())

	s := gen.Generate(context.Background(), "pr1", nil)

	assert.Equal(t, 0, invoker.calls)
	assert.Equal(t, "pr1", s.PracticeID)
	assert.Equal(t, "No responses were submitted for this practice session.", s.Text)
	assert.WithinDuration(t, time.Now(), s.GeneratedAt, time.Second)
}

func TestGenerateExtractsModelOutput(t *testing.T) {
	invoker := &fakeInvoker{
		body: []byte(`{"output":{"message":{"content":[{"text":"  Players felt positive about serving.  "}]}}}`),
	}
	gen := summary.NewGeneratorWithClient(invoker, testConfig(), testLogger())

	s := gen.Generate(context.Background(), "pr1", sampleResponses())

	require.Equal(t, 1, invoker.calls)
	assert.Equal(t, "amazon.nova-micro-v1:0", invoker.lastModel)
	assert.Equal(t, "Players felt positive about serving.", s.Text)

	// The prompt groups answers by respondent in submission order.
	prompt := string(invoker.lastBody)
	assert.Contains(t, prompt, "Player 1 Responses:")
	assert.Contains(t, prompt, "Player 2 Responses:")
	assert.Contains(t, prompt, "Serving felt strong")
	assert.Contains(t, prompt, "Passing drills went well")
}

func TestGenerateInvokeFailureYieldsDegradedSummary(t *testing.T) {
	invoker := &fakeInvoker{err: errors.New("throttled")}
	gen := summary.NewGeneratorWithClient(invoker, testConfig(), testLogger())

	s := gen.Generate(context.Background(), "pr1", sampleResponses())

	assert.Equal(t, "pr1", s.PracticeID)
	assert.Contains(t, s.Text, "Error generating AI summary:")
	assert.Contains(t, s.Text, "throttled")
	assert.Contains(t, s.Text, "Manual review of responses may be needed.")
}

func TestGenerateMalformedBodyYieldsDegradedSummary(t *testing.T) {
	invoker := &fakeInvoker{body: []byte("not json")}
	gen := summary.NewGeneratorWithClient(invoker, testConfig(), testLogger())

	s := gen.Generate(context.Background(), "pr1", sampleResponses())
	assert.Contains(t, s.Text, "Error generating AI summary:")
}

func TestGenerateMissingOutputTextYieldsDegradedSummary(t *testing.T) {
	invoker := &fakeInvoker{body: []byte(`{"output":{"message":{"content":[]}}}`)}
	gen := summary.NewGeneratorWithClient(invoker, testConfig(), testLogger())

	s := gen.Generate(context.Background(), "pr1", sampleResponses())
	assert.Contains(t, s.Text, "model returned no output text")
}

func TestDisabledGeneratorYieldsDegradedSummary(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	gen, err := summary.NewGenerator(context.Background(), cfg, testLogger())
	require.NoError(t, err)

	s := gen.Generate(context.Background(), "pr1", sampleResponses())
	assert.Contains(t, s.Text, "bedrock client not configured")
}
