package summarizer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-digest/config"
	"review-digest/models"
	"review-digest/trace"
)

type fakeGenerator struct {
	mu       sync.Mutex
	requests []Request
	fail     map[string]error
	delay    map[string]time.Duration
}

func (f *fakeGenerator) Provider() string { return "fake" }

func (f *fakeGenerator) Generate(ctx context.Context, req Request) (*Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	for name, d := range f.delay {
		if strings.Contains(req.Prompt, "'"+name+"'") {
			time.Sleep(d)
		}
	}
	for name, err := range f.fail {
		if strings.Contains(req.Prompt, "'"+name+"'") {
			return nil, err
		}
	}
	return &Response{
		Text:         "  summary of " + productFromPrompt(req.Prompt) + "\n",
		ModelVersion: "fake-001",
		Usage:        TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	}, nil
}

func productFromPrompt(prompt string) string {
	start := strings.Index(prompt, "'")
	end := strings.Index(prompt[start+1:], "'")
	return prompt[start+1 : start+1+end]
}

type memorySink struct {
	mu   sync.Mutex
	logs []models.AILog
	err  error
}

func (m *memorySink) SaveAILog(_ context.Context, log models.AILog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return m.err
}

var testOptions = Options{
	Model:           "test-model",
	MaxOutputTokens: 300,
	Temperature:     0.5,
	Sentiment:       "positive",
	MaxReviews:      20,
	Concurrency:     1,
}

func testProducts() []models.ProductAggregate {
	return []models.ProductAggregate{
		{Cluster: "Tablets", Name: "P", PositiveCount: 2},
		{Cluster: "Tablets", Name: "Q", PositiveCount: 1},
	}
}

func testReviews() []models.Review {
	return []models.Review{
		{Name: "P", Text: "fast", Sentiment: "positive"},
		{Name: "Q", Text: "sharp screen", Sentiment: "positive"},
		{Name: "P", Text: "slow", Sentiment: "negative"},
		{Name: "P", Text: "good battery", Sentiment: "positive"},
	}
}

func TestSummarizeIsolatesFailures(t *testing.T) {
	gen := &fakeGenerator{fail: map[string]error{"P": errors.New("rate limited")}}
	svc := NewService(gen, testOptions, nil, nil)

	outcomes := svc.Summarize(context.Background(), testProducts(), testReviews())

	require.Len(t, outcomes, 2)
	assert.Equal(t, "P", outcomes[0].Product.Name)
	assert.Error(t, outcomes[0].Err)
	assert.Equal(t, "Error: rate limited", outcomes[0].Text())

	assert.NoError(t, outcomes[1].Err)
	assert.Equal(t, "summary of Q", outcomes[1].Text())
	assert.Len(t, gen.requests, 2)
}

func TestSummarizeBuildsRequest(t *testing.T) {
	gen := &fakeGenerator{}
	svc := NewService(gen, testOptions, nil, nil)

	svc.Summarize(context.Background(), testProducts()[:1], testReviews())

	require.Len(t, gen.requests, 1)
	req := gen.requests[0]
	assert.Equal(t, "test-model", req.Model)
	assert.Equal(t, SYSTEM_INSTRUCTION, req.SystemInstruction)
	assert.Equal(t, 300, req.MaxOutputTokens)
	assert.InDelta(t, 0.5, req.Temperature, 1e-9)
	assert.Contains(t, req.Prompt, "fast\n\ngood battery")
	assert.NotContains(t, req.Prompt, "slow")
}

func TestSummarizeConcurrentKeepsOrder(t *testing.T) {
	gen := &fakeGenerator{
		delay: map[string]time.Duration{"A": 30 * time.Millisecond},
		fail:  map[string]error{"C": errors.New("boom")},
	}
	opts := testOptions
	opts.Concurrency = 4
	svc := NewService(gen, opts, nil, nil)

	products := []models.ProductAggregate{
		{Cluster: "X", Name: "A"}, {Cluster: "X", Name: "B"},
		{Cluster: "Y", Name: "C"}, {Cluster: "Y", Name: "D"},
	}
	outcomes := svc.Summarize(context.Background(), products, nil)

	require.Len(t, outcomes, 4)
	for i, p := range products {
		assert.Equal(t, p, outcomes[i].Product)
	}
	assert.Equal(t, "summary of A", outcomes[0].Text())
	assert.Equal(t, "summary of B", outcomes[1].Text())
	assert.Equal(t, "Error: boom", outcomes[2].Text())
	assert.Equal(t, "summary of D", outcomes[3].Text())
}

func TestSummarizeDailyQuota(t *testing.T) {
	gen := &fakeGenerator{}
	quota := NewQuotaLimiter(config.SummaryQuotaConfig{RequestsPerDay: 1})
	svc := NewService(gen, testOptions, quota, nil)

	outcomes := svc.Summarize(context.Background(), testProducts(), testReviews())

	assert.Equal(t, "summary of P", outcomes[0].Text())
	assert.ErrorIs(t, outcomes[1].Err, ErrQuotaExceeded)
	assert.True(t, strings.HasPrefix(outcomes[1].Text(), "Error: "))
	assert.Len(t, gen.requests, 1)
}

func TestSummarizeWritesAILogs(t *testing.T) {
	gen := &fakeGenerator{fail: map[string]error{"Q": errors.New("bad request")}}
	sink := &memorySink{err: errors.New("mongo down")}
	svc := NewService(gen, testOptions, nil, sink)

	ctx := trace.WithRun(context.Background(), "run-1")
	outcomes := svc.Summarize(ctx, testProducts(), testReviews())

	// 로그 저장 실패는 요약 결과에 영향을 주지 않는다.
	assert.Equal(t, "summary of P", outcomes[0].Text())

	require.Len(t, sink.logs, 2)
	first := sink.logs[0]
	assert.Equal(t, "run-1", first.RunID)
	assert.Equal(t, "P", first.ProductName)
	assert.Equal(t, "Tablets", first.Cluster)
	assert.Equal(t, "fake", first.Provider)
	assert.Equal(t, "fake-001", first.ModelVersion)
	assert.Equal(t, int64(15), first.TotalTokens)
	assert.Nil(t, first.ErrorMessage)

	second := sink.logs[1]
	require.NotNil(t, second.ErrorMessage)
	assert.Equal(t, "bad request", *second.ErrorMessage)
}

func TestOutcomeText(t *testing.T) {
	assert.Equal(t, "ok", Outcome{Summary: "ok"}.Text())
	assert.Equal(t, "Error: x", Outcome{Summary: "ignored", Err: errors.New("x")}.Text())
}

func TestOptionsFromConfigTemperature(t *testing.T) {
	zero := 0.0
	cfg := config.AppConfig{LLM: config.LLMConfig{ModelName: "gpt-3.5-turbo", Temperature: &zero, Concurrency: 2}}
	opts := OptionsFromConfig(cfg)
	assert.Zero(t, opts.Temperature)
	assert.Equal(t, "gpt-3.5-turbo", opts.Model)
	assert.Equal(t, 2, opts.Concurrency)

	cfg.LLM.Temperature = nil
	assert.InDelta(t, config.DefaultTemperature, OptionsFromConfig(cfg).Temperature, 1e-9)
}
