package summarizer

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"review-digest/config"
	"review-digest/models"
	"review-digest/trace"
)

// LogSink receives one ai_logs document per summary call.
type LogSink interface {
	SaveAILog(ctx context.Context, log models.AILog) error
}

type Options struct {
	Model           string
	MaxOutputTokens int
	Temperature     float64
	Sentiment       string
	MaxReviews      int
	Concurrency     int
}

func OptionsFromConfig(cfg config.AppConfig) Options {
	temperature := config.DefaultTemperature
	if cfg.LLM.Temperature != nil {
		temperature = *cfg.LLM.Temperature
	}
	return Options{
		Model:           cfg.LLM.ModelName,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		Temperature:     temperature,
		Sentiment:       cfg.Pipeline.SentimentLabel,
		MaxReviews:      cfg.Pipeline.MaxReviewsPerProduct,
		Concurrency:     cfg.LLM.Concurrency,
	}
}

// Outcome is the result of summarizing one product. Exactly one of Summary
// and Err is meaningful.
type Outcome struct {
	Product models.ProductAggregate
	Summary string
	Err     error
	Log     *LLMRequestLog
}

// Text returns the summary, or "Error: <message>" when generation failed.
func (o Outcome) Text() string {
	if o.Err != nil {
		return "Error: " + o.Err.Error()
	}
	return o.Summary
}

// Service runs one generation call per ranked product.
type Service struct {
	gen   Generator
	opts  Options
	quota *QuotaLimiter
	sink  LogSink
}

// NewService wires a generator handle for one run. quota and sink may be nil.
func NewService(gen Generator, opts Options, quota *QuotaLimiter, sink LogSink) *Service {
	return &Service{gen: gen, opts: opts, quota: quota, sink: sink}
}

// Summarize returns one Outcome per product, in product order. A failed call
// only affects its own Outcome.
func (s *Service) Summarize(ctx context.Context, products []models.ProductAggregate, reviews []models.Review) []Outcome {
	outcomes := make([]Outcome, len(products))

	if s.opts.Concurrency <= 1 {
		for i, p := range products {
			outcomes[i] = s.summarizeOne(ctx, p, reviews)
		}
		return outcomes
	}

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i, p := range products {
		g.Go(func() error {
			outcomes[i] = s.summarizeOne(ctx, p, reviews)
			return nil
		})
	}
	g.Wait()
	return outcomes
}

func (s *Service) summarizeOne(ctx context.Context, p models.ProductAggregate, reviews []models.Review) Outcome {
	texts := SelectReviews(reviews, p.Name, s.opts.Sentiment, s.opts.MaxReviews)
	prompt := BuildPrompt(p.Name, texts)
	out := Outcome{Product: p}

	if err := s.quota.Wait(ctx); err != nil {
		out.Err = err
		config.WarnWithFields("summary call skipped", config.Fields{
			"run_id":           trace.RunIDFromContext(ctx),
			"product":          p.Name,
			"category_cluster": p.Cluster,
			"error":            err.Error(),
		})
		return out
	}

	log := &LLMRequestLog{
		Provider:    s.gen.Provider(),
		Prompt:      SYSTEM_INSTRUCTION + "\n\n" + prompt,
		ModelName:   s.opts.Model,
		RequestedAt: time.Now(),
	}
	resp, err := s.gen.Generate(ctx, Request{
		Model:             s.opts.Model,
		SystemInstruction: SYSTEM_INSTRUCTION,
		Prompt:            prompt,
		MaxOutputTokens:   s.opts.MaxOutputTokens,
		Temperature:       s.opts.Temperature,
	})
	log.GeneratedAt = time.Now()
	log.LatencyMs = log.GeneratedAt.Sub(log.RequestedAt).Milliseconds()

	fields := config.Fields{
		"run_id":           trace.RunIDFromContext(ctx),
		"product":          p.Name,
		"category_cluster": p.Cluster,
		"reviews":          len(texts),
		"latency_ms":       log.LatencyMs,
	}
	if err != nil {
		log.Error = err.Error()
		out.Err = err
		fields["error"] = err.Error()
		config.ErrorWithFields("summary generation failed", fields)
	} else {
		log.Response = resp.Text
		log.ModelVersion = resp.ModelVersion
		log.TokenUsage = resp.Usage
		out.Summary = strings.TrimSpace(resp.Text)
		fields["total_tokens"] = resp.Usage.TotalTokens
		config.InfoWithFields("summary generated", fields)
	}
	out.Log = log

	if s.sink != nil {
		if err := s.sink.SaveAILog(ctx, log.ToAILog(trace.RunIDFromContext(ctx), p)); err != nil {
			config.ErrorWithFields("failed to save ai log", config.Fields{
				"run_id":  trace.RunIDFromContext(ctx),
				"product": p.Name,
				"error":   err.Error(),
			})
		}
	}
	return out
}
