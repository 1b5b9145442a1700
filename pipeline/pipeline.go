// Package pipeline runs the review digest stages end to end.
package pipeline

import (
	"context"
	"time"

	"review-digest/category"
	"review-digest/classifier"
	"review-digest/config"
	"review-digest/dataset"
	"review-digest/enricher"
	"review-digest/eventbus"
	"review-digest/events"
	"review-digest/models"
	"review-digest/ranker"
	"review-digest/storage"
	"review-digest/summarizer"
	"review-digest/trace"
)

// Publisher sends run events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event eventbus.Event) error
}

// RunStore persists run records.
type RunStore interface {
	Save(ctx context.Context, run models.DigestRun) error
}

// Pipeline holds the wired stages of one digest run. Runs, Events and Sinks
// are optional.
type Pipeline struct {
	Sources    []dataset.Source
	Columns    dataset.Columns
	Classifier classifier.Classifier
	Mapping    category.Mapping
	Summarizer *summarizer.Service
	Enrich     enricher.Options
	Sentiment  string
	TopN       int

	Output *storage.CSVWriter
	Sinks  []storage.DigestWriter

	Runs       RunStore
	Events     Publisher
	EventTopic string
}

type Result struct {
	Run  models.DigestRun
	Rows []models.DigestRow
}

// Run executes every stage once. Fatal errors are returned as
// *models.PipelineError (or the context error); the run record is saved
// either way.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	runID := trace.GenerateID()
	ctx = trace.WithRun(ctx, runID)

	run := models.DigestRun{
		RunID:      runID,
		StartedAt:  time.Now(),
		OutputPath: p.Output.Path(),
	}
	config.InfoWithFields("digest run started", config.Fields{"run_id": runID, "sources": len(p.Sources)})

	unified, err := dataset.Unify(p.Sources, p.Columns)
	if err != nil {
		return nil, p.fail(ctx, &run, err)
	}
	run.Sources = unified.Stats
	run.UnifiedRows = len(unified.Reviews)
	if run.UnifiedRows == 0 {
		config.WarnWithFields("no reviews left after dropping rows without text", config.Fields{"run_id": runID})
	}

	reviews, err := classifier.Annotate(ctx, p.Classifier, unified.Reviews)
	if err != nil {
		return nil, p.fail(ctx, &run, err)
	}
	reviews = category.Assign(reviews, p.Mapping)
	for _, r := range reviews {
		if r.Sentiment == p.Sentiment {
			run.PositiveRows++
		}
	}

	top := ranker.TopN(reviews, p.Sentiment, p.TopN)
	run.Clusters = countClusters(top)
	config.InfoWithFields("products ranked", config.Fields{
		"run_id":        runID,
		"unified_rows":  run.UnifiedRows,
		"positive_rows": run.PositiveRows,
		"products":      len(top),
		"clusters":      run.Clusters,
	})

	outcomes := p.Summarizer.Summarize(ctx, top, reviews)
	if err := ctx.Err(); err != nil {
		return nil, p.fail(ctx, &run, err)
	}
	for _, o := range outcomes {
		if o.Err != nil {
			run.SummaryErrors++
		}
	}

	rows := enricher.Merge(top, outcomes, reviews, p.Enrich)

	if err := p.Output.Write(ctx, rows); err != nil {
		return nil, p.fail(ctx, &run, err)
	}
	run.OutputRows = len(rows)

	for _, sink := range p.Sinks {
		if err := sink.Write(ctx, rows); err != nil {
			run.SinkErrors = append(run.SinkErrors, sink.Name()+": "+err.Error())
			config.ErrorWithFields("sink write failed", config.Fields{"run_id": runID, "sink": sink.Name(), "error": err.Error()})
		}
	}

	run.Status = models.RunStatusSucceeded
	run.CompletedAt = time.Now()
	p.publish(ctx, &run)
	p.saveRun(ctx, run)

	config.InfoWithFields("digest run completed", config.Fields{
		"run_id":         runID,
		"output_rows":    run.OutputRows,
		"summary_errors": run.SummaryErrors,
		"output_path":    run.OutputPath,
		"duration_ms":    run.CompletedAt.Sub(run.StartedAt).Milliseconds(),
	})
	return &Result{Run: run, Rows: rows}, nil
}

func (p *Pipeline) fail(ctx context.Context, run *models.DigestRun, err error) error {
	run.Status = models.RunStatusFailed
	run.CompletedAt = time.Now()
	run.FailureMessage = err.Error()
	config.ErrorWithFields("digest run failed", config.Fields{"run_id": run.RunID, "error": err.Error()})

	// 취소된 컨텍스트로는 저장할 수 없으므로 분리된 컨텍스트를 사용한다.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	p.saveRun(saveCtx, *run)
	return err
}

func (p *Pipeline) saveRun(ctx context.Context, run models.DigestRun) {
	if p.Runs == nil {
		return
	}
	if err := p.Runs.Save(ctx, run); err != nil {
		config.ErrorWithFields("failed to save run record", config.Fields{"run_id": run.RunID, "error": err.Error()})
	}
}

func (p *Pipeline) publish(ctx context.Context, run *models.DigestRun) {
	if p.Events == nil {
		return
	}
	payload := events.NewDigestCompletedEvent(*run)
	evt, err := eventbus.NewJSONEvent(payload.ID, string(payload.Type), payload)
	if err == nil {
		err = p.Events.Publish(ctx, p.EventTopic, evt)
	}
	if err != nil {
		run.SinkErrors = append(run.SinkErrors, "kafka: "+err.Error())
		config.ErrorWithFields("failed to publish digest event", config.Fields{"run_id": run.RunID, "error": err.Error()})
	}
}

func countClusters(products []models.ProductAggregate) int {
	n := 0
	for i, p := range products {
		if i == 0 || p.Cluster != products[i-1].Cluster {
			n++
		}
	}
	return n
}
