package models

import "time"

// DigestRun 은 파이프라인 1회 실행 기록이다. 결과 행 자체는 저장하지 않는다.
// Collection: digest_runs
type DigestRun struct {
	RunID          string        `bson:"_id" json:"run_id"`
	StartedAt      time.Time     `bson:"started_at" json:"started_at"`
	CompletedAt    time.Time     `bson:"completed_at" json:"completed_at"`
	Status         RunStatus     `bson:"status" json:"status"`
	Sources        []SourceStats `bson:"sources" json:"sources"`
	UnifiedRows    int           `bson:"unified_rows" json:"unified_rows"`
	PositiveRows   int           `bson:"positive_rows" json:"positive_rows"`
	Clusters       int           `bson:"clusters" json:"clusters"`
	OutputRows     int           `bson:"output_rows" json:"output_rows"`
	SummaryErrors  int           `bson:"summary_errors" json:"summary_errors"`
	OutputPath     string        `bson:"output_path" json:"output_path"`
	SinkErrors     []string      `bson:"sink_errors,omitempty" json:"sink_errors,omitempty"`
	FailureMessage string        `bson:"failure_message,omitempty" json:"failure_message,omitempty"`
}

type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// SourceStats describes how one input dataset contributed to the unified table.
type SourceStats struct {
	Name           string `bson:"name" json:"name"`
	Path           string `bson:"path" json:"path"`
	RowsRead       int    `bson:"rows_read" json:"rows_read"`
	RowsDropped    int    `bson:"rows_dropped" json:"rows_dropped"`
	HasImageColumn bool   `bson:"has_image_column" json:"has_image_column"`
}
