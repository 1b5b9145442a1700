package events

import (
	"time"

	"github.com/google/uuid"

	"review-digest/models"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	DigestCompleted EventType = "digest.completed"
)

const (
	SourceDigest = "digest"
	Version      = "1"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// GetType 이벤트 타입을 반환
func (e BaseEvent) GetType() EventType {
	return e.Type
}

// DigestCompletedEvent 파이프라인 실행이 출력 파일을 쓴 뒤 발행되는 이벤트
type DigestCompletedEvent struct {
	BaseEvent
	RunID         string `json:"run_id"`
	OutputPath    string `json:"output_path"`
	OutputRows    int    `json:"output_rows"`
	Clusters      int    `json:"clusters"`
	SummaryErrors int    `json:"summary_errors"`
}

// NewDigestCompletedEvent 실행 기록으로 완료 이벤트를 만든다.
func NewDigestCompletedEvent(run models.DigestRun) DigestCompletedEvent {
	return DigestCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      DigestCompleted,
			Timestamp: run.CompletedAt,
			Source:    SourceDigest,
			Version:   Version,
		},
		RunID:         run.RunID,
		OutputPath:    run.OutputPath,
		OutputRows:    run.OutputRows,
		Clusters:      run.Clusters,
		SummaryErrors: run.SummaryErrors,
	}
}
