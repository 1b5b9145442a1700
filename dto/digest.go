package dto

import (
	"time"

	"review-digest/models"
)

// DigestRowDTO is one product of the latest digest.
type DigestRowDTO struct {
	Cluster           string   `json:"category_cluster"`
	Name              string   `json:"name"`
	PositiveCount     int      `json:"positive_count"`
	Summary           string   `json:"summary"`
	SummaryFailed     bool     `json:"summary_failed"`
	ImageURL          string   `json:"image_url"`
	AvgPositiveRating *float64 `json:"avg_positive_rating"`
}

func NewDigestRowDTO(r models.DigestRow) DigestRowDTO {
	return DigestRowDTO{
		Cluster:           r.Cluster,
		Name:              r.Name,
		PositiveCount:     r.PositiveCount,
		Summary:           r.Summary,
		SummaryFailed:     r.SummaryFailed(),
		ImageURL:          r.ImageURL,
		AvgPositiveRating: r.AvgPositiveRating,
	}
}

// ClusterDTO lists a cluster with the number of products ranked in it.
type ClusterDTO struct {
	Cluster  string `json:"category_cluster"`
	Products int    `json:"products"`
}

// RunDTO is the public view of a digest run record.
type RunDTO struct {
	RunID         string    `json:"run_id"`
	Status        string    `json:"status"`
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at"`
	UnifiedRows   int       `json:"unified_rows"`
	OutputRows    int       `json:"output_rows"`
	SummaryErrors int       `json:"summary_errors"`
	Failure       string    `json:"failure,omitempty"`
}

func NewRunDTO(r models.DigestRun) RunDTO {
	return RunDTO{
		RunID:         r.RunID,
		Status:        string(r.Status),
		StartedAt:     r.StartedAt,
		CompletedAt:   r.CompletedAt,
		UnifiedRows:   r.UnifiedRows,
		OutputRows:    r.OutputRows,
		SummaryErrors: r.SummaryErrors,
		Failure:       r.FailureMessage,
	}
}
