package services

import (
	"context"

	"review-digest/dto"
	"review-digest/models"
)

// RunLister reads run records.
type RunLister interface {
	Latest(ctx context.Context, limit int64) ([]models.DigestRun, error)
}

type RunService struct {
	repo RunLister
}

func NewRunService(repo RunLister) *RunService {
	return &RunService{repo: repo}
}

// Latest returns up to limit runs, newest first. limit is clamped to [1, 100].
func (s *RunService) Latest(ctx context.Context, limit int) ([]dto.RunDTO, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	runs, err := s.repo.Latest(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	out := make([]dto.RunDTO, 0, len(runs))
	for _, r := range runs {
		out = append(out, dto.NewRunDTO(r))
	}
	return out, nil
}
