package services

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"

	"review-digest/config"
	"review-digest/dto"
	"review-digest/models"
	"review-digest/storage"
)

// ErrNoDigest is returned when no digest file has been written yet.
var ErrNoDigest = errors.New("digest not available")

// DigestService serves the latest digest file. Rows are cached and reloaded
// when the file changes or Invalidate is called.
type DigestService struct {
	path string

	mu      sync.RWMutex
	rows    []models.DigestRow
	modTime time.Time
	loaded  bool
}

func NewDigestService(path string) *DigestService {
	return &DigestService{path: path}
}

// Invalidate drops the cached rows.
func (s *DigestService) Invalidate() {
	s.mu.Lock()
	s.loaded = false
	s.rows = nil
	s.mu.Unlock()
}

func (s *DigestService) load(_ context.Context) ([]models.DigestRow, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoDigest
	}
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	if s.loaded && info.ModTime().Equal(s.modTime) {
		rows := s.rows
		s.mu.RUnlock()
		return rows, nil
	}
	s.mu.RUnlock()

	rows, err := storage.ReadCSV(s.path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.rows = rows
	s.modTime = info.ModTime()
	s.loaded = true
	s.mu.Unlock()
	config.Logger.Debugf("digest reloaded from %s: %d rows", s.path, len(rows))
	return rows, nil
}

type ListDigestInput struct {
	Cluster string
}

// List returns digest rows in file order, optionally filtered by cluster.
func (s *DigestService) List(ctx context.Context, in ListDigestInput) ([]dto.DigestRowDTO, error) {
	rows, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DigestRowDTO, 0, len(rows))
	for _, r := range rows {
		if in.Cluster != "" && r.Cluster != in.Cluster {
			continue
		}
		out = append(out, dto.NewDigestRowDTO(r))
	}
	return out, nil
}

// Clusters returns the clusters of the digest in file order.
func (s *DigestService) Clusters(ctx context.Context) ([]dto.ClusterDTO, error) {
	rows, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := []dto.ClusterDTO{}
	for _, r := range rows {
		if n := len(out); n > 0 && out[n-1].Cluster == r.Cluster {
			out[n-1].Products++
			continue
		}
		out = append(out, dto.ClusterDTO{Cluster: r.Cluster, Products: 1})
	}
	return out, nil
}
