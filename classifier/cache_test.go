package classifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-digest/models"
)

type memoryCache struct {
	data   map[string]string
	getErr error
}

func (m *memoryCache) GetMany(_ context.Context, keys []string) (map[string]string, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := map[string]string{}
	for _, k := range keys {
		if v, ok := m.data[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *memoryCache) SetMany(_ context.Context, values map[string]string, _ time.Duration) error {
	for k, v := range values {
		m.data[k] = v
	}
	return nil
}

func (m *memoryCache) Close() error { return nil }

type countingClassifier struct {
	seen [][]string
}

func (c *countingClassifier) Classify(_ context.Context, texts []string) ([]string, error) {
	c.seen = append(c.seen, append([]string(nil), texts...))
	out := make([]string, len(texts))
	for i, t := range texts {
		if t == "love it" {
			out[i] = "positive"
		} else {
			out[i] = "negative"
		}
	}
	return out, nil
}

func TestCachedClassifierSkipsHits(t *testing.T) {
	inner := &countingClassifier{}
	cache := &memoryCache{data: map[string]string{}}
	c := NewCachedClassifier(inner, cache, "test:", time.Hour)

	first, err := c.Classify(context.Background(), []string{"love it", "broke", "love it"})
	require.NoError(t, err)
	assert.Equal(t, []string{"positive", "negative", "positive"}, first)
	require.Len(t, inner.seen, 1)
	assert.Equal(t, []string{"love it", "broke"}, inner.seen[0])
	assert.Len(t, cache.data, 2)

	second, err := c.Classify(context.Background(), []string{"broke", "love it"})
	require.NoError(t, err)
	assert.Equal(t, []string{"negative", "positive"}, second)
	assert.Len(t, inner.seen, 1)
}

func TestCachedClassifierFallsBackOnCacheError(t *testing.T) {
	inner := &countingClassifier{}
	cache := &memoryCache{data: map[string]string{}, getErr: errors.New("connection refused")}
	c := NewCachedClassifier(inner, cache, "test:", time.Hour)

	labels, err := c.Classify(context.Background(), []string{"love it"})
	require.NoError(t, err)
	assert.Equal(t, []string{"positive"}, labels)
	assert.Len(t, inner.seen, 1)
}

type shortClassifier struct{}

func (shortClassifier) Classify(_ context.Context, texts []string) ([]string, error) {
	return make([]string, len(texts)-1), nil
}

func TestCachedClassifierRejectsShortOutput(t *testing.T) {
	cache := &memoryCache{data: map[string]string{}}
	c := NewCachedClassifier(shortClassifier{}, cache, "test:", time.Hour)

	_, err := c.Classify(context.Background(), []string{"love it", "meh"})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrorKindArtifact))
	assert.Empty(t, cache.data)
}
