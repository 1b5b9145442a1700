package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, CONFIG_FILE)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
pipeline:
  sources:
    - name: may19
      path: datasets/may19.csv
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Len(t, cfg.Pipeline.Sources, 1)
	assert.Equal(t, DefaultTopN, cfg.Pipeline.TopN)
	assert.Equal(t, DefaultMaxReviewsPerProduct, cfg.Pipeline.MaxReviewsPerProduct)
	assert.Equal(t, "positive", cfg.Pipeline.SentimentLabel)
	assert.Equal(t, DefaultOutputPath, cfg.Pipeline.OutputPath)
	assert.Equal(t, "reviews.text", cfg.Pipeline.Columns.Text)
	assert.Equal(t, "imageURLs", cfg.Pipeline.Columns.ImageURLs)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.ModelName)
	assert.Equal(t, 300, cfg.LLM.MaxOutputTokens)
	require.NotNil(t, cfg.LLM.Temperature)
	assert.InDelta(t, 0.5, *cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 1, cfg.LLM.Concurrency)
	assert.Equal(t, time.Minute, cfg.Classifier.Timeout)
}

func TestLoadKeepsExplicitValues(t *testing.T) {
	path := writeConfig(t, `
pipeline:
  top_n: 5
  output_path: out/digest.csv
  columns:
    text: body
classifier:
  timeout: 15s
llm:
  provider: google
  concurrency: 4
  temperature: 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Pipeline.TopN)
	assert.Equal(t, "out/digest.csv", cfg.Pipeline.OutputPath)
	assert.Equal(t, "body", cfg.Pipeline.Columns.Text)
	assert.Equal(t, 15*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, "google", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.ModelName)
	assert.Equal(t, 4, cfg.LLM.Concurrency)
	require.NotNil(t, cfg.LLM.Temperature)
	assert.Zero(t, *cfg.LLM.Temperature)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
