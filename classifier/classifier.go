// Package classifier adapts the pre-trained sentiment artifacts (feature
// transform, classifier, label decoder) into a text → label function.
package classifier

import (
	"context"
	"fmt"

	"review-digest/models"
)

// Features is a sparse feature vector produced by the vectorizer.
type Features struct {
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

// Vectorizer turns review texts into feature vectors.
type Vectorizer interface {
	Transform(ctx context.Context, texts []string) ([]Features, error)
}

// Model predicts a label id per feature vector.
type Model interface {
	Predict(ctx context.Context, features []Features) ([]int, error)
}

// LabelEncoder decodes label ids back into label strings.
type LabelEncoder interface {
	InverseTransform(ids []int) ([]string, error)
}

// Classifier maps texts to sentiment labels, one per text, in order.
type Classifier interface {
	Classify(ctx context.Context, texts []string) ([]string, error)
}

// Adapter composes the three artifacts into a Classifier.
type Adapter struct {
	vectorizer Vectorizer
	model      Model
	encoder    LabelEncoder
	batchSize  int
}

func NewAdapter(v Vectorizer, m Model, e LabelEncoder, batchSize int) *Adapter {
	if batchSize <= 0 {
		batchSize = 256
	}
	return &Adapter{vectorizer: v, model: m, encoder: e, batchSize: batchSize}
}

// Classify runs transform → predict → inverse_transform batch by batch.
// Errors from the artifacts are returned as-is.
func (a *Adapter) Classify(ctx context.Context, texts []string) ([]string, error) {
	labels := make([]string, 0, len(texts))
	for start := 0; start < len(texts); start += a.batchSize {
		end := min(start+a.batchSize, len(texts))
		batch := texts[start:end]

		features, err := a.vectorizer.Transform(ctx, batch)
		if err != nil {
			return nil, err
		}
		if len(features) != len(batch) {
			return nil, models.ArtifactError("vectorizer output size mismatch",
				fmt.Errorf("got %d vectors for %d texts", len(features), len(batch)))
		}

		ids, err := a.model.Predict(ctx, features)
		if err != nil {
			return nil, err
		}
		if len(ids) != len(batch) {
			return nil, models.ArtifactError("classifier output size mismatch",
				fmt.Errorf("got %d predictions for %d vectors", len(ids), len(batch)))
		}

		decoded, err := a.encoder.InverseTransform(ids)
		if err != nil {
			return nil, err
		}
		labels = append(labels, decoded...)
	}
	return labels, nil
}

// Annotate returns a copy of reviews with Sentiment set from the classifier.
func Annotate(ctx context.Context, c Classifier, reviews []models.Review) ([]models.Review, error) {
	texts := make([]string, len(reviews))
	for i, r := range reviews {
		texts[i] = r.Text
	}

	labels, err := c.Classify(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(labels) != len(reviews) {
		return nil, models.ArtifactError("classifier output size mismatch",
			fmt.Errorf("got %d labels for %d reviews", len(labels), len(reviews)))
	}

	out := make([]models.Review, len(reviews))
	for i, r := range reviews {
		r.Sentiment = labels[i]
		out[i] = r
	}
	return out, nil
}
