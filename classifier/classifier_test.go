package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-digest/models"
)

// fakeVectorizer encodes a text as a single feature holding its length.
type fakeVectorizer struct {
	calls int
	err   error
	short bool
}

func (f *fakeVectorizer) Transform(_ context.Context, texts []string) ([]Features, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]Features, len(texts))
	for i, t := range texts {
		out[i] = Features{Indices: []int{0}, Values: []float64{float64(len(t))}}
	}
	if f.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

// fakeModel predicts 1 (positive) for texts containing "good".
type fakeModel struct {
	texts map[float64]bool
}

func (f *fakeModel) Predict(_ context.Context, features []Features) ([]int, error) {
	out := make([]int, len(features))
	for i, feat := range features {
		if f.texts[feat.Values[0]] {
			out[i] = 1
		}
	}
	return out, nil
}

func newFakeModel(positive ...string) *fakeModel {
	m := &fakeModel{texts: map[float64]bool{}}
	for _, p := range positive {
		m.texts[float64(len(p))] = true
	}
	return m
}

var testLabels = Labels{"negative", "positive"}

func TestAdapterClassifiesInBatches(t *testing.T) {
	v := &fakeVectorizer{}
	a := NewAdapter(v, newFakeModel("good"), testLabels, 2)

	labels, err := a.Classify(context.Background(), []string{"good", "bad!!", "good", "terrible", "good"})
	require.NoError(t, err)

	assert.Equal(t, []string{"positive", "negative", "positive", "negative", "positive"}, labels)
	assert.Equal(t, 3, v.calls)
}

func TestAdapterEmptyInput(t *testing.T) {
	a := NewAdapter(&fakeVectorizer{}, newFakeModel(), testLabels, 0)

	labels, err := a.Classify(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestAdapterPropagatesArtifactErrors(t *testing.T) {
	cause := models.ArtifactError("vocabulary mismatch", errors.New("unknown token"))
	a := NewAdapter(&fakeVectorizer{err: cause}, newFakeModel(), testLabels, 10)

	_, err := a.Classify(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.Same(t, cause, err)
	assert.True(t, models.IsKind(err, models.ErrorKindArtifact))
}

func TestAdapterRejectsSizeMismatch(t *testing.T) {
	a := NewAdapter(&fakeVectorizer{short: true}, newFakeModel(), testLabels, 10)

	_, err := a.Classify(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrorKindArtifact))
}

func TestAnnotateReturnsCopy(t *testing.T) {
	a := NewAdapter(&fakeVectorizer{}, newFakeModel("love it"), testLabels, 256)
	in := []models.Review{
		{Name: "Echo", Text: "love it"},
		{Name: "Kindle", Text: "broke"},
	}

	out, err := Annotate(context.Background(), a, in)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "positive", out[0].Sentiment)
	assert.Equal(t, "negative", out[1].Sentiment)
	assert.Empty(t, in[0].Sentiment)
	assert.Equal(t, "Echo", out[0].Name)
}

func TestLabelsOutOfRange(t *testing.T) {
	_, err := testLabels.InverseTransform([]int{0, 2})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrorKindArtifact))
	assert.True(t, strings.Contains(err.Error(), "out of range"))
}
