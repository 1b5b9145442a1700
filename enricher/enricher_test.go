package enricher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-digest/models"
	"review-digest/summarizer"
)

const placeholder = "https://example.com/none.svg"

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestExtractImageURL(t *testing.T) {
	cases := []struct {
		name string
		raw  *string
		want string
	}{
		{"null", nil, placeholder},
		{"empty", strPtr(""), placeholder},
		{"blank", strPtr("   "), placeholder},
		{"only commas", strPtr(" , ,, "), placeholder},
		{"first", strPtr("http://a.png, http://b.png"), "http://a.png"},
		{"leading blank segment", strPtr(" , http://b.png"), "http://b.png"},
		{"single", strPtr("http://a.png"), "http://a.png"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractImageURL(tc.raw, placeholder))
		})
	}
}

func TestAvgPositiveRating(t *testing.T) {
	reviews := []models.Review{
		{Name: "Echo", Sentiment: "positive", Rating: f64Ptr(4)},
		{Name: "Echo", Sentiment: "negative", Rating: f64Ptr(1)},
		{Name: "Echo", Cluster: "Other", Sentiment: "positive", Rating: f64Ptr(5)},
		{Name: "Echo", Sentiment: "positive"},
		{Name: "Dot", Sentiment: "negative", Rating: f64Ptr(2)},
		{Name: "Tap", Sentiment: "positive", Rating: f64Ptr(5)},
		{Name: "Tap", Sentiment: "positive", Rating: f64Ptr(4)},
		{Name: "Tap", Sentiment: "positive", Rating: f64Ptr(4)},
	}
	for _, r := range []float64{5, 5, 5, 4, 4, 4, 3, 3} {
		reviews = append(reviews, models.Review{Name: "Show", Sentiment: "positive", Rating: f64Ptr(r)})
	}

	avg := AvgPositiveRating(reviews, "Echo", "positive")
	require.NotNil(t, avg)
	assert.Equal(t, 4.5, *avg)

	assert.Nil(t, AvgPositiveRating(reviews, "Dot", "positive"))
	assert.Nil(t, AvgPositiveRating(reviews, "Missing", "positive"))

	avg = AvgPositiveRating(reviews, "Tap", "positive")
	require.NotNil(t, avg)
	assert.Equal(t, 4.33, *avg)

	// 4.125 는 짝수 쪽으로 내림.
	avg = AvgPositiveRating(reviews, "Show", "positive")
	require.NotNil(t, avg)
	assert.Equal(t, 4.12, *avg)
}

func TestMerge(t *testing.T) {
	reviews := []models.Review{
		{Name: "Fire", Cluster: "Tablets", Sentiment: "positive", Rating: f64Ptr(5), ImageURLs: strPtr(" , http://fire.png,http://fire2.png")},
		{Name: "Fire", Cluster: "Tablets", Sentiment: "positive", Rating: f64Ptr(4), ImageURLs: strPtr("http://later.png")},
		{Name: "Kindle", Cluster: "Readers", Sentiment: "positive", Rating: f64Ptr(3)},
		{Name: "Kindle", Cluster: "Readers", Sentiment: "positive", Rating: f64Ptr(4), ImageURLs: strPtr("http://kindle.png")},
	}
	products := []models.ProductAggregate{
		{Cluster: "Readers", Name: "Kindle", PositiveCount: 2},
		{Cluster: "Tablets", Name: "Fire", PositiveCount: 2},
	}
	outcomes := []summarizer.Outcome{
		{Product: products[0], Err: errors.New("timeout")},
		{Product: products[1], Summary: "Fast tablet."},
	}

	rows := Merge(products, outcomes, reviews, Options{Sentiment: "positive", PlaceholderImageURL: placeholder})

	require.Len(t, rows, 2)

	assert.Equal(t, "Readers", rows[0].Cluster)
	assert.Equal(t, "Kindle", rows[0].Name)
	assert.Equal(t, 2, rows[0].PositiveCount)
	assert.Equal(t, "Error: timeout", rows[0].Summary)
	// 첫 번째 행의 이미지가 null 이면 이후 행을 보지 않는다.
	assert.Equal(t, placeholder, rows[0].ImageURL)
	require.NotNil(t, rows[0].AvgPositiveRating)
	assert.Equal(t, 3.5, *rows[0].AvgPositiveRating)

	assert.Equal(t, "Fast tablet.", rows[1].Summary)
	assert.Equal(t, "http://fire.png", rows[1].ImageURL)
	assert.Equal(t, 4.5, *rows[1].AvgPositiveRating)
}

func TestMergeEmpty(t *testing.T) {
	assert.Empty(t, Merge(nil, nil, nil, Options{PlaceholderImageURL: placeholder}))
}
