// Package enricher joins ranked products with summaries, an image and the
// average positive rating to build the final digest rows.
package enricher

import (
	"math"
	"strings"

	"review-digest/config"
	"review-digest/models"
	"review-digest/summarizer"
)

type Options struct {
	Sentiment           string
	PlaceholderImageURL string
}

func OptionsFromConfig(cfg config.PipelineConfig) Options {
	return Options{
		Sentiment:           cfg.SentimentLabel,
		PlaceholderImageURL: cfg.PlaceholderImageURL,
	}
}

// ExtractImageURL picks the first usable URL from a comma separated list,
// falling back to placeholder. Null, blank and all-comma values are fine.
func ExtractImageURL(raw *string, placeholder string) string {
	if raw == nil {
		return placeholder
	}

	var urls []string
	for _, part := range strings.Split(*raw, ",") {
		if u := strings.TrimSpace(part); u != "" {
			urls = append(urls, u)
		}
	}

	switch {
	case len(urls) > 0 && urls[0] != "":
		return urls[0]
	case len(urls) > 1:
		return urls[1]
	default:
		return placeholder
	}
}

// AvgPositiveRating is the mean rating of the product's reviews with the
// given sentiment over the whole table, rounded to 2 decimals. Reviews
// without a rating are ignored; nil when none remain.
func AvgPositiveRating(reviews []models.Review, name, sentiment string) *float64 {
	var sum float64
	var n int
	for _, r := range reviews {
		if r.Name != name || r.Sentiment != sentiment || r.Rating == nil {
			continue
		}
		sum += *r.Rating
		n++
	}
	if n == 0 {
		return nil
	}
	avg := round2(sum / float64(n))
	return &avg
}

// round2 rounds half to even, like numpy.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// productMeta is the first-seen image and rating of a (name, cluster) pair.
type productMeta struct {
	imageURLs *string
	rating    *float64
}

func firstOccurrences(reviews []models.Review) map[models.ProductKey]productMeta {
	meta := make(map[models.ProductKey]productMeta)
	for _, r := range reviews {
		k := models.ProductKey{Cluster: r.Cluster, Name: r.Name}
		if _, ok := meta[k]; ok {
			continue
		}
		meta[k] = productMeta{imageURLs: r.ImageURLs, rating: r.Rating}
	}
	return meta
}

// Merge builds one digest row per product, in product order. outcomes must
// be index-aligned with products; a missing outcome leaves the summary empty.
func Merge(products []models.ProductAggregate, outcomes []summarizer.Outcome, reviews []models.Review, opts Options) []models.DigestRow {
	meta := firstOccurrences(reviews)

	rows := make([]models.DigestRow, len(products))
	for i, p := range products {
		row := models.DigestRow{
			Cluster:       p.Cluster,
			Name:          p.Name,
			PositiveCount: p.PositiveCount,
		}
		if i < len(outcomes) {
			row.Summary = outcomes[i].Text()
		}

		// 조인되지 않은 상품은 이미지가 null 로 취급되어 placeholder 를 사용한다.
		m := meta[p.Key()]
		row.ImageURL = ExtractImageURL(m.imageURLs, opts.PlaceholderImageURL)
		row.AvgPositiveRating = AvgPositiveRating(reviews, p.Name, opts.Sentiment)
		rows[i] = row
	}
	return rows
}
