package models

import "strings"

// ProductAggregate 는 (Cluster, Name) 단위의 긍정 리뷰 집계 결과다.
type ProductAggregate struct {
	Cluster       string `json:"category_cluster"`
	Name          string `json:"name"`
	PositiveCount int    `json:"positive_count"`
}

// Key returns the unique (cluster, name) key of the aggregate.
func (p ProductAggregate) Key() ProductKey {
	return ProductKey{Cluster: p.Cluster, Name: p.Name}
}

type ProductKey struct {
	Cluster string
	Name    string
}

// DigestRow is one row of the final output table.
// Collection/table: top_products
type DigestRow struct {
	Cluster           string   `json:"category_cluster" bson:"category_cluster"`
	Name              string   `json:"name" bson:"name"`
	PositiveCount     int      `json:"positive_count" bson:"positive_count"`
	Summary           string   `json:"summary" bson:"summary"`
	ImageURL          string   `json:"image_url" bson:"image_url"`
	AvgPositiveRating *float64 `json:"avg_positive_rating" bson:"avg_positive_rating"`
}

// DigestColumns is the header of the output table, in order.
var DigestColumns = []string{
	"category_cluster",
	"name",
	"positive_count",
	"summary",
	"image_url",
	"avg_positive_rating",
}

// SummaryFailed reports whether the summary is a generation error marker.
func (r DigestRow) SummaryFailed() bool {
	return strings.HasPrefix(r.Summary, "Error: ")
}
