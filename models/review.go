package models

// Review is one row of the unified review table.
// Rating and ImageURLs are nil when the source cell was null or the column was absent.
type Review struct {
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Text      string   `json:"text"`
	Rating    *float64 `json:"rating,omitempty"`
	ImageURLs *string  `json:"image_urls,omitempty"`

	// Sentiment 은 분류기 단계에서, Cluster 는 카테고리 매핑 단계에서 채워진다.
	Sentiment string `json:"sentiment,omitempty"`
	Cluster   string `json:"category_cluster,omitempty"`

	Source    string `json:"source"`
	SourceRow int    `json:"source_row"`
}

// HasName reports whether the product name is usable as a grouping key.
func (r Review) HasName() bool {
	return r.Name != ""
}
