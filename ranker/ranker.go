// Package ranker selects the most positively reviewed products per cluster.
package ranker

import (
	"cmp"
	"slices"

	"review-digest/models"
)

const DefaultN = 3

// TopN counts reviews with the given sentiment per (cluster, name) and keeps
// the n highest counts of every cluster.
//
// Clusters are ordered ascending; within a cluster counts are descending and
// equal counts are ordered by name ascending. Reviews without a product name
// are not counted.
func TopN(reviews []models.Review, sentiment string, n int) []models.ProductAggregate {
	if n <= 0 {
		n = DefaultN
	}

	counts := make(map[models.ProductKey]int)
	for _, r := range reviews {
		if r.Sentiment != sentiment || !r.HasName() {
			continue
		}
		counts[models.ProductKey{Cluster: r.Cluster, Name: r.Name}]++
	}

	all := make([]models.ProductAggregate, 0, len(counts))
	for k, c := range counts {
		all = append(all, models.ProductAggregate{Cluster: k.Cluster, Name: k.Name, PositiveCount: c})
	}
	slices.SortFunc(all, compare)

	out := make([]models.ProductAggregate, 0, len(all))
	taken := 0
	for i, p := range all {
		if i == 0 || p.Cluster != all[i-1].Cluster {
			taken = 0
		}
		if taken < n {
			out = append(out, p)
			taken++
		}
	}
	return out
}

func compare(a, b models.ProductAggregate) int {
	if c := cmp.Compare(a.Cluster, b.Cluster); c != 0 {
		return c
	}
	if c := cmp.Compare(b.PositiveCount, a.PositiveCount); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}
