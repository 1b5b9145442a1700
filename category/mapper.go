// Package category maps raw product category strings to canonical clusters.
package category

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"review-digest/models"
)

// Unknown is the cluster of every category missing from the mapping.
const Unknown = "Unknown"

// Mapping is the exported raw category → cluster lookup.
type Mapping map[string]string

// Lookup returns the cluster of raw, or Unknown.
func (m Mapping) Lookup(raw string) string {
	if cluster, ok := m[raw]; ok {
		return cluster
	}
	return Unknown
}

// LoadMapping reads a yaml (.yaml/.yml) or JSON object file.
func LoadMapping(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, models.ArtifactError("read category mapping", err)
	}

	m := Mapping{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, models.ArtifactError("parse category mapping "+path, err)
	}
	return m, nil
}

// Assign returns a copy of reviews with Cluster set.
func Assign(reviews []models.Review, m Mapping) []models.Review {
	out := make([]models.Review, len(reviews))
	for i, r := range reviews {
		r.Cluster = m.Lookup(r.Category)
		out[i] = r
	}
	return out
}
