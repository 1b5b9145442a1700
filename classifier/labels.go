package classifier

import (
	"encoding/json"
	"fmt"
	"os"

	"review-digest/models"
)

// Labels is the ordered class list exported from the fitted label encoder.
type Labels []string

// LoadLabelEncoder reads the encoder classes from a JSON array file.
func LoadLabelEncoder(path string) (Labels, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, models.ArtifactError("read label encoder", err)
	}
	var labels Labels
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, models.ArtifactError("parse label encoder "+path, err)
	}
	if len(labels) == 0 {
		return nil, models.ArtifactError("label encoder "+path+" has no classes", nil)
	}
	return labels, nil
}

func (l Labels) InverseTransform(ids []int) ([]string, error) {
	out := make([]string, len(ids))
	for i, id := range ids {
		if id < 0 || id >= len(l) {
			return nil, models.ArtifactError("label id out of range",
				fmt.Errorf("id %d not in [0, %d)", id, len(l)))
		}
		out[i] = l[id]
	}
	return out, nil
}
