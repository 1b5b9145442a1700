package category

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-digest/models"
)

func TestLookupDefaultsToUnknown(t *testing.T) {
	m := Mapping{"Electronics,Tablets": "Tablets"}

	assert.Equal(t, "Tablets", m.Lookup("Electronics,Tablets"))
	assert.Equal(t, Unknown, m.Lookup("Kitchen"))
	assert.Equal(t, Unknown, m.Lookup(""))
	assert.Equal(t, Unknown, Mapping(nil).Lookup("Electronics,Tablets"))
}

func TestAssign(t *testing.T) {
	m := Mapping{"a": "Readers", "b": "Speakers"}
	in := []models.Review{{Category: "a"}, {Category: "b"}, {Category: "c"}}

	out := Assign(in, m)

	assert.Equal(t, "Readers", out[0].Cluster)
	assert.Equal(t, "Speakers", out[1].Cluster)
	assert.Equal(t, Unknown, out[2].Cluster)
	assert.Empty(t, in[0].Cluster)
}

func TestLoadMapping(t *testing.T) {
	dir := t.TempDir()

	yml := filepath.Join(dir, "clusters.yaml")
	require.NoError(t, os.WriteFile(yml, []byte("\"Electronics,Tablets\": Tablets\nKindle: E-Readers\n"), 0o644))
	m, err := LoadMapping(yml)
	require.NoError(t, err)
	assert.Equal(t, "Tablets", m.Lookup("Electronics,Tablets"))
	assert.Equal(t, "E-Readers", m.Lookup("Kindle"))

	js := filepath.Join(dir, "clusters.json")
	require.NoError(t, os.WriteFile(js, []byte(`{"Echo":"Smart Speakers"}`), 0o644))
	m, err = LoadMapping(js)
	require.NoError(t, err)
	assert.Equal(t, "Smart Speakers", m.Lookup("Echo"))
}

func TestLoadMappingErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadMapping(filepath.Join(dir, "missing.json"))
	assert.True(t, models.IsKind(err, models.ErrorKindArtifact))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`["not","an","object"]`), 0o644))
	_, err = LoadMapping(bad)
	assert.True(t, models.IsKind(err, models.ErrorKindArtifact))
}
