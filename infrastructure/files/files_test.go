package files

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"user":"alice","ids":[1,2]}`), 0o644))

	m, err := LoadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", m["user"])
	assert.Len(t, m["ids"], 2)
}

func TestReadJSONIntoStruct(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"bob","age":41}`), 0o644))

	var user struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	require.NoError(t, ReadJSON(path, &user))
	assert.Equal(t, "bob", user.Name)
	assert.Equal(t, 41, user.Age)
}

func TestLoadJSONErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadJSON(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"user":`), 0o644))
	_, err = LoadJSON(bad)
	assert.ErrorContains(t, err, "failed to parse")
}

func TestZipDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.txt"), []byte("beta"), 0o644))

	dest := filepath.Join(t.TempDir(), "out", "report.zip")
	count, err := ZipDirectory(dir, dest)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	reader, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer reader.Close()

	var names []string
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"a.txt", "nested/b.txt"}, names)
}

func TestZipDirectorySkipsItself(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644))

	count, err := ZipDirectory(dir, filepath.Join(dir, "self.zip"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestZipDirectoryRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha"), 0o644))

	_, err := ZipDirectory(path, filepath.Join(t.TempDir(), "x.zip"))
	assert.Error(t, err)
}
