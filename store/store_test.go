package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brcorpus/ctts/builder"
	"github.com/brcorpus/ctts/store"
	"github.com/brcorpus/ctts/wavio"
)

func writeSilentWav(t *testing.T, path string, samples int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, wavio.Write(path, make([]int16, samples), store.SampleRate))
}

func buildTestDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeSilentWav(t, filepath.Join(dir, "letters", "wavs", "a.wav"), 400)
	writeSilentWav(t, filepath.Join(dir, "letters", "wavs", "b.wav"), 300)
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "letters", "letters.txt"),
		[]byte("a.wav|a|A\nb.wav|b|B\n"),
		0o644,
	))

	writeSilentWav(t, filepath.Join(dir, "syllables", "wavs", "pa.wav"), 500)
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "syllables", "sillabes.txt"),
		[]byte("pa.wav|pa|pa\n"),
		0o644,
	))

	return dir
}

func TestOpenRoundTrip(t *testing.T) {
	dataset := buildTestDataset(t)
	dbPath := filepath.Join(t.TempDir(), "test.db")

	require.NoError(t, builder.BuildDatabase(dataset, dbPath))

	s, err := store.Open(dbPath)
	require.NoError(t, err)

	assert.Equal(t, 3, s.UnitCount())
	assert.Equal(t, 2, s.MaxUnitChars())

	idx, ok := s.Lookup("pa")
	require.True(t, ok)
	unit := s.Unit(idx)
	assert.Equal(t, "pa", unit.Text)
	assert.Len(t, unit.Samples, 500)

	_, ok = s.Lookup("zz")
	assert.False(t, ok)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := store.Open(filepath.Join(t.TempDir(), "missing.db"))
	assert.Error(t, err)
}
