package segment_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brcorpus/ctts/builder"
	"github.com/brcorpus/ctts/segment"
	"github.com/brcorpus/ctts/store"
	"github.com/brcorpus/ctts/wavio"
)

func writeWav(t *testing.T, path string, samples int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, wavio.Write(path, make([]int16, samples), store.SampleRate))
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()

	writeWav(t, filepath.Join(dir, "letters", "wavs", "p.wav"), 200)
	writeWav(t, filepath.Join(dir, "letters", "wavs", "a.wav"), 200)
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "letters", "letters.txt"),
		[]byte("p.wav|p|P\na.wav|a|A\n"),
		0o644,
	))

	writeWav(t, filepath.Join(dir, "syllables", "wavs", "pa.wav"), 300)
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "syllables", "sillabes.txt"),
		[]byte("pa.wav|pa|pa\n"),
		0o644,
	))

	dbPath := filepath.Join(dir, "test.db")
	require.NoError(t, builder.BuildDatabase(dir, dbPath))

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	return s
}

func TestSelectNextPrefersLongerSyllable(t *testing.T) {
	s := openTestStore(t)

	m := segment.SelectNext(s, "pa", s.MaxUnitChars(), true)
	require.GreaterOrEqual(t, m.UnitIdx, 0)

	unit := s.Unit(m.UnitIdx)
	require.Equal(t, "pa", unit.Text, "the two-character syllable should win over splitting into p + a")
}

func TestSelectNextNoMatch(t *testing.T) {
	s := openTestStore(t)
	m := segment.SelectNext(s, "zzz", s.MaxUnitChars(), true)
	require.Equal(t, -1, m.UnitIdx)
}
