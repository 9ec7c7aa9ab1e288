package textnorm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRuleSetMissingFileIsEmpty(t *testing.T) {
	rs, err := NewRuleSet(filepath.Join(t.TempDir(), "missing.csv"))
	require.NoError(t, err)
	assert.Equal(t, "abc", rs.Apply("abc"))
}

func TestRuleSetApplySimpleSubstitution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.csv")
	require.NoError(t, os.WriteFile(path, []byte("dr\\.,doutor\n"), 0o644))

	rs, err := NewRuleSet(path)
	require.NoError(t, err)

	assert.Equal(t, "doutor silva", rs.Apply("dr. silva"))
}

func TestRuleSetApplyBackreference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.csv")
	require.NoError(t, os.WriteFile(path, []byte("(\\d+)kg,\\1 quilos\n"), 0o644))

	rs, err := NewRuleSet(path)
	require.NoError(t, err)

	assert.Equal(t, "peso de 10 quilos", rs.Apply("peso de 10kg"))
}

func TestRuleSetSkipsCommentsAndBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.csv")
	content := "# a comment\n\nfoo,bar\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rs, err := NewRuleSet(path)
	require.NoError(t, err)

	assert.Equal(t, "bar", rs.Apply("foo"))
}
