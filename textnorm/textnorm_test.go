package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldLowercasesAndHandlesAccents(t *testing.T) {
	assert.Equal(t, "casa", Fold("CASA"))
	assert.Equal(t, "café", Fold("CAFÉ"))
	assert.Equal(t, "avó", Fold("AVÓ"))
}

func TestPrepareExpandsNumbersThenFolds(t *testing.T) {
	got := Prepare("TENHO 2 GATOS", nil)
	assert.Equal(t, "tenho dois gatos", got)
}
