package run

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLabelFormat(t *testing.T) {
	now := time.Date(2025, 8, 6, 14, 30, 5, 0, time.UTC)
	label := Label(now)

	assert.True(t, strings.HasPrefix(label, "20250806_143005_"), "label %q", label)
}

func TestLabelsUnique(t *testing.T) {
	now := time.Now()
	assert.NotEqual(t, Label(now), Label(now))
}

func TestNamingContract(t *testing.T) {
	assert.Equal(t, "analysis_x", DirName("x"))
	assert.Equal(t, "analysis_results_x.zip", ArchiveName("x"))
	assert.Equal(t, "age_distribution.png", PlotFileName("age"))
}

func TestHasArchive(t *testing.T) {
	assert.False(t, Result{}.HasArchive())
	assert.True(t, Result{ArchiveName: "a.zip"}.HasArchive())
}
