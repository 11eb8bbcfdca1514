package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answersPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "answers.json")
}

func TestLoadAnswersAbsentFile(t *testing.T) {
	s := LoadAnswers(answersPath(t))
	assert.Equal(t, 0, s.Len())

	_, ok := s.Lookup("anything")
	assert.False(t, ok)
}

func TestLoadAnswersMalformedFile(t *testing.T) {
	path := answersPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := LoadAnswers(path)
	assert.Equal(t, 0, s.Len())
}

func TestAnswerStoreRoundTrip(t *testing.T) {
	path := answersPath(t)

	s := LoadAnswers(path)
	s.Put("how many years of commercial experience do you have?", "5")
	require.NoError(t, s.Flush())

	reloaded := LoadAnswers(path)
	got, ok := reloaded.Lookup("how many years of commercial experience do you have?")
	require.True(t, ok)
	assert.Equal(t, "5", got)
}

func TestAnswerStoreSubstringLookup(t *testing.T) {
	s := LoadAnswers(answersPath(t))
	s.Put("right to work", "Yes")

	got, ok := s.Lookup("do you have the right to work in australia?")
	require.True(t, ok)
	assert.Equal(t, "Yes", got)
}

func TestAnswerStoreExactBeatsSubstring(t *testing.T) {
	s := LoadAnswers(answersPath(t))
	s.Put("years of experience", "5")
	s.Put("how many years of experience do you have with go?", "3")

	got, ok := s.Lookup("how many years of experience do you have with go?")
	require.True(t, ok)
	assert.Equal(t, "3", got)
}

func TestAnswerStoreSortedKeyOrderBreaksTies(t *testing.T) {
	s := LoadAnswers(answersPath(t))
	s.Put("drivers licence", "Yes")
	s.Put("licence", "Full")

	// Both keys occur in the label; the alphabetically first one wins.
	got, ok := s.Lookup("do you hold a current drivers licence?")
	require.True(t, ok)
	assert.Equal(t, "Yes", got)
}

func TestAnswerStoreOverwriteSameLabel(t *testing.T) {
	s := LoadAnswers(answersPath(t))
	s.Put("expected salary", "80000")
	s.Put("expected salary", "95000")

	got, ok := s.Lookup("expected salary")
	require.True(t, ok)
	assert.Equal(t, "95000", got)
	assert.Equal(t, 1, s.Len())
}

func TestAnswerStoreIgnoresBlankLabel(t *testing.T) {
	s := LoadAnswers(answersPath(t))
	s.Put("   ", "junk")
	assert.Equal(t, 0, s.Len())
}

func TestAnswerStoreFlushIsByteStable(t *testing.T) {
	path := answersPath(t)

	s := LoadAnswers(path)
	s.Put("notice period", "4 weeks")
	s.Put("right to work", "Yes")

	require.NoError(t, s.Flush())
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, s.Flush())
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
