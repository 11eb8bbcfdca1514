package answer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vector81/Jobby/config"
	"github.com/vector81/Jobby/model"
	"github.com/vector81/Jobby/store"
)

func testProfile() config.Profile {
	return config.Profile{
		Name:            "Jo Doe",
		Email:           "jo@example.com",
		Phone:           "0400 000 000",
		ExpectedSalary:  "95000",
		NoticePeriod:    "4 weeks",
		YearsExperience: 5,
	}
}

func newTestResolver(t *testing.T) (*Resolver, *store.AnswerStore) {
	t.Helper()
	answers := store.LoadAnswers(filepath.Join(t.TempDir(), "answers.json"))
	return NewResolver(answers, DefaultRules(testProfile())), answers
}

func question(label string, options ...string) model.ScreeningQuestion {
	kind := model.QuestionText
	if len(options) > 0 {
		kind = model.QuestionRadio
	}
	return model.ScreeningQuestion{Label: label, Kind: kind, Options: options}
}

func TestLearnedCacheBeatsRules(t *testing.T) {
	r, answers := newTestResolver(t)
	answers.Put("notice period", "6 weeks")

	// The rule table would say "4 weeks"; the learned answer must win.
	got, ok := r.Resolve(question("what is your notice period?"))
	require.True(t, ok)
	assert.Equal(t, "6 weeks", got)
}

func TestRuleTableAnswersRightToWork(t *testing.T) {
	r, answers := newTestResolver(t)

	got, ok := r.Resolve(question("do you have the right to work in australia?", "Yes", "No"))
	require.True(t, ok)
	assert.Equal(t, "Yes", got)

	learned, ok := answers.Lookup("do you have the right to work in australia?")
	require.True(t, ok)
	assert.Equal(t, "Yes", learned)
}

func TestRuleValueReconciledToOptionText(t *testing.T) {
	r, _ := newTestResolver(t)

	got, ok := r.Resolve(question("do you have the right to work in australia?",
		"Yes, I am an australian citizen", "No, I require sponsorship"))
	require.True(t, ok)
	assert.Equal(t, "Yes, I am an australian citizen", got)
}

func TestRuleFallsBackToFirstOption(t *testing.T) {
	r, _ := newTestResolver(t)

	// None of the options line up with the profile's "4 weeks".
	got, ok := r.Resolve(question("what is your notice period?",
		"1 week", "2 weeks", "more than 2 weeks"))
	require.True(t, ok)
	assert.Equal(t, "1 week", got)
}

func TestBinaryDefaultYesAndWriteBack(t *testing.T) {
	r, answers := newTestResolver(t)

	got, ok := r.Resolve(question("do you enjoy regulatory paperwork?", "No", "Yes"))
	require.True(t, ok)
	assert.Equal(t, "Yes", got)

	learned, ok := answers.Lookup("do you enjoy regulatory paperwork?")
	require.True(t, ok)
	assert.Equal(t, "Yes", learned)
}

func TestThreeOptionChoiceIsNotBinary(t *testing.T) {
	r, _ := newTestResolver(t)

	_, ok := r.Resolve(question("are you open to weekend shifts?", "Yes", "No", "Sometimes"))
	assert.False(t, ok)
}

func TestUnresolvedQuestionLeftAlone(t *testing.T) {
	r, answers := newTestResolver(t)

	_, ok := r.Resolve(question("describe your ideal team culture"))
	assert.False(t, ok)
	assert.Equal(t, 0, answers.Len())
}

func TestSubstringLearnedKeyAddsVerbatimEntry(t *testing.T) {
	r, answers := newTestResolver(t)
	answers.Put("security clearance", "NV1")

	got, ok := r.Resolve(question("do you hold a current security clearance?"))
	require.True(t, ok)
	assert.Equal(t, "NV1", got)

	// The longer label now carries its own entry alongside the original key.
	assert.Equal(t, 2, answers.Len())
}

func TestResolveBlankLabel(t *testing.T) {
	r, _ := newTestResolver(t)

	_, ok := r.Resolve(question("   "))
	assert.False(t, ok)
}

func TestResolveSurvivesFlushFailure(t *testing.T) {
	// A regular file where the data dir should be makes every flush fail;
	// resolution must carry on regardless.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	answers := store.LoadAnswers(filepath.Join(blocker, "answers.json"))
	r := NewResolver(answers, DefaultRules(testProfile()))

	got, ok := r.Resolve(question("do you have the right to work in australia?", "Yes", "No"))
	require.True(t, ok)
	assert.Equal(t, "Yes", got)
}
