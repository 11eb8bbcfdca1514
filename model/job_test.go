package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWorkType(t *testing.T) {
	cases := []struct {
		raw  string
		want WorkType
	}{
		{"Remote", WorkTypeRemote},
		{"  remote ", WorkTypeRemote},
		{"WFH", WorkTypeRemote},
		{"work from home", WorkTypeRemote},
		{"Hybrid", WorkTypeHybrid},
		{"hybrid remote", WorkTypeHybrid},
		{"On-site", WorkTypeOnSite},
		{"onsite", WorkTypeOnSite},
		{"In Office", WorkTypeOnSite},
		{"", WorkTypeUnspecified},
		{"   ", WorkTypeUnspecified},
		{"Casual/Vacation", WorkType("Casual/Vacation")},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeWorkType(tc.raw), "raw=%q", tc.raw)
	}
}

func TestQuestionKindSingleChoice(t *testing.T) {
	assert.True(t, QuestionSelect.SingleChoice())
	assert.True(t, QuestionRadio.SingleChoice())
	assert.False(t, QuestionText.SingleChoice())
	assert.False(t, QuestionTextArea.SingleChoice())
	assert.False(t, QuestionCheckbox.SingleChoice())
}

func TestJobString(t *testing.T) {
	job := &Job{Title: "Go Developer", Company: "Acme", Location: "Sydney NSW", Salary: SalaryNotListed}
	assert.Equal(t, "[Go Developer | Acme | Sydney NSW | Not listed]", job.String())
}
