package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateModuleStatus(t *testing.T) {
	done := Subtopic{Completed: true}
	todo := Subtopic{Completed: false}

	tests := []struct {
		name     string
		chapters []Chapter
		want     ModuleStatus
	}{
		{"无章节", nil, ModuleCompleted},
		{"全部为空章节", []Chapter{{}, {}}, ModuleCompleted},
		{"全部完成", []Chapter{{Subtopics: []Subtopic{done, done}}, {}}, ModuleCompleted},
		{"部分完成", []Chapter{{Subtopics: []Subtopic{done, todo}}}, ModuleOngoing},
		{"跨章节部分完成", []Chapter{{Subtopics: []Subtopic{done}}, {Subtopics: []Subtopic{todo}}}, ModuleOngoing},
		{"未开始", []Chapter{{Subtopics: []Subtopic{todo, todo}}, {}}, ModulePending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AggregateModuleStatus(tt.chapters))
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		action ReviewAction
		from   ReviewStatus
		to     ReviewStatus
		want   bool
	}{
		{ActionReview, ReviewPending, ReviewApproved, true},
		{ActionReview, ReviewPending, ReviewNeedsCorrection, true},
		{ActionReview, ReviewApproved, ReviewApproved, true},
		{ActionReview, ReviewNeedsCorrection, ReviewApproved, true},
		{ActionReview, ReviewApproved, ReviewPending, false},
		{ActionReview, ReviewPending, ReviewPending, false},
		{ActionDelegateEdit, ReviewApproved, ReviewPending, true},
		{ActionDelegateEdit, ReviewNeedsCorrection, ReviewPending, true},
		{ActionDelegateEdit, ReviewPending, ReviewApproved, false},
		{ActionReview, ReviewStatus("Rejected"), ReviewApproved, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.action, tt.from, tt.to),
			"CanTransition(%s, %s, %s)", tt.action, tt.from, tt.to)
	}
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"admin", "teacher", "delegate"} {
		_, err := ParseRole(s)
		assert.NoError(t, err, "ParseRole(%q)", s)
	}
	_, err := ParseRole("member")
	assert.Error(t, err, "未知角色应返回错误")
	assert.False(t, Role("ADMIN").Valid(), "角色区分大小写")
}

func TestParseEntryAndReviewStatus(t *testing.T) {
	_, err := ParseEntryStatus("Lecture Held")
	assert.NoError(t, err)
	_, err = ParseEntryStatus("Held")
	assert.Error(t, err, "未知上课结果应返回错误")

	_, err = ParseReviewStatus("Needs Correction")
	assert.NoError(t, err)
	_, err = ParseReviewStatus("Rejected")
	assert.Error(t, err, "未知审核状态应返回错误")
}
