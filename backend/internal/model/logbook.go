package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// EntryStatus 课代表上报的上课结果
type EntryStatus string

const (
	EntryLectureHeld EntryStatus = "Lecture Held"
	EntryCancelled   EntryStatus = "Cancelled"
	EntryPostponed   EntryStatus = "Postponed"
	EntryOther       EntryStatus = "Other"
)

// ParseEntryStatus 解析上课结果
func ParseEntryStatus(s string) (EntryStatus, error) {
	switch EntryStatus(s) {
	case EntryLectureHeld, EntryCancelled, EntryPostponed, EntryOther:
		return EntryStatus(s), nil
	default:
		return "", fmt.Errorf("未知上课结果: %q", s)
	}
}

// ReviewStatus 教师审核结论
type ReviewStatus string

const (
	ReviewPending         ReviewStatus = "Pending"
	ReviewApproved        ReviewStatus = "Approved"
	ReviewNeedsCorrection ReviewStatus = "Needs Correction"
)

// ParseReviewStatus 解析审核状态
func ParseReviewStatus(s string) (ReviewStatus, error) {
	switch ReviewStatus(s) {
	case ReviewPending, ReviewApproved, ReviewNeedsCorrection:
		return ReviewStatus(s), nil
	default:
		return "", fmt.Errorf("未知审核状态: %q", s)
	}
}

// ReviewAction 触发审核状态变化的动作
type ReviewAction string

const (
	// ActionReview 教师给出审核结论（允许对已审核条目重新审核）
	ActionReview ReviewAction = "review"
	// ActionDelegateEdit 课代表修改条目，无论原状态如何都回到 Pending
	ActionDelegateEdit ReviewAction = "delegate_edit"
)

// reviewTransitions 审核状态转换表：动作 → 原状态 → 允许的目标状态
var reviewTransitions = map[ReviewAction]map[ReviewStatus][]ReviewStatus{
	ActionReview: {
		ReviewPending:         {ReviewApproved, ReviewNeedsCorrection},
		ReviewApproved:        {ReviewApproved, ReviewNeedsCorrection},
		ReviewNeedsCorrection: {ReviewApproved, ReviewNeedsCorrection},
	},
	ActionDelegateEdit: {
		ReviewPending:         {ReviewPending},
		ReviewApproved:        {ReviewPending},
		ReviewNeedsCorrection: {ReviewPending},
	},
}

// CanTransition 判断转换是否在转换表中
func CanTransition(action ReviewAction, from, to ReviewStatus) bool {
	for _, allowed := range reviewTransitions[action][from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// LogbookEntry 课程日志条目 — 对应 logbook_entries
type LogbookEntry struct {
	LogbookEntryID   string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"logbook_entry_id"`
	CourseID         string      `gorm:"type:uuid;not null"                             json:"course_id"`
	DelegateID       string      `gorm:"type:uuid;not null"                             json:"delegate_id"`
	TimetableEntryID *string     `gorm:"type:uuid"                                      json:"timetable_entry_id,omitempty"`
	DayOfWeek        string      `gorm:"type:varchar(3);not null"                       json:"day_of_week"`
	TimeSlot         string      `gorm:"type:varchar(11);not null"                      json:"time_slot"`
	Status           EntryStatus `gorm:"type:varchar(20);not null"                      json:"status"`
	Remarks          string      `gorm:"type:text;not null;default:''"                  json:"remarks"`
	CoveredSubtopics StringArray `gorm:"type:uuid[];not null;default:'{}'"              json:"covered_subtopics"`

	ReviewStatus    ReviewStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"review_status"`
	ReviewRemarks   string       `gorm:"type:text;not null;default:''"               json:"review_remarks,omitempty"`
	ReviewedBy      *string      `gorm:"type:uuid"                                   json:"reviewed_by,omitempty"`
	ReviewTimestamp *time.Time   `json:"review_timestamp,omitempty"`
	VersionedModel

	// 关联
	Course   *Course `gorm:"foreignKey:CourseID;references:CourseID"     json:"course,omitempty"`
	Delegate *User   `gorm:"foreignKey:DelegateID;references:UserID"     json:"delegate,omitempty"`
	Reviewer *User   `gorm:"foreignKey:ReviewedBy;references:UserID"     json:"reviewer,omitempty"`
}

func (LogbookEntry) TableName() string { return "logbook_entries" }

// LogbookReviewLog 审核记录表 — 对应 logbook_review_logs（纯审计日志）
type LogbookReviewLog struct {
	ReviewLogID    string            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"review_log_id"`
	LogbookEntryID string            `gorm:"type:uuid;not null"                             json:"logbook_entry_id"`
	ActorID        string            `gorm:"type:uuid;not null"                             json:"actor_id"`
	Action         ReviewAction      `gorm:"type:varchar(20);not null"                      json:"action"`
	FromStatus     ReviewStatus      `gorm:"type:varchar(20);not null"                      json:"from_status"`
	ToStatus       ReviewStatus      `gorm:"type:varchar(20);not null"                      json:"to_status"`
	Remarks        string            `gorm:"type:text"                                      json:"remarks,omitempty"`
	Detail         datatypes.JSONMap `gorm:"type:jsonb"                                     json:"detail,omitempty"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (LogbookReviewLog) TableName() string { return "logbook_review_logs" }
