package dto

// ── 课程日志 DTO ──
// 必填项与枚举值由服务层校验，以区分缺失字段与非法取值

// SubmitLogbookRequest 按时段提交日志
type SubmitLogbookRequest struct {
	CourseID         string   `json:"course_id"         validate:"omitempty,uuid"`
	DayOfWeek        string   `json:"day_of_week"       validate:"omitempty,logday"`
	TimeSlot         string   `json:"time_slot"         validate:"omitempty,timeslot"`
	Status           string   `json:"status"            validate:"omitempty,oneof='Lecture Held' Cancelled Postponed Other"`
	Remarks          string   `json:"remarks"           validate:"max=2000"`
	CoveredSubtopics []string `json:"covered_subtopics" validate:"dive,uuid"`
}

// SubmitTimetableLogbookRequest 按具体上课安排提交日志（限时通道）
type SubmitTimetableLogbookRequest struct {
	TimetableEntryID string   `json:"timetable_entry_id" validate:"omitempty,uuid"`
	Status           string   `json:"status"             validate:"omitempty,oneof='Lecture Held' Cancelled Postponed Other"`
	Remarks          string   `json:"remarks"            validate:"max=2000"`
	CoveredSubtopics []string `json:"covered_subtopics"  validate:"dive,uuid"`
}

// UpdateLogbookRequest 课代表修改日志，未提供的字段保持不变
type UpdateLogbookRequest struct {
	Status           *string   `json:"status"            validate:"omitempty,oneof='Lecture Held' Cancelled Postponed Other"`
	Remarks          *string   `json:"remarks"           validate:"omitempty,max=2000"`
	CoveredSubtopics *[]string `json:"covered_subtopics" validate:"omitempty,dive,uuid"`
}

// ReviewLogbookRequest 教师审核请求
type ReviewLogbookRequest struct {
	ReviewStatus  string `json:"review_status"`
	ReviewRemarks string `json:"review_remarks" validate:"max=2000"`
}

// LogbookHistoryRequest 日志历史分页查询
type LogbookHistoryRequest struct {
	PaginationRequest
}

// LogbookEntryResponse 日志条目响应
type LogbookEntryResponse struct {
	ID               string       `json:"id"`
	Course           *CourseBrief `json:"course,omitempty"`
	Delegate         *UserBrief   `json:"delegate,omitempty"`
	TimetableEntryID *string      `json:"timetable_entry_id,omitempty"`
	DayOfWeek        string       `json:"day_of_week"`
	TimeSlot         string       `json:"time_slot"`
	Status           string       `json:"status"`
	Remarks          string       `json:"remarks"`
	CoveredSubtopics []string     `json:"covered_subtopics"`
	ReviewStatus     string       `json:"review_status"`
	ReviewRemarks    string       `json:"review_remarks,omitempty"`
	ReviewedBy       *UserBrief   `json:"reviewed_by,omitempty"`
	ReviewTimestamp  *string      `json:"review_timestamp,omitempty"`
	Version          int          `json:"version"`
	CreatedAt        string       `json:"created_at"`
	UpdatedAt        string       `json:"updated_at"`
}

// ReviewLogResponse 审核记录
type ReviewLogResponse struct {
	ID         string                 `json:"id"`
	ActorID    string                 `json:"actor_id"`
	Action     string                 `json:"action"`
	FromStatus string                 `json:"from_status"`
	ToStatus   string                 `json:"to_status"`
	Remarks    string                 `json:"remarks,omitempty"`
	Detail     map[string]interface{} `json:"detail,omitempty"`
	CreatedAt  string                 `json:"created_at"`
}

// LogbookEntryDetailResponse 审核详情（条目 + 审核记录）
type LogbookEntryDetailResponse struct {
	LogbookEntryResponse
	ReviewLogs []ReviewLogResponse `json:"review_logs"`
}
