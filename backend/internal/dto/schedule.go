package dto

// ── 课表模块 DTO ──

// CreateScheduleEntryRequest 创建课表条目请求
type CreateScheduleEntryRequest struct {
	CourseID  string  `json:"course_id"   binding:"required,uuid"`
	DayOfWeek string  `json:"day_of_week" binding:"required,logday"`
	TimeSlot  string  `json:"time_slot"   binding:"required,timeslot"`
	Hall      string  `json:"hall"        binding:"omitempty,max=50"`
	TeacherID *string `json:"teacher_id"  binding:"omitempty,uuid"`
}

// ScheduleEntryListRequest 课表条目查询参数
type ScheduleEntryListRequest struct {
	CourseID  string `form:"course_id"  binding:"omitempty,uuid"`
	TeacherID string `form:"teacher_id" binding:"omitempty,uuid"`
	Day       string `form:"day"        binding:"omitempty,logday"`
	TimeSlot  string `form:"time_slot"  binding:"omitempty,timeslot"`
}

// ScheduleEntryResponse 课表条目响应
type ScheduleEntryResponse struct {
	ID        string       `json:"id"`
	Course    *CourseBrief `json:"course,omitempty"`
	DayOfWeek string       `json:"day_of_week"`
	TimeSlot  string       `json:"time_slot"`
	Hall      string       `json:"hall,omitempty"`
	Teacher   *UserBrief   `json:"teacher,omitempty"`
}

// CreateTimetableEntryRequest 创建具体上课安排请求
type CreateTimetableEntryRequest struct {
	CourseID  string `json:"course_id"   binding:"required,uuid"`
	TeacherID string `json:"teacher_id"  binding:"required,uuid"`
	DayOfWeek string `json:"day_of_week" binding:"required,logday"`
	TimeSlot  string `json:"time_slot"   binding:"required,timeslot"`
	StartTime string `json:"start_time"  binding:"required"` // RFC3339
	EndTime   string `json:"end_time"    binding:"required"` // RFC3339
	Hall      string `json:"hall"        binding:"omitempty,max=50"`
}

// TimetableEntryResponse 具体上课安排响应
type TimetableEntryResponse struct {
	ID        string `json:"id"`
	CourseID  string `json:"course_id"`
	TeacherID string `json:"teacher_id"`
	DayOfWeek string `json:"day_of_week"`
	TimeSlot  string `json:"time_slot"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Hall      string `json:"hall,omitempty"`
}

// TodayScheduleResponse 课代表当天课表
type TodayScheduleResponse struct {
	Day      string                   `json:"day"`
	Date     string                   `json:"date"`
	Entries  []ScheduleEntryResponse  `json:"entries"`
	Sessions []TimetableEntryResponse `json:"sessions"`
}
