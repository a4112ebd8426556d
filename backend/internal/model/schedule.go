package model

import "time"

// ScheduleEntry 课表条目 — 对应 schedule_entries
// 以 (课程, 星期, 时间段) 定位一次固定上课；TeacherID 为空表示尚未分配教师
type ScheduleEntry struct {
	ScheduleEntryID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_entry_id"`
	CourseID        string  `gorm:"type:uuid;not null"                             json:"course_id"`
	DayOfWeek       string  `gorm:"type:varchar(3);not null"                       json:"day_of_week"` // MON..SUN
	TimeSlot        string  `gorm:"type:varchar(11);not null"                      json:"time_slot"`   // 07:00-09:00
	Hall            string  `gorm:"type:varchar(50)"                               json:"hall,omitempty"`
	TeacherID       *string `gorm:"type:uuid"                                      json:"teacher_id,omitempty"`
	BaseModel

	// 关联
	Course  *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
	Teacher *User   `gorm:"foreignKey:TeacherID;references:UserID"  json:"teacher,omitempty"`
}

func (ScheduleEntry) TableName() string { return "schedule_entries" }

// TimetableEntry 具体时间的上课安排 — 对应 timetable_entries（限时提交通道使用）
type TimetableEntry struct {
	TimetableEntryID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"timetable_entry_id"`
	CourseID         string    `gorm:"type:uuid;not null"                             json:"course_id"`
	TeacherID        string    `gorm:"type:uuid;not null"                             json:"teacher_id"`
	DayOfWeek        string    `gorm:"type:varchar(3);not null"                       json:"day_of_week"`
	TimeSlot         string    `gorm:"type:varchar(11);not null"                      json:"time_slot"`
	StartTime        time.Time `gorm:"not null"                                       json:"start_time"`
	EndTime          time.Time `gorm:"not null"                                       json:"end_time"`
	Hall             string    `gorm:"type:varchar(50)"                               json:"hall,omitempty"`
	BaseModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

func (TimetableEntry) TableName() string { return "timetable_entries" }
