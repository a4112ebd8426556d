package model

// CourseStatus 课程状态
type CourseStatus string

const (
	CourseActive   CourseStatus = "Active"
	CourseInactive CourseStatus = "Inactive"
)

// Course 课程表 — 对应 courses
type Course struct {
	CourseID     string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Code         string       `gorm:"type:varchar(20);not null"                      json:"code"`
	Title        string       `gorm:"type:varchar(200);not null"                     json:"title"`
	Description  string       `gorm:"type:text"                                      json:"description,omitempty"`
	DepartmentID string       `gorm:"type:uuid;not null"                             json:"department_id"`
	Level        string       `gorm:"type:varchar(10);not null"                      json:"level"`
	Status       CourseStatus `gorm:"type:varchar(20);not null;default:'Active'"     json:"status"`
	VersionedModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }
