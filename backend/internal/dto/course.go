package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Code         string `json:"code"          binding:"required,max=20"`
	Title        string `json:"title"         binding:"required,max=200"`
	Description  string `json:"description"`
	DepartmentID string `json:"department_id" binding:"required,uuid"`
	Level        string `json:"level"         binding:"required,oneof=100 200 300 400 500"`
}

// CoursesBySlotRequest 按时段查询课程
type CoursesBySlotRequest struct {
	Day  string `form:"day"  binding:"required,logday"`
	Time string `form:"time" binding:"required,timeslot"`
}

// CourseBrief 课程简要信息
type CourseBrief struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title"`
}

// CourseResponse 课程信息
type CourseResponse struct {
	ID          string              `json:"id"`
	Code        string              `json:"code"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Level       string              `json:"level"`
	Status      string              `json:"status"`
	Department  *DepartmentResponse `json:"department,omitempty"`
}

// CourseProgressResponse 课程及其进度
type CourseProgressResponse struct {
	CourseResponse
	Progress ProgressResponse `json:"progress"`
}

// ModuleSummaryResponse 模块概要（status 为缓存值）
type ModuleSummaryResponse struct {
	ID     string `json:"id"`
	Order  int    `json:"order"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// CourseDetailResponse 课程详情
type CourseDetailResponse struct {
	CourseResponse
	Modules  []ModuleSummaryResponse `json:"modules"`
	Progress ProgressResponse        `json:"progress"`
}
