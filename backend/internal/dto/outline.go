package dto

// ── 课程大纲 DTO ──
// 请求体的字段规则由服务层统一校验（validate 标签），以返回字段级错误

// CreateOutlineNodeRequest 创建模块 / 章节 / 子主题请求
type CreateOutlineNodeRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Order       *int   `json:"order"       validate:"required,gte=0"`
}

// UpdateOutlineNodeRequest 更新模块 / 章节 / 子主题请求
type UpdateOutlineNodeRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Order       *int    `json:"order"       validate:"omitempty,gte=0"`
}

// SubtopicResponse 子主题响应
type SubtopicResponse struct {
	ID          string `json:"id"`
	ChapterID   string `json:"chapter_id"`
	Order       int    `json:"order"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
}

// ChapterResponse 章节响应，Completed 由子主题实时计算
type ChapterResponse struct {
	ID          string             `json:"id"`
	ModuleID    string             `json:"module_id"`
	Order       int                `json:"order"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Completed   bool               `json:"completed"`
	Subtopics   []SubtopicResponse `json:"subtopics"`
}

// ModuleResponse 模块响应，Status 由子主题实时计算
type ModuleResponse struct {
	ID          string            `json:"id"`
	CourseID    string            `json:"course_id"`
	Order       int               `json:"order"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Status      string            `json:"status"`
	Chapters    []ChapterResponse `json:"chapters"`
}

// ProgressResponse 课程进度
type ProgressResponse struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}
