package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tambongslade/LockBook/backend/internal/dto"
	"github.com/tambongslade/LockBook/backend/internal/service"
	"github.com/tambongslade/LockBook/backend/pkg/response"
)

// CourseHandler 课程模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// CreateCourse 创建课程
// POST /api/v1/admin/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if !bindJSON(c, &req) {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, course)
}

// ListAll 全部课程
// GET /api/v1/admin/courses
func (h *CourseHandler) ListAll(c *gin.Context) {
	list, err := h.courseSvc.ListAll(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ListProgressAll 全部课程及进度
// GET /api/v1/admin/courses/progress
func (h *CourseHandler) ListProgressAll(c *gin.Context) {
	list, err := h.courseSvc.ListProgressAll(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ListMine 教师已分配的课程
// GET /api/v1/teacher/courses
func (h *CourseHandler) ListMine(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.courseSvc.ListForTeacher(c.Request.Context(), teacherID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ListMyProgress 教师已分配课程及进度
// GET /api/v1/teacher/courses/progress
func (h *CourseHandler) ListMyProgress(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.courseSvc.ListProgressForTeacher(c.Request.Context(), teacherID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetDetail 课程详情（模块概要 + 进度）
// GET /api/v1/courses/:id
func (h *CourseHandler) GetDetail(c *gin.Context) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	detail, err := h.courseSvc.GetDetail(c.Request.Context(), id, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, detail)
}

// GetProgress 课程进度
// GET /api/v1/courses/:id/progress
func (h *CourseHandler) GetProgress(c *gin.Context) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	detail, err := h.courseSvc.GetDetail(c.Request.Context(), id, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, detail.Progress)
}

// ListBySlot 课代表所在院系在指定时段的课程
// GET /api/v1/delegate/courses/by-slot?day=MON&time=07:00-09:00
func (h *CourseHandler) ListBySlot(c *gin.Context) {
	var req dto.CoursesBySlotRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.courseSvc.ListBySlot(c.Request.Context(), &req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}
