package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tambongslade/LockBook/backend/internal/dto"
	"github.com/tambongslade/LockBook/backend/internal/service"
	"github.com/tambongslade/LockBook/backend/pkg/response"
)

// ScheduleHandler 课表模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// CreateEntry 创建课表条目
// POST /api/v1/admin/schedule-entries
func (h *ScheduleHandler) CreateEntry(c *gin.Context) {
	var req dto.CreateScheduleEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.scheduleSvc.CreateEntry(c.Request.Context(), &req, callerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, entry)
}

// ListEntries 查询课表条目
// GET /api/v1/admin/schedule-entries
func (h *ScheduleHandler) ListEntries(c *gin.Context) {
	var req dto.ScheduleEntryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.scheduleSvc.ListEntries(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CreateTimetableEntry 创建具体上课安排
// POST /api/v1/admin/timetable-entries
func (h *ScheduleHandler) CreateTimetableEntry(c *gin.Context) {
	var req dto.CreateTimetableEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.scheduleSvc.CreateTimetableEntry(c.Request.Context(), &req, callerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, entry)
}

// Today 课代表当天课表
// GET /api/v1/delegate/schedule/today
func (h *ScheduleHandler) Today(c *gin.Context) {
	delegateID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.TodaySchedule(c.Request.Context(), delegateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}
