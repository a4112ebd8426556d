package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tambongslade/LockBook/backend/internal/dto"
	"github.com/tambongslade/LockBook/backend/internal/service"
	"github.com/tambongslade/LockBook/backend/pkg/response"
)

// LogbookHandler 课代表日志 HTTP 处理器
type LogbookHandler struct {
	logbookSvc service.LogbookService
}

// NewLogbookHandler 创建 LogbookHandler
func NewLogbookHandler(logbookSvc service.LogbookService) *LogbookHandler {
	return &LogbookHandler{logbookSvc: logbookSvc}
}

// Submit 按时段提交日志
// POST /api/v1/delegate/logbook
func (h *LogbookHandler) Submit(c *gin.Context) {
	var req dto.SubmitLogbookRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	entry, err := h.logbookSvc.Submit(c.Request.Context(), &req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, entry)
}

// SubmitForTimetable 按具体上课安排提交日志（限时通道）
// POST /api/v1/delegate/logbook/timetable
func (h *LogbookHandler) SubmitForTimetable(c *gin.Context) {
	var req dto.SubmitTimetableLogbookRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	entry, err := h.logbookSvc.SubmitForTimetable(c.Request.Context(), &req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, entry)
}

// ListMine 我提交的日志（最新在前）
// GET /api/v1/delegate/logbook
func (h *LogbookHandler) ListMine(c *gin.Context) {
	delegateID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.logbookSvc.ListMine(c.Request.Context(), delegateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ListNeedingCorrection 被退回需修改的日志
// GET /api/v1/delegate/logbook/corrections
func (h *LogbookHandler) ListNeedingCorrection(c *gin.Context) {
	delegateID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.logbookSvc.ListNeedingCorrection(c.Request.Context(), delegateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetMine 日志详情（仅本人）
// GET /api/v1/delegate/logbook/:id
func (h *LogbookHandler) GetMine(c *gin.Context) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return
	}
	delegateID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.logbookSvc.GetMine(c.Request.Context(), id, delegateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, entry)
}

// Edit 修改日志，审核状态重置为 Pending
// PUT /api/v1/delegate/logbook/:id
func (h *LogbookHandler) Edit(c *gin.Context) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateLogbookRequest
	if !bindJSON(c, &req) {
		return
	}
	delegateID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.logbookSvc.Edit(c.Request.Context(), id, &req, delegateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, entry)
}
