package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tambongslade/LockBook/backend/internal/service"
	"github.com/tambongslade/LockBook/backend/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器（进度报表 .xlsx、周课表 .ics）
type ExportHandler struct {
	exportSvc   service.ExportService
	calendarSvc service.CalendarService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, calendarSvc service.CalendarService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, calendarSvc: calendarSvc}
}

// ExportProgress 导出课程进度报表
// GET /api/v1/admin/export/progress | GET /api/v1/teacher/export/progress
func (h *ExportHandler) ExportProgress(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportProgress(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	response.Attachment(c, filename, contentTypeXLSX, buf.Bytes())
}

// ExportCalendar 导出每周课表
// GET /api/v1/teacher/calendar.ics | GET /api/v1/delegate/calendar.ics
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	body, filename, err := h.calendarSvc.ExportWeekly(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Attachment(c, filename, contentTypeICS, []byte(body))
}
