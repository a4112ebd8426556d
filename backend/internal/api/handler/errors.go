package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tambongslade/LockBook/backend/internal/service"
	pkgerrors "github.com/tambongslade/LockBook/backend/pkg/errors"
	"github.com/tambongslade/LockBook/backend/pkg/response"
)

// 业务错误码
// 10xxx 通用 | 11xxx 认证 | 12xxx 用户与院系 | 13xxx 课程与课表
// 14xxx 大纲 | 15xxx 日志与审核 | 16xxx 导出
type errorMapping struct {
	err    error
	status int
	code   int
}

var errorTable = []errorMapping{
	{service.ErrNotAuthorized, http.StatusForbidden, 10003},

	{service.ErrInvalidCredentials, http.StatusUnauthorized, 11001},
	{service.ErrUserDisabled, http.StatusForbidden, 11002},
	{service.ErrInvalidToken, http.StatusUnauthorized, 11003},

	{service.ErrUserNotFound, http.StatusNotFound, 12001},
	{service.ErrEmailExists, http.StatusConflict, 12002},
	{service.ErrDelegateNeedsDept, http.StatusBadRequest, 12003},
	{service.ErrInvalidRole, http.StatusBadRequest, 12004},
	{service.ErrDepartmentNotFound, http.StatusNotFound, 12101},
	{service.ErrDepartmentCodeExists, http.StatusConflict, 12102},

	{service.ErrCourseNotFound, http.StatusNotFound, 13001},
	{service.ErrCourseCodeExists, http.StatusConflict, 13002},
	{service.ErrTeacherNotFound, http.StatusNotFound, 13003},
	{service.ErrInvalidTimeRange, http.StatusBadRequest, 13004},
	{service.ErrInvalidTimeFormat, http.StatusBadRequest, 13005},
	{service.ErrTimetableEntryNotFound, http.StatusNotFound, 13006},

	{service.ErrModuleNotFound, http.StatusNotFound, 14001},
	{service.ErrChapterNotFound, http.StatusNotFound, 14002},
	{service.ErrSubtopicNotFound, http.StatusNotFound, 14003},

	{service.ErrLogbookEntryNotFound, http.StatusNotFound, 15001},
	{service.ErrDuplicateEntry, http.StatusConflict, 15002},
	{service.ErrWindowClosed, http.StatusBadRequest, 15003},
	{pkgerrors.ErrOptimisticLock, http.StatusConflict, 15004},
	{service.ErrInvalidTransition, http.StatusBadRequest, 15101},

	{service.ErrExportNoCourses, http.StatusNotFound, 16101},
}

// handleServiceError 将服务层错误映射为统一响应
// 结构化错误附带 data，未识别的错误记入 c.Errors 并返回 500
func handleServiceError(c *gin.Context, err error) {
	var missing *service.MissingFieldError
	if errors.As(err, &missing) {
		response.ErrorWithData(c, http.StatusBadRequest, 10006, service.ErrMissingField.Error(),
			gin.H{"fields": missing.Fields})
		return
	}
	var invalid *service.ValidationError
	if errors.As(err, &invalid) {
		response.ErrorWithData(c, http.StatusBadRequest, 10007, service.ErrValidation.Error(),
			gin.H{"fields": invalid.Fields})
		return
	}
	var closed *service.WindowClosedError
	if errors.As(err, &closed) {
		response.ErrorWithData(c, http.StatusBadRequest, 15003, service.ErrWindowClosed.Error(), gin.H{
			"now":           closed.Now,
			"allowed_start": closed.AllowedStart,
			"allowed_end":   closed.AllowedEnd,
		})
		return
	}

	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			response.Error(c, m.status, m.code, m.err.Error())
			return
		}
	}

	_ = c.Error(err)
	response.InternalError(c)
}
