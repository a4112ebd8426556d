package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tambongslade/LockBook/backend/internal/dto"
	"github.com/tambongslade/LockBook/backend/internal/service"
	"github.com/tambongslade/LockBook/backend/pkg/response"
)

// ReviewHandler 教师审核 HTTP 处理器
type ReviewHandler struct {
	reviewSvc service.ReviewService
}

// NewReviewHandler 创建 ReviewHandler
func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

// ListPending 已分配课程下待审核的日志
// GET /api/v1/teacher/logbook/pending
func (h *ReviewHandler) ListPending(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.reviewSvc.ListPending(c.Request.Context(), teacherID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ListHistory 已分配课程下的全部日志
// GET /api/v1/teacher/logbook/history
func (h *ReviewHandler) ListHistory(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.reviewSvc.ListHistory(c.Request.Context(), teacherID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ListAllHistory 全部日志（分页）
// GET /api/v1/admin/logbook/history
func (h *ReviewHandler) ListAllHistory(c *gin.Context) {
	var req dto.LogbookHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.reviewSvc.ListAllHistory(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetForReview 审核详情（含审核记录）
// GET /api/v1/teacher/logbook/:id
func (h *ReviewHandler) GetForReview(c *gin.Context) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	detail, err := h.reviewSvc.GetForReview(c.Request.Context(), id, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, detail)
}

// Review 给出审核结论
// PUT /api/v1/teacher/logbook/:id/review
func (h *ReviewHandler) Review(c *gin.Context) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ReviewLogbookRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	entry, err := h.reviewSvc.Review(c.Request.Context(), id, &req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, entry)
}
