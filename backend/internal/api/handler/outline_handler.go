package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tambongslade/LockBook/backend/internal/dto"
	"github.com/tambongslade/LockBook/backend/internal/service"
	"github.com/tambongslade/LockBook/backend/pkg/response"
)

// OutlineHandler 课程大纲 HTTP 处理器
// 权限由服务层按课程判断：管理员与已分配教师可写，同院系课代表只读
type OutlineHandler struct {
	outlineSvc service.OutlineService
}

// NewOutlineHandler 创建 OutlineHandler
func NewOutlineHandler(outlineSvc service.OutlineService) *OutlineHandler {
	return &OutlineHandler{outlineSvc: outlineSvc}
}

// GetOutline 课程大纲（模块 → 章节 → 子主题）
// GET /api/v1/courses/:id/outline
func (h *OutlineHandler) GetOutline(c *gin.Context) {
	courseID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	modules, err := h.outlineSvc.GetOutline(c.Request.Context(), courseID, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"modules": modules})
}

// ── 模块 ──

// CreateModule 新增模块
// POST /api/v1/courses/:id/modules
func (h *OutlineHandler) CreateModule(c *gin.Context) {
	courseID, req, actor, ok := h.bindCreate(c)
	if !ok {
		return
	}

	module, err := h.outlineSvc.CreateModule(c.Request.Context(), courseID, req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, module)
}

// UpdateModule 修改模块
// PUT /api/v1/modules/:id
func (h *OutlineHandler) UpdateModule(c *gin.Context) {
	id, req, actor, ok := h.bindUpdate(c)
	if !ok {
		return
	}

	module, err := h.outlineSvc.UpdateModule(c.Request.Context(), id, req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, module)
}

// DeleteModule 删除模块及其章节、子主题
// DELETE /api/v1/modules/:id
func (h *OutlineHandler) DeleteModule(c *gin.Context) {
	id, actor, ok := h.bindDelete(c)
	if !ok {
		return
	}

	if err := h.outlineSvc.DeleteModule(c.Request.Context(), id, actor); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// ── 章节 ──

// CreateChapter 新增章节
// POST /api/v1/modules/:id/chapters
func (h *OutlineHandler) CreateChapter(c *gin.Context) {
	moduleID, req, actor, ok := h.bindCreate(c)
	if !ok {
		return
	}

	chapter, err := h.outlineSvc.CreateChapter(c.Request.Context(), moduleID, req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, chapter)
}

// UpdateChapter 修改章节
// PUT /api/v1/chapters/:id
func (h *OutlineHandler) UpdateChapter(c *gin.Context) {
	id, req, actor, ok := h.bindUpdate(c)
	if !ok {
		return
	}

	chapter, err := h.outlineSvc.UpdateChapter(c.Request.Context(), id, req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, chapter)
}

// DeleteChapter 删除章节及其子主题
// DELETE /api/v1/chapters/:id
func (h *OutlineHandler) DeleteChapter(c *gin.Context) {
	id, actor, ok := h.bindDelete(c)
	if !ok {
		return
	}

	if err := h.outlineSvc.DeleteChapter(c.Request.Context(), id, actor); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// ── 子主题 ──

// CreateSubtopic 新增子主题
// POST /api/v1/chapters/:id/subtopics
func (h *OutlineHandler) CreateSubtopic(c *gin.Context) {
	chapterID, req, actor, ok := h.bindCreate(c)
	if !ok {
		return
	}

	subtopic, err := h.outlineSvc.CreateSubtopic(c.Request.Context(), chapterID, req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, subtopic)
}

// UpdateSubtopic 修改子主题
// PUT /api/v1/subtopics/:id
func (h *OutlineHandler) UpdateSubtopic(c *gin.Context) {
	id, req, actor, ok := h.bindUpdate(c)
	if !ok {
		return
	}

	subtopic, err := h.outlineSvc.UpdateSubtopic(c.Request.Context(), id, req, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, subtopic)
}

// DeleteSubtopic 删除子主题
// DELETE /api/v1/subtopics/:id
func (h *OutlineHandler) DeleteSubtopic(c *gin.Context) {
	id, actor, ok := h.bindDelete(c)
	if !ok {
		return
	}

	if err := h.outlineSvc.DeleteSubtopic(c.Request.Context(), id, actor); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// ToggleSubtopic 切换子主题完成状态
// PATCH /api/v1/subtopics/:id/toggle
func (h *OutlineHandler) ToggleSubtopic(c *gin.Context) {
	id, actor, ok := h.bindDelete(c)
	if !ok {
		return
	}

	subtopic, err := h.outlineSvc.ToggleSubtopic(c.Request.Context(), id, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, subtopic)
}

// ── 辅助函数 ──

func (h *OutlineHandler) bindCreate(c *gin.Context) (string, *dto.CreateOutlineNodeRequest, service.Actor, bool) {
	parentID, ok := ParamUUID(c, "id")
	if !ok {
		return "", nil, service.Actor{}, false
	}
	var req dto.CreateOutlineNodeRequest
	if !bindJSON(c, &req) {
		return "", nil, service.Actor{}, false
	}
	actor, ok := MustGetActor(c)
	return parentID, &req, actor, ok
}

func (h *OutlineHandler) bindUpdate(c *gin.Context) (string, *dto.UpdateOutlineNodeRequest, service.Actor, bool) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return "", nil, service.Actor{}, false
	}
	var req dto.UpdateOutlineNodeRequest
	if !bindJSON(c, &req) {
		return "", nil, service.Actor{}, false
	}
	actor, ok := MustGetActor(c)
	return id, &req, actor, ok
}

// bindDelete 只需路径 ID 与认证主体的操作（删除、切换）
func (h *OutlineHandler) bindDelete(c *gin.Context) (string, service.Actor, bool) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return "", service.Actor{}, false
	}
	actor, ok := MustGetActor(c)
	return id, actor, ok
}
