package service

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tambongslade/LockBook/backend/internal/dto"
	"github.com/tambongslade/LockBook/backend/internal/model"
	"github.com/tambongslade/LockBook/backend/internal/repository"
)

var (
	ErrModuleNotFound   = errors.New("大纲模块不存在")
	ErrChapterNotFound  = errors.New("章节不存在")
	ErrSubtopicNotFound = errors.New("子主题不存在")
)

// ProgressCalculator 课程进度计算
type ProgressCalculator interface {
	CalculateProgress(ctx context.Context, courseID string) dto.ProgressResponse
}

// OutlineService 课程大纲与进度业务接口
type OutlineService interface {
	ProgressCalculator

	GetOutline(ctx context.Context, courseID string, actor Actor) ([]dto.ModuleResponse, error)

	CreateModule(ctx context.Context, courseID string, req *dto.CreateOutlineNodeRequest, actor Actor) (*dto.ModuleResponse, error)
	UpdateModule(ctx context.Context, id string, req *dto.UpdateOutlineNodeRequest, actor Actor) (*dto.ModuleResponse, error)
	DeleteModule(ctx context.Context, id string, actor Actor) error

	CreateChapter(ctx context.Context, moduleID string, req *dto.CreateOutlineNodeRequest, actor Actor) (*dto.ChapterResponse, error)
	UpdateChapter(ctx context.Context, id string, req *dto.UpdateOutlineNodeRequest, actor Actor) (*dto.ChapterResponse, error)
	DeleteChapter(ctx context.Context, id string, actor Actor) error

	CreateSubtopic(ctx context.Context, chapterID string, req *dto.CreateOutlineNodeRequest, actor Actor) (*dto.SubtopicResponse, error)
	UpdateSubtopic(ctx context.Context, id string, req *dto.UpdateOutlineNodeRequest, actor Actor) (*dto.SubtopicResponse, error)
	DeleteSubtopic(ctx context.Context, id string, actor Actor) error

	// ToggleSubtopic 翻转完成状态，并依据最新数据重新计算所属模块的缓存状态
	ToggleSubtopic(ctx context.Context, id string, actor Actor) (*dto.SubtopicResponse, error)
	// SetSubtopicsCompleted 批量置为完成（幂等），仅作用于该课程的子主题，不重新计算模块状态
	SetSubtopicsCompleted(ctx context.Context, courseID string, ids []string) (int64, error)
}

type outlineService struct {
	repo   *repository.Repository
	access *courseAccess
	logger *zap.Logger
}

// NewOutlineService 创建 OutlineService 实例
func NewOutlineService(repo *repository.Repository, logger *zap.Logger) OutlineService {
	return &outlineService{
		repo:   repo,
		access: &courseAccess{repo: repo, logger: logger},
		logger: logger,
	}
}

// ────────────────────── 查询 ──────────────────────

func (s *outlineService) GetOutline(ctx context.Context, courseID string, actor Actor) ([]dto.ModuleResponse, error) {
	if err := s.access.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}
	if err := s.access.canView(ctx, actor, courseID); err != nil {
		return nil, err
	}

	modules, err := s.repo.Module.ListTreeByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询课程大纲失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	list := make([]dto.ModuleResponse, 0, len(modules))
	for i := range modules {
		list = append(list, toModuleResponse(&modules[i]))
	}
	return list, nil
}

// CalculateProgress 从子主题实时统计课程进度
// 进度仅供参考：任何读取失败都返回全零结果而不是错误
func (s *outlineService) CalculateProgress(ctx context.Context, courseID string) dto.ProgressResponse {
	modules, err := s.repo.Module.ListTreeByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("计算课程进度失败，返回零值", zap.String("course_id", courseID), zap.Error(err))
		return dto.ProgressResponse{}
	}
	return countProgress(modules)
}

func countProgress(modules []model.OutlineModule) dto.ProgressResponse {
	var completed, total int
	for i := range modules {
		for j := range modules[i].Chapters {
			for _, st := range modules[i].Chapters[j].Subtopics {
				total++
				if st.Completed {
					completed++
				}
			}
		}
	}
	return dto.ProgressResponse{
		Completed:  completed,
		Total:      total,
		Percentage: percentage(completed, total),
	}
}

// percentage 四舍五入到整数，total 为 0 时返回 0
func percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) * 100 / float64(total)))
}

// ────────────────────── Module ──────────────────────

func (s *outlineService) CreateModule(ctx context.Context, courseID string, req *dto.CreateOutlineNodeRequest, actor Actor) (*dto.ModuleResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.access.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}
	if err := s.access.canManage(ctx, actor, courseID); err != nil {
		return nil, err
	}

	module := &model.OutlineModule{
		CourseID:    courseID,
		Order:       *req.Order,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.ModulePending,
	}
	module.CreatedBy = &actor.UserID
	module.UpdatedBy = &actor.UserID

	if err := s.repo.Module.Create(ctx, module); err != nil {
		s.logger.Error("创建大纲模块失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	resp := toModuleResponse(module)
	return &resp, nil
}

func (s *outlineService) UpdateModule(ctx context.Context, id string, req *dto.UpdateOutlineNodeRequest, actor Actor) (*dto.ModuleResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	module, err := s.getModule(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.canManage(ctx, actor, module.CourseID); err != nil {
		return nil, err
	}

	applyNodeUpdate(req, &module.Title, &module.Description, &module.Order)
	module.UpdatedBy = &actor.UserID

	if err := s.repo.Module.Update(ctx, module); err != nil {
		s.logger.Error("更新大纲模块失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	chapters, err := s.repo.Chapter.ListByModule(ctx, id)
	if err != nil {
		s.logger.Error("查询章节失败", zap.String("module_id", id), zap.Error(err))
		return nil, err
	}
	module.Chapters = chapters

	resp := toModuleResponse(module)
	return &resp, nil
}

// DeleteModule 逐级删除子主题、章节、模块；不使用事务，部分失败时保留已完成的删除
func (s *outlineService) DeleteModule(ctx context.Context, id string, actor Actor) error {
	module, err := s.getModule(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.canManage(ctx, actor, module.CourseID); err != nil {
		return err
	}

	chapterIDs, err := s.repo.Chapter.ListIDsByModule(ctx, id)
	if err != nil {
		s.logger.Error("查询模块章节失败", zap.String("module_id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Subtopic.DeleteByChapters(ctx, chapterIDs); err != nil {
		s.logger.Error("级联删除子主题失败", zap.String("module_id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Chapter.DeleteByModule(ctx, id); err != nil {
		s.logger.Error("级联删除章节失败，子主题已删除", zap.String("module_id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Module.Delete(ctx, id); err != nil {
		s.logger.Error("删除大纲模块失败，章节已删除", zap.String("module_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("大纲模块已删除",
		zap.String("module_id", id),
		zap.Int("chapters", len(chapterIDs)),
		zap.String("operator", actor.UserID),
	)
	return nil
}

// ────────────────────── Chapter ──────────────────────

func (s *outlineService) CreateChapter(ctx context.Context, moduleID string, req *dto.CreateOutlineNodeRequest, actor Actor) (*dto.ChapterResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	module, err := s.getModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if err := s.access.canManage(ctx, actor, module.CourseID); err != nil {
		return nil, err
	}

	chapter := &model.Chapter{
		ModuleID:    moduleID,
		Order:       *req.Order,
		Title:       req.Title,
		Description: req.Description,
	}
	chapter.CreatedBy = &actor.UserID
	chapter.UpdatedBy = &actor.UserID

	if err := s.repo.Chapter.Create(ctx, chapter); err != nil {
		s.logger.Error("创建章节失败", zap.String("module_id", moduleID), zap.Error(err))
		return nil, err
	}

	resp := toChapterResponse(chapter)
	return &resp, nil
}

func (s *outlineService) UpdateChapter(ctx context.Context, id string, req *dto.UpdateOutlineNodeRequest, actor Actor) (*dto.ChapterResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	chapter, module, err := s.getChapterWithModule(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.canManage(ctx, actor, module.CourseID); err != nil {
		return nil, err
	}

	applyNodeUpdate(req, &chapter.Title, &chapter.Description, &chapter.Order)
	chapter.UpdatedBy = &actor.UserID

	if err := s.repo.Chapter.Update(ctx, chapter); err != nil {
		s.logger.Error("更新章节失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toChapterResponse(chapter)
	return &resp, nil
}

// DeleteChapter 先删除子主题再删除章节；模块状态不自动重算
func (s *outlineService) DeleteChapter(ctx context.Context, id string, actor Actor) error {
	_, module, err := s.getChapterWithModule(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.canManage(ctx, actor, module.CourseID); err != nil {
		return err
	}

	if err := s.repo.Subtopic.DeleteByChapters(ctx, []string{id}); err != nil {
		s.logger.Error("级联删除子主题失败", zap.String("chapter_id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Chapter.Delete(ctx, id); err != nil {
		s.logger.Error("删除章节失败，子主题已删除", zap.String("chapter_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Subtopic ──────────────────────

func (s *outlineService) CreateSubtopic(ctx context.Context, chapterID string, req *dto.CreateOutlineNodeRequest, actor Actor) (*dto.SubtopicResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	_, module, err := s.getChapterWithModule(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if err := s.access.canManage(ctx, actor, module.CourseID); err != nil {
		return nil, err
	}

	subtopic := &model.Subtopic{
		ChapterID:   chapterID,
		Order:       *req.Order,
		Title:       req.Title,
		Description: req.Description,
	}
	subtopic.CreatedBy = &actor.UserID
	subtopic.UpdatedBy = &actor.UserID

	if err := s.repo.Subtopic.Create(ctx, subtopic); err != nil {
		s.logger.Error("创建子主题失败", zap.String("chapter_id", chapterID), zap.Error(err))
		return nil, err
	}

	resp := toSubtopicResponse(subtopic)
	return &resp, nil
}

func (s *outlineService) UpdateSubtopic(ctx context.Context, id string, req *dto.UpdateOutlineNodeRequest, actor Actor) (*dto.SubtopicResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	subtopic, module, err := s.getSubtopicWithModule(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.canManage(ctx, actor, module.CourseID); err != nil {
		return nil, err
	}

	applyNodeUpdate(req, &subtopic.Title, &subtopic.Description, &subtopic.Order)
	subtopic.UpdatedBy = &actor.UserID

	if err := s.repo.Subtopic.Update(ctx, subtopic); err != nil {
		s.logger.Error("更新子主题失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toSubtopicResponse(subtopic)
	return &resp, nil
}

func (s *outlineService) DeleteSubtopic(ctx context.Context, id string, actor Actor) error {
	_, module, err := s.getSubtopicWithModule(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.canManage(ctx, actor, module.CourseID); err != nil {
		return err
	}

	if err := s.repo.Subtopic.Delete(ctx, id); err != nil {
		s.logger.Error("删除子主题失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *outlineService) ToggleSubtopic(ctx context.Context, id string, actor Actor) (*dto.SubtopicResponse, error) {
	_, module, err := s.getSubtopicWithModule(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.canManage(ctx, actor, module.CourseID); err != nil {
		return nil, err
	}

	subtopic, err := s.repo.Subtopic.Toggle(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubtopicNotFound
		}
		s.logger.Error("切换子主题状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 翻转提交后重新读取章节与子主题，避免基于旧快照计算
	if err := s.recomputeModuleStatus(ctx, module.ModuleID); err != nil {
		return nil, err
	}

	resp := toSubtopicResponse(subtopic)
	return &resp, nil
}

func (s *outlineService) recomputeModuleStatus(ctx context.Context, moduleID string) error {
	chapters, err := s.repo.Chapter.ListByModule(ctx, moduleID)
	if err != nil {
		s.logger.Error("重新计算模块状态失败：查询章节出错", zap.String("module_id", moduleID), zap.Error(err))
		return err
	}
	status := model.AggregateModuleStatus(chapters)
	if err := s.repo.Module.UpdateStatus(ctx, moduleID, status); err != nil {
		s.logger.Error("写回模块状态失败", zap.String("module_id", moduleID), zap.Error(err))
		return err
	}
	return nil
}

func (s *outlineService) SetSubtopicsCompleted(ctx context.Context, courseID string, ids []string) (int64, error) {
	n, err := s.repo.Subtopic.SetCompleted(ctx, courseID, model.StringArray(ids).Unique())
	if err != nil {
		s.logger.Error("批量完成子主题失败", zap.String("course_id", courseID), zap.Strings("ids", ids), zap.Error(err))
		return 0, err
	}
	return n, nil
}

// ────────────────────── 内部辅助 ──────────────────────

func (s *outlineService) getModule(ctx context.Context, id string) (*model.OutlineModule, error) {
	module, err := s.repo.Module.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		s.logger.Error("查询大纲模块失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return module, nil
}

func (s *outlineService) getChapterWithModule(ctx context.Context, id string) (*model.Chapter, *model.OutlineModule, error) {
	chapter, err := s.repo.Chapter.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrChapterNotFound
		}
		s.logger.Error("查询章节失败", zap.String("id", id), zap.Error(err))
		return nil, nil, err
	}
	module, err := s.getModule(ctx, chapter.ModuleID)
	if err != nil {
		return nil, nil, err
	}
	return chapter, module, nil
}

func (s *outlineService) getSubtopicWithModule(ctx context.Context, id string) (*model.Subtopic, *model.OutlineModule, error) {
	subtopic, err := s.repo.Subtopic.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrSubtopicNotFound
		}
		s.logger.Error("查询子主题失败", zap.String("id", id), zap.Error(err))
		return nil, nil, err
	}
	_, module, err := s.getChapterWithModule(ctx, subtopic.ChapterID)
	if err != nil {
		return nil, nil, err
	}
	return subtopic, module, nil
}

func applyNodeUpdate(req *dto.UpdateOutlineNodeRequest, title, description *string, order *int) {
	if req.Title != nil {
		*title = *req.Title
	}
	if req.Description != nil {
		*description = *req.Description
	}
	if req.Order != nil {
		*order = *req.Order
	}
}

// ────────────────────── 响应转换 ──────────────────────

// toModuleResponse 状态由当前加载的章节实时计算，不使用缓存列
func toModuleResponse(m *model.OutlineModule) dto.ModuleResponse {
	chapters := make([]dto.ChapterResponse, 0, len(m.Chapters))
	for i := range m.Chapters {
		chapters = append(chapters, toChapterResponse(&m.Chapters[i]))
	}
	return dto.ModuleResponse{
		ID:          m.ModuleID,
		CourseID:    m.CourseID,
		Order:       m.Order,
		Title:       m.Title,
		Description: m.Description,
		Status:      string(model.AggregateModuleStatus(m.Chapters)),
		Chapters:    chapters,
	}
}

func toChapterResponse(c *model.Chapter) dto.ChapterResponse {
	subtopics := make([]dto.SubtopicResponse, 0, len(c.Subtopics))
	for i := range c.Subtopics {
		subtopics = append(subtopics, toSubtopicResponse(&c.Subtopics[i]))
	}
	return dto.ChapterResponse{
		ID:          c.ChapterID,
		ModuleID:    c.ModuleID,
		Order:       c.Order,
		Title:       c.Title,
		Description: c.Description,
		Completed:   c.AllComplete(),
		Subtopics:   subtopics,
	}
}

func toSubtopicResponse(st *model.Subtopic) dto.SubtopicResponse {
	return dto.SubtopicResponse{
		ID:          st.SubtopicID,
		ChapterID:   st.ChapterID,
		Order:       st.Order,
		Title:       st.Title,
		Description: st.Description,
		Completed:   st.Completed,
	}
}
