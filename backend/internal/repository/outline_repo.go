package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tambongslade/LockBook/backend/internal/model"
)

// OutlineModuleRepository 大纲模块数据访问接口
type OutlineModuleRepository interface {
	Create(ctx context.Context, module *model.OutlineModule) error
	GetByID(ctx context.Context, id string) (*model.OutlineModule, error)
	// ListByCourse 仅返回模块本身（含缓存的 status），不加载章节
	ListByCourse(ctx context.Context, courseID string) ([]model.OutlineModule, error)
	// ListTreeByCourse 返回模块 → 章节 → 子主题 的完整树，每层按 order 排序
	ListTreeByCourse(ctx context.Context, courseID string) ([]model.OutlineModule, error)
	Update(ctx context.Context, module *model.OutlineModule) error
	UpdateStatus(ctx context.Context, id string, status model.ModuleStatus) error
	Delete(ctx context.Context, id string) error
}

// ChapterRepository 章节数据访问接口
type ChapterRepository interface {
	Create(ctx context.Context, chapter *model.Chapter) error
	GetByID(ctx context.Context, id string) (*model.Chapter, error)
	// ListByModule 返回模块下所有章节及其子主题
	ListByModule(ctx context.Context, moduleID string) ([]model.Chapter, error)
	ListIDsByModule(ctx context.Context, moduleID string) ([]string, error)
	Update(ctx context.Context, chapter *model.Chapter) error
	Delete(ctx context.Context, id string) error
	DeleteByModule(ctx context.Context, moduleID string) error
}

// SubtopicRepository 子主题数据访问接口
type SubtopicRepository interface {
	Create(ctx context.Context, subtopic *model.Subtopic) error
	GetByID(ctx context.Context, id string) (*model.Subtopic, error)
	Update(ctx context.Context, subtopic *model.Subtopic) error
	Delete(ctx context.Context, id string) error
	DeleteByChapters(ctx context.Context, chapterIDs []string) error
	// Toggle 原子翻转 completed 并返回更新后的记录；id 不存在时返回 gorm.ErrRecordNotFound
	Toggle(ctx context.Context, id string) (*model.Subtopic, error)
	// FilterIDsByCourse 返回 ids 中属于该课程大纲的子主题 id
	FilterIDsByCourse(ctx context.Context, courseID string, ids []string) ([]string, error)
	// SetCompleted 将该课程下尚未完成的子主题置为完成，返回实际更新的行数；其他课程的 id 被忽略
	SetCompleted(ctx context.Context, courseID string, ids []string) (int64, error)
}

// ── OutlineModule Repository 实现 ──

type outlineModuleRepo struct {
	db *gorm.DB
}

func NewOutlineModuleRepo(db *gorm.DB) OutlineModuleRepository {
	return &outlineModuleRepo{db: db}
}

func (r *outlineModuleRepo) Create(ctx context.Context, module *model.OutlineModule) error {
	return r.db.WithContext(ctx).Create(module).Error
}

func (r *outlineModuleRepo) GetByID(ctx context.Context, id string) (*model.OutlineModule, error) {
	var module model.OutlineModule
	err := r.db.WithContext(ctx).
		Where("module_id = ?", id).
		First(&module).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *outlineModuleRepo) ListByCourse(ctx context.Context, courseID string) ([]model.OutlineModule, error) {
	var modules []model.OutlineModule
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("sort_order ASC, created_at ASC").
		Find(&modules).Error
	return modules, err
}

func (r *outlineModuleRepo) ListTreeByCourse(ctx context.Context, courseID string) ([]model.OutlineModule, error) {
	var modules []model.OutlineModule
	err := r.db.WithContext(ctx).
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Preload("Chapters.Subtopics", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Where("course_id = ?", courseID).
		Order("sort_order ASC, created_at ASC").
		Find(&modules).Error
	return modules, err
}

func (r *outlineModuleRepo) Update(ctx context.Context, module *model.OutlineModule) error {
	return r.db.WithContext(ctx).
		Model(&model.OutlineModule{}).
		Where("module_id = ?", module.ModuleID).
		Updates(map[string]interface{}{
			"sort_order":  module.Order,
			"title":       module.Title,
			"description": module.Description,
			"updated_by":  module.UpdatedBy,
		}).Error
}

func (r *outlineModuleRepo) UpdateStatus(ctx context.Context, id string, status model.ModuleStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.OutlineModule{}).
		Where("module_id = ?", id).
		Update("status", status).Error
}

func (r *outlineModuleRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("module_id = ?", id).
		Delete(&model.OutlineModule{}).Error
}

// ── Chapter Repository 实现 ──

type chapterRepo struct {
	db *gorm.DB
}

func NewChapterRepo(db *gorm.DB) ChapterRepository {
	return &chapterRepo{db: db}
}

func (r *chapterRepo) Create(ctx context.Context, chapter *model.Chapter) error {
	return r.db.WithContext(ctx).Create(chapter).Error
}

func (r *chapterRepo) GetByID(ctx context.Context, id string) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.db.WithContext(ctx).
		Where("chapter_id = ?", id).
		First(&chapter).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *chapterRepo) ListByModule(ctx context.Context, moduleID string) ([]model.Chapter, error) {
	var chapters []model.Chapter
	err := r.db.WithContext(ctx).
		Preload("Subtopics", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Where("module_id = ?", moduleID).
		Order("sort_order ASC, created_at ASC").
		Find(&chapters).Error
	return chapters, err
}

func (r *chapterRepo) ListIDsByModule(ctx context.Context, moduleID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Chapter{}).
		Where("module_id = ?", moduleID).
		Pluck("chapter_id", &ids).Error
	return ids, err
}

func (r *chapterRepo) Update(ctx context.Context, chapter *model.Chapter) error {
	return r.db.WithContext(ctx).
		Model(&model.Chapter{}).
		Where("chapter_id = ?", chapter.ChapterID).
		Updates(map[string]interface{}{
			"sort_order":  chapter.Order,
			"title":       chapter.Title,
			"description": chapter.Description,
			"updated_by":  chapter.UpdatedBy,
		}).Error
}

func (r *chapterRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("chapter_id = ?", id).
		Delete(&model.Chapter{}).Error
}

func (r *chapterRepo) DeleteByModule(ctx context.Context, moduleID string) error {
	return r.db.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Delete(&model.Chapter{}).Error
}

// ── Subtopic Repository 实现 ──

type subtopicRepo struct {
	db *gorm.DB
}

func NewSubtopicRepo(db *gorm.DB) SubtopicRepository {
	return &subtopicRepo{db: db}
}

func (r *subtopicRepo) Create(ctx context.Context, subtopic *model.Subtopic) error {
	return r.db.WithContext(ctx).Create(subtopic).Error
}

func (r *subtopicRepo) GetByID(ctx context.Context, id string) (*model.Subtopic, error) {
	var subtopic model.Subtopic
	err := r.db.WithContext(ctx).
		Where("subtopic_id = ?", id).
		First(&subtopic).Error
	if err != nil {
		return nil, err
	}
	return &subtopic, nil
}

func (r *subtopicRepo) Update(ctx context.Context, subtopic *model.Subtopic) error {
	return r.db.WithContext(ctx).
		Model(&model.Subtopic{}).
		Where("subtopic_id = ?", subtopic.SubtopicID).
		Updates(map[string]interface{}{
			"sort_order":  subtopic.Order,
			"title":       subtopic.Title,
			"description": subtopic.Description,
			"updated_by":  subtopic.UpdatedBy,
		}).Error
}

func (r *subtopicRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("subtopic_id = ?", id).
		Delete(&model.Subtopic{}).Error
}

func (r *subtopicRepo) DeleteByChapters(ctx context.Context, chapterIDs []string) error {
	if len(chapterIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("chapter_id IN ?", chapterIDs).
		Delete(&model.Subtopic{}).Error
}

// Toggle 单条 UPDATE ... RETURNING，由数据库行锁串行化同一子主题的并发翻转
func (r *subtopicRepo) Toggle(ctx context.Context, id string) (*model.Subtopic, error) {
	var subtopic model.Subtopic
	result := r.db.WithContext(ctx).
		Model(&subtopic).
		Clauses(clause.Returning{}).
		Where("subtopic_id = ?", id).
		Update("completed", gorm.Expr("NOT completed"))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &subtopic, nil
}

func (r *subtopicRepo) FilterIDsByCourse(ctx context.Context, courseID string, ids []string) ([]string, error) {
	found := make([]string, 0, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	err := r.db.WithContext(ctx).
		Model(&model.Subtopic{}).
		Where("subtopic_id IN ? AND chapter_id IN (?)", ids, r.courseChapters(courseID)).
		Pluck("subtopic_id", &found).Error
	return found, err
}

func (r *subtopicRepo) SetCompleted(ctx context.Context, courseID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.Subtopic{}).
		Where("subtopic_id IN ? AND completed = ? AND chapter_id IN (?)", ids, false, r.courseChapters(courseID)).
		Update("completed", true)
	return result.RowsAffected, result.Error
}

// courseChapters 课程下所有章节 id 的子查询
func (r *subtopicRepo) courseChapters(courseID string) *gorm.DB {
	return r.db.Model(&model.Chapter{}).
		Select("chapters.chapter_id").
		Joins("JOIN outline_modules ON outline_modules.module_id = chapters.module_id").
		Where("outline_modules.course_id = ?", courseID)
}
