package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tambongslade/LockBook/backend/internal/model"
	pkgerrors "github.com/tambongslade/LockBook/backend/pkg/errors"
)

// LogbookEntryRepository 课程日志数据访问接口
type LogbookEntryRepository interface {
	Create(ctx context.Context, entry *model.LogbookEntry) error
	GetByID(ctx context.Context, id string) (*model.LogbookEntry, error)
	// ExistsBySlot 同一课代表、课程、星期、时间段是否已有条目（含限时通道提交的条目）
	ExistsBySlot(ctx context.Context, delegateID, courseID, day, timeSlot string) (bool, error)
	// Update 乐观锁更新内容与审核字段
	Update(ctx context.Context, entry *model.LogbookEntry) error
	ListByDelegate(ctx context.Context, delegateID string) ([]model.LogbookEntry, error)
	ListByDelegateAndReviewStatus(ctx context.Context, delegateID string, status model.ReviewStatus) ([]model.LogbookEntry, error)
	ListByCourses(ctx context.Context, courseIDs []string, status model.ReviewStatus) ([]model.LogbookEntry, error)
	ListAll(ctx context.Context, offset, limit int) ([]model.LogbookEntry, int64, error)
}

// LogbookReviewLogRepository 审核日志数据访问接口
type LogbookReviewLogRepository interface {
	Create(ctx context.Context, log *model.LogbookReviewLog) error
	ListByEntry(ctx context.Context, entryID string) ([]model.LogbookReviewLog, error)
}

// ── LogbookEntry Repository 实现 ──

type logbookEntryRepo struct {
	db *gorm.DB
}

func NewLogbookEntryRepo(db *gorm.DB) LogbookEntryRepository {
	return &logbookEntryRepo{db: db}
}

func (r *logbookEntryRepo) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Course").
		Preload("Delegate").
		Preload("Reviewer")
}

func (r *logbookEntryRepo) Create(ctx context.Context, entry *model.LogbookEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *logbookEntryRepo) GetByID(ctx context.Context, id string) (*model.LogbookEntry, error) {
	var entry model.LogbookEntry
	err := r.preloaded(ctx).
		Where("logbook_entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *logbookEntryRepo) ExistsBySlot(ctx context.Context, delegateID, courseID, day, timeSlot string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.LogbookEntry{}).
		Where("delegate_id = ? AND course_id = ? AND day_of_week = ? AND time_slot = ?",
			delegateID, courseID, day, timeSlot).
		Count(&count).Error
	return count > 0, err
}

func (r *logbookEntryRepo) Update(ctx context.Context, entry *model.LogbookEntry) error {
	oldVersion := entry.Version
	result := r.db.WithContext(ctx).
		Model(&model.LogbookEntry{}).
		Where("logbook_entry_id = ? AND version = ?", entry.LogbookEntryID, oldVersion).
		Updates(map[string]interface{}{
			"status":            entry.Status,
			"remarks":           entry.Remarks,
			"covered_subtopics": entry.CoveredSubtopics,
			"review_status":     entry.ReviewStatus,
			"review_remarks":    entry.ReviewRemarks,
			"reviewed_by":       entry.ReviewedBy,
			"review_timestamp":  entry.ReviewTimestamp,
			"updated_by":        entry.UpdatedBy,
			"version":           oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Version = oldVersion + 1
	return nil
}

func (r *logbookEntryRepo) ListByDelegate(ctx context.Context, delegateID string) ([]model.LogbookEntry, error) {
	var entries []model.LogbookEntry
	err := r.preloaded(ctx).
		Where("delegate_id = ?", delegateID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *logbookEntryRepo) ListByDelegateAndReviewStatus(ctx context.Context, delegateID string, status model.ReviewStatus) ([]model.LogbookEntry, error) {
	var entries []model.LogbookEntry
	err := r.preloaded(ctx).
		Where("delegate_id = ? AND review_status = ?", delegateID, status).
		Order("review_timestamp DESC NULLS LAST, created_at DESC").
		Find(&entries).Error
	return entries, err
}

// ListByCourses 查询一组课程的条目，status 为空时不过滤审核状态
func (r *logbookEntryRepo) ListByCourses(ctx context.Context, courseIDs []string, status model.ReviewStatus) ([]model.LogbookEntry, error) {
	if len(courseIDs) == 0 {
		return []model.LogbookEntry{}, nil
	}
	db := r.preloaded(ctx).Where("course_id IN ?", courseIDs)
	if status != "" {
		db = db.Where("review_status = ?", status)
	}
	var entries []model.LogbookEntry
	err := db.Order("created_at DESC").Find(&entries).Error
	return entries, err
}

func (r *logbookEntryRepo) ListAll(ctx context.Context, offset, limit int) ([]model.LogbookEntry, int64, error) {
	var entries []model.LogbookEntry
	var total int64

	if err := r.db.WithContext(ctx).Model(&model.LogbookEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.preloaded(ctx).
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// ── LogbookReviewLog Repository 实现 ──

type logbookReviewLogRepo struct {
	db *gorm.DB
}

func NewLogbookReviewLogRepo(db *gorm.DB) LogbookReviewLogRepository {
	return &logbookReviewLogRepo{db: db}
}

func (r *logbookReviewLogRepo) Create(ctx context.Context, log *model.LogbookReviewLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *logbookReviewLogRepo) ListByEntry(ctx context.Context, entryID string) ([]model.LogbookReviewLog, error) {
	var logs []model.LogbookReviewLog
	err := r.db.WithContext(ctx).
		Where("logbook_entry_id = ?", entryID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}
