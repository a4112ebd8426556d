package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User           UserRepository
	Department     DepartmentRepository
	Course         CourseRepository
	ScheduleEntry  ScheduleEntryRepository
	TimetableEntry TimetableEntryRepository
	Module         OutlineModuleRepository
	Chapter        ChapterRepository
	Subtopic       SubtopicRepository
	LogbookEntry   LogbookEntryRepository
	ReviewLog      LogbookReviewLogRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:             db,
		User:           NewUserRepo(db),
		Department:     NewDepartmentRepo(db),
		Course:         NewCourseRepo(db),
		ScheduleEntry:  NewScheduleEntryRepo(db),
		TimetableEntry: NewTimetableEntryRepo(db),
		Module:         NewOutlineModuleRepo(db),
		Chapter:        NewChapterRepo(db),
		Subtopic:       NewSubtopicRepo(db),
		LogbookEntry:   NewLogbookEntryRepo(db),
		ReviewLog:      NewLogbookReviewLogRepo(db),
	}
}

// BeginTx 开启事务
// 单元测试中 Repository 由 mock 组装、db 为 nil，此时返回 nil 事务，调用方按无事务处理
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到事务连接的 Repository 副本；tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
