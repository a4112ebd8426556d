package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tambongslade/LockBook/backend/internal/model"
)

// ScheduleEntryFilter 课表条目查询条件，空字段不过滤
type ScheduleEntryFilter struct {
	CourseID     string
	TeacherID    string
	DepartmentID string
	// Level 课程年级（100..500）
	Level     string
	DayOfWeek string
	TimeSlot  string
}

// ScheduleEntryRepository 课表条目数据访问接口
type ScheduleEntryRepository interface {
	Create(ctx context.Context, entry *model.ScheduleEntry) error
	GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error)
	List(ctx context.Context, filter ScheduleEntryFilter) ([]model.ScheduleEntry, error)
	// IsTeacherAssigned 教师在该课程下至少有一条课表分配
	IsTeacherAssigned(ctx context.Context, teacherID, courseID string) (bool, error)
	ListCourseIDsByTeacher(ctx context.Context, teacherID string) ([]string, error)
}

// TimetableEntryRepository 具体上课安排数据访问接口
type TimetableEntryRepository interface {
	Create(ctx context.Context, entry *model.TimetableEntry) error
	GetByID(ctx context.Context, id string) (*model.TimetableEntry, error)
	ListByCourse(ctx context.Context, courseID string) ([]model.TimetableEntry, error)
	// ListBetween 查询 [from, to) 内开始的上课安排，可按院系与年级过滤
	ListBetween(ctx context.Context, departmentID, level string, from, to time.Time) ([]model.TimetableEntry, error)
}

// ── ScheduleEntry Repository 实现 ──

type scheduleEntryRepo struct {
	db *gorm.DB
}

func NewScheduleEntryRepo(db *gorm.DB) ScheduleEntryRepository {
	return &scheduleEntryRepo{db: db}
}

func (r *scheduleEntryRepo) Create(ctx context.Context, entry *model.ScheduleEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *scheduleEntryRepo) GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error) {
	var entry model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Teacher").
		Where("schedule_entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *scheduleEntryRepo) List(ctx context.Context, filter ScheduleEntryFilter) ([]model.ScheduleEntry, error) {
	db := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Preload("Course").
		Preload("Teacher")

	if filter.CourseID != "" {
		db = db.Where("schedule_entries.course_id = ?", filter.CourseID)
	}
	if filter.TeacherID != "" {
		db = db.Where("schedule_entries.teacher_id = ?", filter.TeacherID)
	}
	if filter.DayOfWeek != "" {
		db = db.Where("schedule_entries.day_of_week = ?", filter.DayOfWeek)
	}
	if filter.TimeSlot != "" {
		db = db.Where("schedule_entries.time_slot = ?", filter.TimeSlot)
	}
	if filter.DepartmentID != "" || filter.Level != "" {
		db = db.Joins("JOIN courses ON courses.course_id = schedule_entries.course_id AND courses.deleted_at IS NULL")
		if filter.DepartmentID != "" {
			db = db.Where("courses.department_id = ?", filter.DepartmentID)
		}
		if filter.Level != "" {
			db = db.Where("courses.level = ?", filter.Level)
		}
	}

	var entries []model.ScheduleEntry
	err := db.Order("schedule_entries.day_of_week ASC, schedule_entries.time_slot ASC").
		Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) IsTeacherAssigned(ctx context.Context, teacherID, courseID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Where("teacher_id = ? AND course_id = ?", teacherID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *scheduleEntryRepo) ListCourseIDsByTeacher(ctx context.Context, teacherID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Where("teacher_id = ?", teacherID).
		Distinct().
		Pluck("course_id", &ids).Error
	return ids, err
}

// ── TimetableEntry Repository 实现 ──

type timetableEntryRepo struct {
	db *gorm.DB
}

func NewTimetableEntryRepo(db *gorm.DB) TimetableEntryRepository {
	return &timetableEntryRepo{db: db}
}

func (r *timetableEntryRepo) Create(ctx context.Context, entry *model.TimetableEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *timetableEntryRepo) GetByID(ctx context.Context, id string) (*model.TimetableEntry, error) {
	var entry model.TimetableEntry
	err := r.db.WithContext(ctx).
		Where("timetable_entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timetableEntryRepo) ListByCourse(ctx context.Context, courseID string) ([]model.TimetableEntry, error) {
	var entries []model.TimetableEntry
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("start_time ASC").
		Find(&entries).Error
	return entries, err
}

func (r *timetableEntryRepo) ListBetween(ctx context.Context, departmentID, level string, from, to time.Time) ([]model.TimetableEntry, error) {
	db := r.db.WithContext(ctx).
		Model(&model.TimetableEntry{}).
		Preload("Course").
		Where("timetable_entries.start_time >= ? AND timetable_entries.start_time < ?", from, to)

	if departmentID != "" || level != "" {
		db = db.Joins("JOIN courses ON courses.course_id = timetable_entries.course_id AND courses.deleted_at IS NULL")
		if departmentID != "" {
			db = db.Where("courses.department_id = ?", departmentID)
		}
		if level != "" {
			db = db.Where("courses.level = ?", level)
		}
	}

	var entries []model.TimetableEntry
	err := db.Order("timetable_entries.start_time ASC").Find(&entries).Error
	return entries, err
}
