package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tambongslade/LockBook/backend/config"
	"github.com/tambongslade/LockBook/backend/internal/dto"
	"github.com/tambongslade/LockBook/backend/internal/model"
	"github.com/tambongslade/LockBook/backend/internal/repository"
)

// ── 课表模块业务错误 ──

var (
	ErrTeacherNotFound   = errors.New("教师不存在")
	ErrInvalidTimeRange  = errors.New("结束时间必须晚于开始时间")
	ErrInvalidTimeFormat = errors.New("时间格式错误，应为 RFC3339")
)

// ScheduleService 课表业务接口
type ScheduleService interface {
	CreateEntry(ctx context.Context, req *dto.CreateScheduleEntryRequest, callerID string) (*dto.ScheduleEntryResponse, error)
	ListEntries(ctx context.Context, req *dto.ScheduleEntryListRequest) ([]dto.ScheduleEntryResponse, error)
	CreateTimetableEntry(ctx context.Context, req *dto.CreateTimetableEntryRequest, callerID string) (*dto.TimetableEntryResponse, error)
	// TodaySchedule 课代表所在院系与年级当天的课表，按配置时区计算「今天」
	TodaySchedule(ctx context.Context, delegateID string) (*dto.TodayScheduleResponse, error)
}

type scheduleService struct {
	cfg    *config.LogbookConfig
	repo   *repository.Repository
	access *courseAccess
	logger *zap.Logger
	now    func() time.Time
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(cfg *config.LogbookConfig, repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{
		cfg:    cfg,
		repo:   repo,
		access: &courseAccess{repo: repo, logger: logger},
		logger: logger,
		now:    time.Now,
	}
}

func (s *scheduleService) CreateEntry(ctx context.Context, req *dto.CreateScheduleEntryRequest, callerID string) (*dto.ScheduleEntryResponse, error) {
	if err := s.access.requireCourse(ctx, req.CourseID); err != nil {
		return nil, err
	}

	var teacher *model.User
	if req.TeacherID != nil {
		t, err := s.requireTeacher(ctx, *req.TeacherID)
		if err != nil {
			return nil, err
		}
		teacher = t
	}

	entry := &model.ScheduleEntry{
		CourseID:  req.CourseID,
		DayOfWeek: req.DayOfWeek,
		TimeSlot:  req.TimeSlot,
		Hall:      strings.TrimSpace(req.Hall),
		TeacherID: req.TeacherID,
	}
	entry.CreatedBy = &callerID
	entry.UpdatedBy = &callerID

	if err := s.repo.ScheduleEntry.Create(ctx, entry); err != nil {
		s.logger.Error("创建课表条目失败", zap.String("course_id", req.CourseID), zap.Error(err))
		return nil, err
	}
	entry.Teacher = teacher

	resp := toScheduleEntryResponse(entry)
	return &resp, nil
}

func (s *scheduleService) ListEntries(ctx context.Context, req *dto.ScheduleEntryListRequest) ([]dto.ScheduleEntryResponse, error) {
	entries, err := s.repo.ScheduleEntry.List(ctx, repository.ScheduleEntryFilter{
		CourseID:  req.CourseID,
		TeacherID: req.TeacherID,
		DayOfWeek: req.Day,
		TimeSlot:  req.TimeSlot,
	})
	if err != nil {
		s.logger.Error("查询课表条目失败", zap.Error(err))
		return nil, err
	}
	return toScheduleEntryResponses(entries), nil
}

func (s *scheduleService) CreateTimetableEntry(ctx context.Context, req *dto.CreateTimetableEntryRequest, callerID string) (*dto.TimetableEntryResponse, error) {
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	if !end.After(start) {
		return nil, ErrInvalidTimeRange
	}

	if err := s.access.requireCourse(ctx, req.CourseID); err != nil {
		return nil, err
	}
	if _, err := s.requireTeacher(ctx, req.TeacherID); err != nil {
		return nil, err
	}

	entry := &model.TimetableEntry{
		CourseID:  req.CourseID,
		TeacherID: req.TeacherID,
		DayOfWeek: req.DayOfWeek,
		TimeSlot:  req.TimeSlot,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
		Hall:      strings.TrimSpace(req.Hall),
	}
	entry.CreatedBy = &callerID
	entry.UpdatedBy = &callerID

	if err := s.repo.TimetableEntry.Create(ctx, entry); err != nil {
		s.logger.Error("创建上课安排失败", zap.String("course_id", req.CourseID), zap.Error(err))
		return nil, err
	}

	resp := toTimetableEntryResponse(entry)
	return &resp, nil
}

func (s *scheduleService) TodaySchedule(ctx context.Context, delegateID string) (*dto.TodayScheduleResponse, error) {
	user, err := s.repo.User.GetByID(ctx, delegateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", delegateID), zap.Error(err))
		return nil, err
	}
	if user.DepartmentID == nil || user.Level == "" {
		return nil, &MissingFieldError{Fields: []string{"department_id", "level"}}
	}

	loc := s.cfg.Location()
	now := s.now().In(loc)
	day := dayCode(now.Weekday())
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	entries, err := s.repo.ScheduleEntry.List(ctx, repository.ScheduleEntryFilter{
		DepartmentID: *user.DepartmentID,
		Level:        user.Level,
		DayOfWeek:    day,
	})
	if err != nil {
		s.logger.Error("查询当天课表失败", zap.String("delegate_id", delegateID), zap.Error(err))
		return nil, err
	}

	sessions, err := s.repo.TimetableEntry.ListBetween(ctx, *user.DepartmentID, user.Level,
		startOfDay, startOfDay.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("查询当天上课安排失败", zap.String("delegate_id", delegateID), zap.Error(err))
		return nil, err
	}

	resp := &dto.TodayScheduleResponse{
		Day:      day,
		Date:     startOfDay.Format("2006-01-02"),
		Entries:  toScheduleEntryResponses(entries),
		Sessions: make([]dto.TimetableEntryResponse, 0, len(sessions)),
	}
	for i := range sessions {
		resp.Sessions = append(resp.Sessions, toTimetableEntryResponse(&sessions[i]))
	}
	return resp, nil
}

func (s *scheduleService) requireTeacher(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if user.Role != model.RoleTeacher {
		return nil, ErrTeacherNotFound
	}
	return user, nil
}

// dayCode time.Weekday → MON..SUN
func dayCode(d time.Weekday) string {
	switch d {
	case time.Monday:
		return "MON"
	case time.Tuesday:
		return "TUE"
	case time.Wednesday:
		return "WED"
	case time.Thursday:
		return "THU"
	case time.Friday:
		return "FRI"
	case time.Saturday:
		return "SAT"
	default:
		return "SUN"
	}
}

func toScheduleEntryResponse(e *model.ScheduleEntry) dto.ScheduleEntryResponse {
	resp := dto.ScheduleEntryResponse{
		ID:        e.ScheduleEntryID,
		DayOfWeek: e.DayOfWeek,
		TimeSlot:  e.TimeSlot,
		Hall:      e.Hall,
		Teacher:   toUserBrief(e.Teacher),
	}
	if e.Course != nil {
		resp.Course = &dto.CourseBrief{ID: e.Course.CourseID, Code: e.Course.Code, Title: e.Course.Title}
	} else {
		resp.Course = &dto.CourseBrief{ID: e.CourseID}
	}
	return resp
}

func toScheduleEntryResponses(entries []model.ScheduleEntry) []dto.ScheduleEntryResponse {
	list := make([]dto.ScheduleEntryResponse, 0, len(entries))
	for i := range entries {
		list = append(list, toScheduleEntryResponse(&entries[i]))
	}
	return list
}

func toTimetableEntryResponse(e *model.TimetableEntry) dto.TimetableEntryResponse {
	return dto.TimetableEntryResponse{
		ID:        e.TimetableEntryID,
		CourseID:  e.CourseID,
		TeacherID: e.TeacherID,
		DayOfWeek: e.DayOfWeek,
		TimeSlot:  e.TimeSlot,
		StartTime: e.StartTime.Format(time.RFC3339),
		EndTime:   e.EndTime.Format(time.RFC3339),
		Hall:      e.Hall,
	}
}
