package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tambongslade/LockBook/backend/internal/dto"
	"github.com/tambongslade/LockBook/backend/internal/model"
	"github.com/tambongslade/LockBook/backend/internal/repository"
)

var ErrCourseCodeExists = errors.New("课程代码已存在")

// CourseService 课程查询业务接口
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error)
	ListAll(ctx context.Context) ([]dto.CourseResponse, error)
	ListForTeacher(ctx context.Context, teacherID string) ([]dto.CourseResponse, error)
	ListProgressForTeacher(ctx context.Context, teacherID string) ([]dto.CourseProgressResponse, error)
	ListProgressAll(ctx context.Context) ([]dto.CourseProgressResponse, error)
	// GetDetail 课程详情；模块列表使用缓存的 status，进度实时计算
	GetDetail(ctx context.Context, courseID string, actor Actor) (*dto.CourseDetailResponse, error)
	// ListBySlot 课代表所在院系在指定时段上课的课程
	ListBySlot(ctx context.Context, req *dto.CoursesBySlotRequest, actor Actor) ([]dto.CourseResponse, error)
}

type courseService struct {
	repo     *repository.Repository
	progress ProgressCalculator
	access   *courseAccess
	logger   *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, progress ProgressCalculator, logger *zap.Logger) CourseService {
	return &courseService{
		repo:     repo,
		progress: progress,
		access:   &courseAccess{repo: repo, logger: logger},
		logger:   logger,
	}
}

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, req.DepartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询院系失败", zap.Error(err))
		return nil, err
	}

	course := &model.Course{
		Code:         req.Code,
		Title:        req.Title,
		Description:  req.Description,
		DepartmentID: req.DepartmentID,
		Level:        req.Level,
		Status:       model.CourseActive,
	}
	course.CreatedBy = &callerID
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Create(ctx, course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCourseCodeExists
		}
		s.logger.Error("创建课程失败", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}
	course.Department = dept

	resp := toCourseResponse(course)
	return &resp, nil
}

func (s *courseService) ListAll(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, err
	}
	return toCourseResponses(courses), nil
}

func (s *courseService) ListForTeacher(ctx context.Context, teacherID string) ([]dto.CourseResponse, error) {
	courses, err := s.teacherCourses(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return toCourseResponses(courses), nil
}

func (s *courseService) ListProgressForTeacher(ctx context.Context, teacherID string) ([]dto.CourseProgressResponse, error) {
	courses, err := s.teacherCourses(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return s.withProgress(ctx, courses), nil
}

func (s *courseService) ListProgressAll(ctx context.Context) ([]dto.CourseProgressResponse, error) {
	courses, err := s.repo.Course.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, err
	}
	return s.withProgress(ctx, courses), nil
}

func (s *courseService) GetDetail(ctx context.Context, courseID string, actor Actor) (*dto.CourseDetailResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", courseID), zap.Error(err))
		return nil, err
	}
	if err := s.access.canView(ctx, actor, courseID); err != nil {
		return nil, err
	}

	modules, err := s.repo.Module.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询课程模块失败", zap.String("id", courseID), zap.Error(err))
		return nil, err
	}

	summaries := make([]dto.ModuleSummaryResponse, 0, len(modules))
	for _, m := range modules {
		summaries = append(summaries, dto.ModuleSummaryResponse{
			ID:     m.ModuleID,
			Order:  m.Order,
			Title:  m.Title,
			Status: string(m.Status),
		})
	}

	return &dto.CourseDetailResponse{
		CourseResponse: toCourseResponse(course),
		Modules:        summaries,
		Progress:       s.progress.CalculateProgress(ctx, courseID),
	}, nil
}

func (s *courseService) ListBySlot(ctx context.Context, req *dto.CoursesBySlotRequest, actor Actor) ([]dto.CourseResponse, error) {
	if actor.DepartmentID == "" {
		return nil, &MissingFieldError{Fields: []string{"department_id"}}
	}

	entries, err := s.repo.ScheduleEntry.List(ctx, repository.ScheduleEntryFilter{
		DepartmentID: actor.DepartmentID,
		DayOfWeek:    req.Day,
		TimeSlot:     req.Time,
	})
	if err != nil {
		s.logger.Error("按时段查询课表失败", zap.String("day", req.Day), zap.String("time", req.Time), zap.Error(err))
		return nil, err
	}

	seen := make(map[string]struct{}, len(entries))
	list := make([]dto.CourseResponse, 0, len(entries))
	for _, e := range entries {
		if e.Course == nil {
			continue
		}
		if _, ok := seen[e.CourseID]; ok {
			continue
		}
		seen[e.CourseID] = struct{}{}
		list = append(list, toCourseResponse(e.Course))
	}
	return list, nil
}

func (s *courseService) teacherCourses(ctx context.Context, teacherID string) ([]model.Course, error) {
	ids, err := s.repo.ScheduleEntry.ListCourseIDsByTeacher(ctx, teacherID)
	if err != nil {
		s.logger.Error("查询教师课程失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, err
	}
	courses, err := s.repo.Course.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("查询课程失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, err
	}
	return courses, nil
}

func (s *courseService) withProgress(ctx context.Context, courses []model.Course) []dto.CourseProgressResponse {
	list := make([]dto.CourseProgressResponse, 0, len(courses))
	for i := range courses {
		list = append(list, dto.CourseProgressResponse{
			CourseResponse: toCourseResponse(&courses[i]),
			Progress:       s.progress.CalculateProgress(ctx, courses[i].CourseID),
		})
	}
	return list
}

func toCourseResponse(c *model.Course) dto.CourseResponse {
	resp := dto.CourseResponse{
		ID:          c.CourseID,
		Code:        c.Code,
		Title:       c.Title,
		Description: c.Description,
		Level:       c.Level,
		Status:      string(c.Status),
	}
	if c.Department != nil {
		resp.Department = toDepartmentResponse(c.Department)
	}
	return resp
}

func toCourseResponses(courses []model.Course) []dto.CourseResponse {
	list := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		list = append(list, toCourseResponse(&courses[i]))
	}
	return list
}

func toDepartmentResponse(d *model.Department) *dto.DepartmentResponse {
	return &dto.DepartmentResponse{
		ID:   d.DepartmentID,
		Name: d.Name,
		Code: d.Code,
	}
}
