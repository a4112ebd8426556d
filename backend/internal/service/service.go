package service

import (
	"go.uber.org/zap"

	"github.com/tambongslade/LockBook/backend/config"
	"github.com/tambongslade/LockBook/backend/internal/repository"
	"github.com/tambongslade/LockBook/backend/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	User       UserService
	Department DepartmentService
	Course     CourseService
	Schedule   ScheduleService
	Outline    OutlineService
	Logbook    LogbookService
	Review     ReviewService
	Export     ExportService
	Calendar   CalendarService
}

// NewService 创建 Service 聚合，blacklist 可为 nil（未配置 Redis）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	outline := NewOutlineService(repo, logger)

	return &Service{
		Auth:       NewAuthService(repo, jwtMgr, blacklist, logger),
		User:       NewUserService(repo, logger),
		Department: NewDepartmentService(repo, logger),
		Course:     NewCourseService(repo, outline, logger),
		Schedule:   NewScheduleService(&cfg.Logbook, repo, logger),
		Outline:    outline,
		Logbook:    NewLogbookService(&cfg.Logbook, repo, logger),
		Review:     NewReviewService(repo, outline, logger),
		Export:     NewExportService(repo, logger),
		Calendar:   NewCalendarService(&cfg.Logbook, repo, logger),
	}
}
