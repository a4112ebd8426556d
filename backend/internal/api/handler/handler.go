package handler

import "github.com/tambongslade/LockBook/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Department *DepartmentHandler
	Course     *CourseHandler
	Schedule   *ScheduleHandler
	Outline    *OutlineHandler
	Logbook    *LogbookHandler
	Review     *ReviewHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Department: NewDepartmentHandler(svc.Department),
		Course:     NewCourseHandler(svc.Course),
		Schedule:   NewScheduleHandler(svc.Schedule),
		Outline:    NewOutlineHandler(svc.Outline),
		Logbook:    NewLogbookHandler(svc.Logbook),
		Review:     NewReviewHandler(svc.Review),
		Export:     NewExportHandler(svc.Export, svc.Calendar),
	}
}
