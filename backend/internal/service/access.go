package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tambongslade/LockBook/backend/internal/model"
	"github.com/tambongslade/LockBook/backend/internal/repository"
)

// Actor 当前请求的认证主体
type Actor struct {
	UserID       string
	Role         model.Role
	DepartmentID string
}

// courseAccess 课程级权限判断
// 教师的授权依据是「在该课程下至少有一条课表分配」
type courseAccess struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// canManage 管理员或已分配的教师可修改课程大纲、审核日志
func (a *courseAccess) canManage(ctx context.Context, actor Actor, courseID string) error {
	switch actor.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleTeacher:
		return a.requireAssigned(ctx, actor.UserID, courseID)
	case model.RoleDelegate:
		return ErrNotAuthorized
	default:
		return ErrNotAuthorized
	}
}

// canView 在 canManage 基础上允许同院系的课代表查看
func (a *courseAccess) canView(ctx context.Context, actor Actor, courseID string) error {
	switch actor.Role {
	case model.RoleAdmin, model.RoleTeacher:
		return a.canManage(ctx, actor, courseID)
	case model.RoleDelegate:
		course, err := a.repo.Course.GetByID(ctx, courseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			a.logger.Error("查询课程失败", zap.String("course_id", courseID), zap.Error(err))
			return err
		}
		if actor.DepartmentID == "" || course.DepartmentID != actor.DepartmentID {
			return ErrNotAuthorized
		}
		return nil
	default:
		return ErrNotAuthorized
	}
}

// requireReviewer 仅已分配到该课程的教师可审核
func (a *courseAccess) requireReviewer(ctx context.Context, actor Actor, courseID string) error {
	switch actor.Role {
	case model.RoleTeacher:
		return a.requireAssigned(ctx, actor.UserID, courseID)
	case model.RoleAdmin, model.RoleDelegate:
		return ErrNotAuthorized
	default:
		return ErrNotAuthorized
	}
}

func (a *courseAccess) requireAssigned(ctx context.Context, teacherID, courseID string) error {
	ok, err := a.repo.ScheduleEntry.IsTeacherAssigned(ctx, teacherID, courseID)
	if err != nil {
		a.logger.Error("查询教师课程分配失败",
			zap.String("teacher_id", teacherID), zap.String("course_id", courseID), zap.Error(err))
		return err
	}
	if !ok {
		return ErrNotAuthorized
	}
	return nil
}

// requireCourse 课程必须存在
func (a *courseAccess) requireCourse(ctx context.Context, courseID string) error {
	ok, err := a.repo.Course.Exists(ctx, courseID)
	if err != nil {
		a.logger.Error("查询课程失败", zap.String("course_id", courseID), zap.Error(err))
		return err
	}
	if !ok {
		return ErrCourseNotFound
	}
	return nil
}
