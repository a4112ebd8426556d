package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tambongslade/LockBook/backend/config"
	"github.com/tambongslade/LockBook/backend/internal/dto"
	"github.com/tambongslade/LockBook/backend/internal/model"
)

func setupTestScheduleService(now time.Time) (*scheduleService, *mockEnv) {
	env := newMockEnv()
	env.seedBasics()
	cfg := &config.LogbookConfig{Timezone: "Africa/Douala"}
	svc := NewScheduleService(cfg, env.repo(), zap.NewNop()).(*scheduleService)
	svc.now = func() time.Time { return now }
	return svc, env
}

func TestScheduleService_CreateEntry(t *testing.T) {
	svc, env := setupTestScheduleService(time.Now())
	teacherID := testTeacher2ID

	resp, err := svc.CreateEntry(context.Background(), &dto.CreateScheduleEntryRequest{
		CourseID: testCourseID, DayOfWeek: "WED", TimeSlot: "09:00-11:00", Hall: " Amphi 300 ", TeacherID: &teacherID,
	}, testAdminID)
	if err != nil {
		t.Fatalf("创建课表条目应成功: %v", err)
	}
	if resp.Hall != "Amphi 300" {
		t.Errorf("教室名应去除首尾空格，实际 %q", resp.Hall)
	}
	if resp.Teacher == nil || resp.Teacher.ID != testTeacher2ID {
		t.Error("响应应包含教师信息")
	}

	ok, _ := env.schedule.IsTeacherAssigned(context.Background(), testTeacher2ID, testCourseID)
	if !ok {
		t.Error("创建后教师应被视为已分配到该课程")
	}
}

func TestScheduleService_CreateEntry_Errors(t *testing.T) {
	svc, _ := setupTestScheduleService(time.Now())
	ctx := context.Background()
	delegate := testDelegateID

	_, err := svc.CreateEntry(ctx, &dto.CreateScheduleEntryRequest{CourseID: "missing", DayOfWeek: "MON", TimeSlot: "07:00-09:00"}, testAdminID)
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际: %v", err)
	}

	_, err = svc.CreateEntry(ctx, &dto.CreateScheduleEntryRequest{
		CourseID: testCourseID, DayOfWeek: "MON", TimeSlot: "07:00-09:00", TeacherID: &delegate,
	}, testAdminID)
	if !errors.Is(err, ErrTeacherNotFound) {
		t.Errorf("非教师用户不能被分配，实际: %v", err)
	}
}

func TestScheduleService_CreateTimetableEntry(t *testing.T) {
	svc, env := setupTestScheduleService(time.Now())
	ctx := context.Background()

	req := &dto.CreateTimetableEntryRequest{
		CourseID: testCourseID, TeacherID: testTeacherID, DayOfWeek: "MON", TimeSlot: "07:00-09:00",
		StartTime: "2026-03-02T07:00:00+01:00", EndTime: "2026-03-02T09:00:00+01:00",
	}
	resp, err := svc.CreateTimetableEntry(ctx, req, testAdminID)
	if err != nil {
		t.Fatalf("创建上课安排应成功: %v", err)
	}
	if resp.StartTime != "2026-03-02T06:00:00Z" {
		t.Errorf("时间应以 UTC 存储，实际 %s", resp.StartTime)
	}
	if len(env.timetable.entries) != 1 {
		t.Errorf("期望 1 条上课安排，实际 %d", len(env.timetable.entries))
	}

	bad := *req
	bad.EndTime = bad.StartTime
	if _, err := svc.CreateTimetableEntry(ctx, &bad, testAdminID); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("期望 ErrInvalidTimeRange，实际: %v", err)
	}

	bad = *req
	bad.StartTime = "Monday 7am"
	if _, err := svc.CreateTimetableEntry(ctx, &bad, testAdminID); !errors.Is(err, ErrInvalidTimeFormat) {
		t.Errorf("期望 ErrInvalidTimeFormat，实际: %v", err)
	}
}

func TestScheduleService_TodaySchedule(t *testing.T) {
	// 2026-03-01 是周日；杜阿拉时间 (UTC+1) 已进入周一
	now := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
	svc, env := setupTestScheduleService(now)
	ctx := context.Background()

	_ = env.courses.Create(ctx, &model.Course{CourseID: "course-cs301", Code: "CS301", DepartmentID: testDeptID, Level: "300"})
	_ = env.schedule.Create(ctx, &model.ScheduleEntry{CourseID: "course-cs301", DayOfWeek: "MON", TimeSlot: "09:00-11:00"})
	_ = env.timetable.Create(ctx, &model.TimetableEntry{
		CourseID: testCourseID, TeacherID: testTeacherID, DayOfWeek: "MON", TimeSlot: "07:00-09:00",
		StartTime: time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC), EndTime: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
	})

	resp, err := svc.TodaySchedule(ctx, testDelegateID)
	if err != nil {
		t.Fatalf("TodaySchedule 应成功: %v", err)
	}
	if resp.Day != "MON" || resp.Date != "2026-03-02" {
		t.Errorf("应按配置时区计算当天，实际 day=%s date=%s", resp.Day, resp.Date)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].Course.ID != testCourseID {
		t.Errorf("只应返回本年级的课表，实际 %+v", resp.Entries)
	}
	if len(resp.Sessions) != 1 {
		t.Errorf("期望 1 条当天上课安排，实际 %d", len(resp.Sessions))
	}
}

func TestScheduleService_TodaySchedule_MissingProfile(t *testing.T) {
	svc, _ := setupTestScheduleService(time.Now())

	_, err := svc.TodaySchedule(context.Background(), testTeacherID)
	if !errors.Is(err, ErrMissingField) {
		t.Errorf("缺少院系或年级时应返回 ErrMissingField，实际: %v", err)
	}
}

func TestDayCode(t *testing.T) {
	if got := dayCode(time.Sunday); got != "SUN" {
		t.Errorf("期望 SUN，实际 %s", got)
	}
	if got := dayCode(time.Wednesday); got != "WED" {
		t.Errorf("期望 WED，实际 %s", got)
	}
}
