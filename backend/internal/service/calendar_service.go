package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tambongslade/LockBook/backend/config"
	"github.com/tambongslade/LockBook/backend/internal/model"
	"github.com/tambongslade/LockBook/backend/internal/repository"
)

var ErrInvalidTimeSlot = errors.New("时间段格式错误")

// CalendarService 每周课表 .ics 导出
type CalendarService interface {
	// ExportWeekly 教师导出自己的授课课表；课代表导出本院系本年级的课表
	ExportWeekly(ctx context.Context, actor Actor) (string, string, error)
}

type calendarService struct {
	cfg    *config.LogbookConfig
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(cfg *config.LogbookConfig, repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{cfg: cfg, repo: repo, logger: logger, now: time.Now}
}

var icsByDay = map[string]string{
	"MON": "MO", "TUE": "TU", "WED": "WE", "THU": "TH", "FRI": "FR", "SAT": "SA", "SUN": "SU",
}

var weekdayByCode = map[string]time.Weekday{
	"MON": time.Monday, "TUE": time.Tuesday, "WED": time.Wednesday, "THU": time.Thursday,
	"FRI": time.Friday, "SAT": time.Saturday, "SUN": time.Sunday,
}

func (s *calendarService) ExportWeekly(ctx context.Context, actor Actor) (string, string, error) {
	filter, err := s.filterFor(ctx, actor)
	if err != nil {
		return "", "", err
	}

	entries, err := s.repo.ScheduleEntry.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询课表失败", zap.String("user_id", actor.UserID), zap.Error(err))
		return "", "", err
	}

	loc := s.cfg.Location()
	now := s.now().In(loc)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//LogBook//Weekly Timetable//EN")
	cal.SetXWRCalName("LogBook 课表")
	cal.SetXWRTimezone(loc.String())

	for i := range entries {
		e := &entries[i]
		start, end, err := nextOccurrence(now, e.DayOfWeek, e.TimeSlot, loc)
		if err != nil {
			// 历史脏数据跳过，不影响其余条目导出
			s.logger.Warn("课表条目时间无效，已跳过",
				zap.String("id", e.ScheduleEntryID), zap.String("day", e.DayOfWeek),
				zap.String("time_slot", e.TimeSlot), zap.Error(err))
			continue
		}

		event := cal.AddEvent(e.ScheduleEntryID + "@logbook")
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(eventSummary(e))
		if e.Hall != "" {
			event.SetLocation(e.Hall)
		}
		if e.Teacher != nil {
			event.SetDescription("教师: " + e.Teacher.Name)
		}
		event.AddRrule("FREQ=WEEKLY;BYDAY=" + icsByDay[e.DayOfWeek])
	}

	filename := fmt.Sprintf("timetable_%s.ics", now.Format("20060102"))
	return cal.Serialize(), filename, nil
}

func (s *calendarService) filterFor(ctx context.Context, actor Actor) (repository.ScheduleEntryFilter, error) {
	switch actor.Role {
	case model.RoleTeacher:
		return repository.ScheduleEntryFilter{TeacherID: actor.UserID}, nil
	case model.RoleDelegate:
		user, err := s.repo.User.GetByID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ScheduleEntryFilter{}, ErrUserNotFound
			}
			s.logger.Error("查询用户失败", zap.String("id", actor.UserID), zap.Error(err))
			return repository.ScheduleEntryFilter{}, err
		}
		if user.DepartmentID == nil || user.Level == "" {
			return repository.ScheduleEntryFilter{}, &MissingFieldError{Fields: []string{"department_id", "level"}}
		}
		return repository.ScheduleEntryFilter{DepartmentID: *user.DepartmentID, Level: user.Level}, nil
	case model.RoleAdmin:
		return repository.ScheduleEntryFilter{}, ErrNotAuthorized
	default:
		return repository.ScheduleEntryFilter{}, ErrNotAuthorized
	}
}

func eventSummary(e *model.ScheduleEntry) string {
	if e.Course == nil {
		return e.CourseID
	}
	return e.Course.Code + " " + e.Course.Title
}

// nextOccurrence 从 now 所在日起（含当天）找到第一个匹配星期的日期，返回该节课的起止时间
func nextOccurrence(now time.Time, day, slot string, loc *time.Location) (time.Time, time.Time, error) {
	wd, ok := weekdayByCode[day]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("未知星期: %q", day)
	}
	startClock, endClock, err := splitTimeSlot(slot)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	offset := (int(wd) - int(now.Weekday()) + 7) % 7
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, offset)

	start := date.Add(startClock)
	end := date.Add(endClock)
	return start, end, nil
}

// splitTimeSlot "07:00-09:00" → 7h, 9h
func splitTimeSlot(slot string) (time.Duration, time.Duration, error) {
	parts := strings.Split(slot, "-")
	if len(parts) != 2 {
		return 0, 0, ErrInvalidTimeSlot
	}
	start, err := time.Parse("15:04", parts[0])
	if err != nil {
		return 0, 0, ErrInvalidTimeSlot
	}
	end, err := time.Parse("15:04", parts[1])
	if err != nil {
		return 0, 0, ErrInvalidTimeSlot
	}
	if !end.After(start) {
		return 0, 0, ErrInvalidTimeSlot
	}
	clock := func(t time.Time) time.Duration {
		return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	}
	return clock(start), clock(end), nil
}
