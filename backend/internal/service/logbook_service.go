package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tambongslade/LockBook/backend/config"
	"github.com/tambongslade/LockBook/backend/internal/dto"
	"github.com/tambongslade/LockBook/backend/internal/model"
	"github.com/tambongslade/LockBook/backend/internal/repository"
)

var (
	ErrLogbookEntryNotFound   = errors.New("日志条目不存在")
	ErrTimetableEntryNotFound = errors.New("上课安排不存在")
	ErrDuplicateEntry         = errors.New("该时段已提交过日志")
	ErrWindowClosed           = errors.New("日志提交窗口已关闭")
)

// LogbookService 课代表日志提交与修改业务接口
type LogbookService interface {
	// Submit 按 (课程, 星期, 时间段) 提交，同一课代表同一时段只能提交一次
	Submit(ctx context.Context, req *dto.SubmitLogbookRequest, actor Actor) (*dto.LogbookEntryResponse, error)
	// SubmitForTimetable 按具体上课安排提交，仅在 [开始, 结束+宽限期] 内允许
	SubmitForTimetable(ctx context.Context, req *dto.SubmitTimetableLogbookRequest, actor Actor) (*dto.LogbookEntryResponse, error)
	ListMine(ctx context.Context, delegateID string) ([]dto.LogbookEntryResponse, error)
	ListNeedingCorrection(ctx context.Context, delegateID string) ([]dto.LogbookEntryResponse, error)
	GetMine(ctx context.Context, id, delegateID string) (*dto.LogbookEntryResponse, error)
	// Edit 课代表修改条目，无论原审核状态如何都回到 Pending，已完成的子主题不回滚
	Edit(ctx context.Context, id string, req *dto.UpdateLogbookRequest, delegateID string) (*dto.LogbookEntryResponse, error)
}

type logbookService struct {
	cfg    *config.LogbookConfig
	repo   *repository.Repository
	access *courseAccess
	logger *zap.Logger
	now    func() time.Time
}

// NewLogbookService 创建 LogbookService 实例
func NewLogbookService(cfg *config.LogbookConfig, repo *repository.Repository, logger *zap.Logger) LogbookService {
	return &logbookService{
		cfg:    cfg,
		repo:   repo,
		access: &courseAccess{repo: repo, logger: logger},
		logger: logger,
		now:    time.Now,
	}
}

// ────────────────────── 提交 ──────────────────────

func (s *logbookService) Submit(ctx context.Context, req *dto.SubmitLogbookRequest, actor Actor) (*dto.LogbookEntryResponse, error) {
	if err := requireFields(
		"course_id", req.CourseID,
		"day_of_week", req.DayOfWeek,
		"time_slot", req.TimeSlot,
		"status", req.Status,
	); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.access.requireCourse(ctx, req.CourseID); err != nil {
		return nil, err
	}
	covered := model.StringArray(req.CoveredSubtopics).Unique()
	if err := s.checkCoveredSubtopics(ctx, req.CourseID, covered); err != nil {
		return nil, err
	}

	exists, err := s.repo.LogbookEntry.ExistsBySlot(ctx, actor.UserID, req.CourseID, req.DayOfWeek, req.TimeSlot)
	if err != nil {
		s.logger.Error("检查重复日志失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateEntry
	}

	entry := &model.LogbookEntry{
		CourseID:         req.CourseID,
		DelegateID:       actor.UserID,
		DayOfWeek:        req.DayOfWeek,
		TimeSlot:         req.TimeSlot,
		Status:           model.EntryStatus(req.Status),
		Remarks:          req.Remarks,
		CoveredSubtopics: covered,
		ReviewStatus:     model.ReviewPending,
	}
	return s.create(ctx, entry, actor)
}

func (s *logbookService) SubmitForTimetable(ctx context.Context, req *dto.SubmitTimetableLogbookRequest, actor Actor) (*dto.LogbookEntryResponse, error) {
	if err := requireFields(
		"timetable_entry_id", req.TimetableEntryID,
		"status", req.Status,
	); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	te, err := s.repo.TimetableEntry.GetByID(ctx, req.TimetableEntryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimetableEntryNotFound
		}
		s.logger.Error("查询上课安排失败", zap.String("id", req.TimetableEntryID), zap.Error(err))
		return nil, err
	}
	if err := s.access.requireCourse(ctx, te.CourseID); err != nil {
		return nil, err
	}
	if err := requireFields("day_of_week", te.DayOfWeek, "time_slot", te.TimeSlot); err != nil {
		return nil, err
	}
	covered := model.StringArray(req.CoveredSubtopics).Unique()
	if err := s.checkCoveredSubtopics(ctx, te.CourseID, covered); err != nil {
		return nil, err
	}

	if err := s.checkWindow(te); err != nil {
		return nil, err
	}

	entry := &model.LogbookEntry{
		CourseID:         te.CourseID,
		DelegateID:       actor.UserID,
		TimetableEntryID: &te.TimetableEntryID,
		DayOfWeek:        te.DayOfWeek,
		TimeSlot:         te.TimeSlot,
		Status:           model.EntryStatus(req.Status),
		Remarks:          req.Remarks,
		CoveredSubtopics: covered,
		ReviewStatus:     model.ReviewPending,
	}
	return s.create(ctx, entry, actor)
}

// checkCoveredSubtopics 覆盖的子主题必须全部属于该课程的大纲
func (s *logbookService) checkCoveredSubtopics(ctx context.Context, courseID string, ids model.StringArray) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.repo.Subtopic.FilterIDsByCourse(ctx, courseID, ids)
	if err != nil {
		s.logger.Error("校验覆盖子主题失败", zap.String("course_id", courseID), zap.Error(err))
		return err
	}
	if len(found) != len(ids) {
		return &ValidationError{Fields: map[string]string{"covered_subtopics": "course_subtopic"}}
	}
	return nil
}

// checkWindow 允许区间为闭区间 [StartTime, EndTime + 宽限期]
func (s *logbookService) checkWindow(te *model.TimetableEntry) error {
	now := s.now()
	start := te.StartTime
	end := te.EndTime.Add(s.cfg.GracePeriod())
	if now.Before(start) || now.After(end) {
		return &WindowClosedError{Now: now, AllowedStart: start, AllowedEnd: end}
	}
	return nil
}

func (s *logbookService) create(ctx context.Context, entry *model.LogbookEntry, actor Actor) (*dto.LogbookEntryResponse, error) {
	entry.CreatedBy = &actor.UserID
	entry.UpdatedBy = &actor.UserID

	if err := s.repo.LogbookEntry.Create(ctx, entry); err != nil {
		// 并发提交由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEntry
		}
		s.logger.Error("创建日志条目失败", zap.String("course_id", entry.CourseID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("日志条目已提交",
		zap.String("id", entry.LogbookEntryID),
		zap.String("course_id", entry.CourseID),
		zap.String("delegate_id", entry.DelegateID),
		zap.Bool("timeboxed", entry.TimetableEntryID != nil),
	)

	resp := toLogbookEntryResponse(entry)
	return &resp, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *logbookService) ListMine(ctx context.Context, delegateID string) ([]dto.LogbookEntryResponse, error) {
	entries, err := s.repo.LogbookEntry.ListByDelegate(ctx, delegateID)
	if err != nil {
		s.logger.Error("查询课代表日志失败", zap.String("delegate_id", delegateID), zap.Error(err))
		return nil, err
	}
	return toLogbookEntryResponses(entries), nil
}

func (s *logbookService) ListNeedingCorrection(ctx context.Context, delegateID string) ([]dto.LogbookEntryResponse, error) {
	entries, err := s.repo.LogbookEntry.ListByDelegateAndReviewStatus(ctx, delegateID, model.ReviewNeedsCorrection)
	if err != nil {
		s.logger.Error("查询待修改日志失败", zap.String("delegate_id", delegateID), zap.Error(err))
		return nil, err
	}
	return toLogbookEntryResponses(entries), nil
}

func (s *logbookService) GetMine(ctx context.Context, id, delegateID string) (*dto.LogbookEntryResponse, error) {
	entry, err := s.getOwned(ctx, id, delegateID)
	if err != nil {
		return nil, err
	}
	resp := toLogbookEntryResponse(entry)
	return &resp, nil
}

// ────────────────────── 修改 ──────────────────────

func (s *logbookService) Edit(ctx context.Context, id string, req *dto.UpdateLogbookRequest, delegateID string) (*dto.LogbookEntryResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	entry, err := s.getOwned(ctx, id, delegateID)
	if err != nil {
		return nil, err
	}

	prev := entry.ReviewStatus
	if !model.CanTransition(model.ActionDelegateEdit, prev, model.ReviewPending) {
		return nil, ErrInvalidTransition
	}

	if req.Status != nil {
		entry.Status = model.EntryStatus(*req.Status)
	}
	if req.Remarks != nil {
		entry.Remarks = *req.Remarks
	}
	if req.CoveredSubtopics != nil {
		covered := model.StringArray(*req.CoveredSubtopics).Unique()
		if err := s.checkCoveredSubtopics(ctx, entry.CourseID, covered); err != nil {
			return nil, err
		}
		entry.CoveredSubtopics = covered
	}

	entry.ReviewStatus = model.ReviewPending
	entry.ReviewRemarks = ""
	entry.ReviewedBy = nil
	entry.ReviewTimestamp = nil
	entry.Reviewer = nil
	entry.UpdatedBy = &delegateID

	if err := s.repo.LogbookEntry.Update(ctx, entry); err != nil {
		s.logger.Error("更新日志条目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 正常流程只修改待修正的条目
	if prev != model.ReviewNeedsCorrection {
		s.logger.Warn("课代表修改了非待修正状态的日志，重新进入待审核；已完成的子主题保持不变",
			zap.String("id", id),
			zap.String("delegate_id", delegateID),
			zap.String("from", string(prev)),
		)
	}

	s.appendReviewLog(ctx, &model.LogbookReviewLog{
		LogbookEntryID: entry.LogbookEntryID,
		ActorID:        delegateID,
		Action:         model.ActionDelegateEdit,
		FromStatus:     prev,
		ToStatus:       model.ReviewPending,
	})

	resp := toLogbookEntryResponse(entry)
	return &resp, nil
}

// appendReviewLog 审计日志写入失败只记录，不影响主流程
func (s *logbookService) appendReviewLog(ctx context.Context, log *model.LogbookReviewLog) {
	if err := s.repo.ReviewLog.Create(ctx, log); err != nil {
		s.logger.Warn("写入审核日志失败", zap.String("entry_id", log.LogbookEntryID), zap.Error(err))
	}
}

func (s *logbookService) getOwned(ctx context.Context, id, delegateID string) (*model.LogbookEntry, error) {
	entry, err := s.repo.LogbookEntry.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLogbookEntryNotFound
		}
		s.logger.Error("查询日志条目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if entry.DelegateID != delegateID {
		return nil, ErrNotAuthorized
	}
	return entry, nil
}

// ────────────────────── 响应转换 ──────────────────────

func toLogbookEntryResponse(e *model.LogbookEntry) dto.LogbookEntryResponse {
	resp := dto.LogbookEntryResponse{
		ID:               e.LogbookEntryID,
		TimetableEntryID: e.TimetableEntryID,
		DayOfWeek:        e.DayOfWeek,
		TimeSlot:         e.TimeSlot,
		Status:           string(e.Status),
		Remarks:          e.Remarks,
		CoveredSubtopics: []string(e.CoveredSubtopics),
		ReviewStatus:     string(e.ReviewStatus),
		ReviewRemarks:    e.ReviewRemarks,
		Version:          e.Version,
		CreatedAt:        e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        e.UpdatedAt.Format(time.RFC3339),
	}
	if resp.CoveredSubtopics == nil {
		resp.CoveredSubtopics = []string{}
	}
	if e.Course != nil {
		resp.Course = &dto.CourseBrief{ID: e.Course.CourseID, Code: e.Course.Code, Title: e.Course.Title}
	} else {
		resp.Course = &dto.CourseBrief{ID: e.CourseID}
	}
	if e.Delegate != nil {
		resp.Delegate = &dto.UserBrief{ID: e.Delegate.UserID, Name: e.Delegate.Name}
	} else {
		resp.Delegate = &dto.UserBrief{ID: e.DelegateID}
	}
	if e.ReviewedBy != nil {
		resp.ReviewedBy = &dto.UserBrief{ID: *e.ReviewedBy}
		if e.Reviewer != nil {
			resp.ReviewedBy.Name = e.Reviewer.Name
		}
	}
	if e.ReviewTimestamp != nil {
		ts := e.ReviewTimestamp.Format(time.RFC3339)
		resp.ReviewTimestamp = &ts
	}
	return resp
}

func toLogbookEntryResponses(entries []model.LogbookEntry) []dto.LogbookEntryResponse {
	list := make([]dto.LogbookEntryResponse, 0, len(entries))
	for i := range entries {
		list = append(list, toLogbookEntryResponse(&entries[i]))
	}
	return list
}
