package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tambongslade/LockBook/backend/internal/dto"
	"github.com/tambongslade/LockBook/backend/internal/model"
	"github.com/tambongslade/LockBook/backend/internal/repository"
)

var (
	ErrInvalidTransition = errors.New("审核状态无效")
)

// ReviewService 教师审核业务接口
type ReviewService interface {
	ListPending(ctx context.Context, teacherID string) ([]dto.LogbookEntryResponse, error)
	ListHistory(ctx context.Context, teacherID string) ([]dto.LogbookEntryResponse, error)
	ListAllHistory(ctx context.Context, req *dto.LogbookHistoryRequest) ([]dto.LogbookEntryResponse, int64, error)
	GetForReview(ctx context.Context, id string, actor Actor) (*dto.LogbookEntryDetailResponse, error)
	// Review 给出审核结论；首次进入 Approved 时将覆盖的子主题标记为完成
	Review(ctx context.Context, id string, req *dto.ReviewLogbookRequest, actor Actor) (*dto.LogbookEntryResponse, error)
}

type reviewService struct {
	repo    *repository.Repository
	outline OutlineService
	access  *courseAccess
	logger  *zap.Logger
	now     func() time.Time
}

// NewReviewService 创建 ReviewService 实例
func NewReviewService(repo *repository.Repository, outline OutlineService, logger *zap.Logger) ReviewService {
	return &reviewService{
		repo:    repo,
		outline: outline,
		access:  &courseAccess{repo: repo, logger: logger},
		logger:  logger,
		now:     time.Now,
	}
}

// ────────────────────── 查询 ──────────────────────

func (s *reviewService) ListPending(ctx context.Context, teacherID string) ([]dto.LogbookEntryResponse, error) {
	return s.listForTeacher(ctx, teacherID, model.ReviewPending)
}

func (s *reviewService) ListHistory(ctx context.Context, teacherID string) ([]dto.LogbookEntryResponse, error) {
	return s.listForTeacher(ctx, teacherID, "")
}

func (s *reviewService) listForTeacher(ctx context.Context, teacherID string, status model.ReviewStatus) ([]dto.LogbookEntryResponse, error) {
	courseIDs, err := s.repo.ScheduleEntry.ListCourseIDsByTeacher(ctx, teacherID)
	if err != nil {
		s.logger.Error("查询教师课程失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, err
	}
	entries, err := s.repo.LogbookEntry.ListByCourses(ctx, courseIDs, status)
	if err != nil {
		s.logger.Error("查询课程日志失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, err
	}
	return toLogbookEntryResponses(entries), nil
}

func (s *reviewService) ListAllHistory(ctx context.Context, req *dto.LogbookHistoryRequest) ([]dto.LogbookEntryResponse, int64, error) {
	entries, total, err := s.repo.LogbookEntry.ListAll(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询全部日志失败", zap.Error(err))
		return nil, 0, err
	}
	return toLogbookEntryResponses(entries), total, nil
}

func (s *reviewService) GetForReview(ctx context.Context, id string, actor Actor) (*dto.LogbookEntryDetailResponse, error) {
	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.canManage(ctx, actor, entry.CourseID); err != nil {
		return nil, err
	}

	logs, err := s.repo.ReviewLog.ListByEntry(ctx, id)
	if err != nil {
		s.logger.Error("查询审核记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := &dto.LogbookEntryDetailResponse{
		LogbookEntryResponse: toLogbookEntryResponse(entry),
		ReviewLogs:           make([]dto.ReviewLogResponse, 0, len(logs)),
	}
	for i := range logs {
		resp.ReviewLogs = append(resp.ReviewLogs, toReviewLogResponse(&logs[i]))
	}
	return resp, nil
}

// ────────────────────── 审核 ──────────────────────

func (s *reviewService) Review(ctx context.Context, id string, req *dto.ReviewLogbookRequest, actor Actor) (*dto.LogbookEntryResponse, error) {
	target, err := model.ParseReviewStatus(req.ReviewStatus)
	if err != nil || target == model.ReviewPending {
		return nil, ErrInvalidTransition
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.requireReviewer(ctx, actor, entry.CourseID); err != nil {
		return nil, err
	}

	prev := entry.ReviewStatus
	if !model.CanTransition(model.ActionReview, prev, target) {
		return nil, ErrInvalidTransition
	}

	reReview := prev != model.ReviewPending
	if reReview {
		s.logger.Warn("日志条目被重新审核",
			zap.String("id", id),
			zap.String("from", string(prev)),
			zap.String("to", string(target)),
			zap.String("reviewer", actor.UserID),
		)
	}
	// 仅在进入 Approved 的边沿触发子主题完成，重复通过不再写入
	enteringApproved := target == model.ReviewApproved && prev != model.ReviewApproved

	now := s.now()
	entry.ReviewStatus = target
	entry.ReviewRemarks = req.ReviewRemarks
	entry.ReviewedBy = &actor.UserID
	entry.ReviewTimestamp = &now
	entry.Reviewer = nil
	entry.UpdatedBy = &actor.UserID

	if err := s.saveReview(ctx, entry, &model.LogbookReviewLog{
		LogbookEntryID: entry.LogbookEntryID,
		ActorID:        actor.UserID,
		Action:         model.ActionReview,
		FromStatus:     prev,
		ToStatus:       target,
		Remarks:        req.ReviewRemarks,
		Detail: datatypes.JSONMap{
			"re_review":         reReview,
			"entering_approved": enteringApproved,
			"covered_subtopics": len(entry.CoveredSubtopics),
		},
	}); err != nil {
		return nil, err
	}

	if enteringApproved && len(entry.CoveredSubtopics) > 0 {
		n, err := s.outline.SetSubtopicsCompleted(ctx, entry.CourseID, entry.CoveredSubtopics)
		if err != nil {
			s.logger.Error("审核已通过，但标记子主题完成失败",
				zap.String("id", id), zap.Strings("subtopics", entry.CoveredSubtopics), zap.Error(err))
			return nil, err
		}
		s.logger.Info("审核通过，子主题已标记完成",
			zap.String("id", id), zap.Int64("newly_completed", n))
	}

	resp := toLogbookEntryResponse(entry)
	return &resp, nil
}

// saveReview 在同一事务中更新条目并追加审核日志
func (s *reviewService) saveReview(ctx context.Context, entry *model.LogbookEntry, log *model.LogbookReviewLog) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.LogbookEntry.Update(ctx, entry); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("更新审核结果失败", zap.String("id", entry.LogbookEntryID), zap.Error(err))
		return err
	}
	if err := txRepo.ReviewLog.Create(ctx, log); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("写入审核日志失败", zap.String("id", entry.LogbookEntryID), zap.Error(err))
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}
	return nil
}

func (s *reviewService) getEntry(ctx context.Context, id string) (*model.LogbookEntry, error) {
	entry, err := s.repo.LogbookEntry.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLogbookEntryNotFound
		}
		s.logger.Error("查询日志条目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return entry, nil
}

func toReviewLogResponse(l *model.LogbookReviewLog) dto.ReviewLogResponse {
	return dto.ReviewLogResponse{
		ID:         l.ReviewLogID,
		ActorID:    l.ActorID,
		Action:     string(l.Action),
		FromStatus: string(l.FromStatus),
		ToStatus:   string(l.ToStatus),
		Remarks:    l.Remarks,
		Detail:     map[string]interface{}(l.Detail),
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
	}
}
