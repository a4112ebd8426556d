package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/tambongslade/LockBook/backend/internal/model"
	"github.com/tambongslade/LockBook/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoCourses    = errors.New("暂无可导出的课程")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
// Excel 包含两个 Sheet：「课程进度」每门课一行；「模块明细」每个模块一行，状态由子主题实时推导。
type ExportService interface {
	// ExportProgress 导出课程进度报表；管理员导出全部课程，教师仅导出已分配课程
	ExportProgress(ctx context.Context, actor Actor) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

// courseReport 单门课程的导出数据
type courseReport struct {
	course  model.Course
	modules []model.OutlineModule
}

func (s *exportService) ExportProgress(ctx context.Context, actor Actor) (*bytes.Buffer, string, error) {
	// 1. 按角色确定课程范围
	courses, err := s.coursesFor(ctx, actor)
	if err != nil {
		return nil, "", err
	}
	if len(courses) == 0 {
		return nil, "", ErrExportNoCourses
	}

	// 2. 加载每门课的大纲树
	reports := make([]courseReport, 0, len(courses))
	for _, c := range courses {
		modules, err := s.repo.Module.ListTreeByCourse(ctx, c.CourseID)
		if err != nil {
			s.logger.Error("查询课程大纲失败", zap.String("course_id", c.CourseID), zap.Error(err))
			return nil, "", err
		}
		reports = append(reports, courseReport{course: c, modules: modules})
	}

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	generatedAt := s.now().UTC()
	if err := writeProgressSheet(f, "课程进度", reports, headerStyle, generatedAt); err != nil {
		s.logger.Error("写入课程进度 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	if err := writeModuleSheet(f, "模块明细", reports, headerStyle); err != nil {
		s.logger.Error("写入模块明细 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex("课程进度"); err == nil {
		f.SetActiveSheet(idx)
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("课程进度_%s.xlsx", generatedAt.Format("20060102"))
	return buf, filename, nil
}

func (s *exportService) coursesFor(ctx context.Context, actor Actor) ([]model.Course, error) {
	switch actor.Role {
	case model.RoleAdmin:
		courses, err := s.repo.Course.ListAll(ctx)
		if err != nil {
			s.logger.Error("查询课程列表失败", zap.Error(err))
			return nil, err
		}
		return courses, nil
	case model.RoleTeacher:
		ids, err := s.repo.ScheduleEntry.ListCourseIDsByTeacher(ctx, actor.UserID)
		if err != nil {
			s.logger.Error("查询教师课程失败", zap.String("teacher_id", actor.UserID), zap.Error(err))
			return nil, err
		}
		courses, err := s.repo.Course.ListByIDs(ctx, ids)
		if err != nil {
			s.logger.Error("查询课程失败", zap.Error(err))
			return nil, err
		}
		return courses, nil
	case model.RoleDelegate:
		return nil, ErrNotAuthorized
	default:
		return nil, ErrNotAuthorized
	}
}

// 表头: | 课程代码 | 课程名称 | 院系 | 年级 | 模块数 | 已完成子主题 | 子主题总数 | 完成率(%) |
func writeProgressSheet(f *excelize.File, sheet string, reports []courseReport, headerStyle int, generatedAt time.Time) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"课程代码", "课程名称", "院系", "年级", "模块数", "已完成子主题", "子主题总数", "完成率(%)"}
	widths := []float64{12, 36, 20, 8, 8, 14, 12, 12}
	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheet, col, col, w)
	}

	// 标题行
	f.SetCellValue(sheet, "A1", fmt.Sprintf("课程进度报表（生成于 %s UTC）", generatedAt.Format("2006-01-02 15:04")))
	f.MergeCell(sheet, "A1", cell(colName(len(headers)-1), 1))
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	// 表头
	for i, h := range headers {
		f.SetCellValue(sheet, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheet, "A2", cell(colName(len(headers)-1), 2), headerStyle)

	// 数据行
	row := 3
	for _, r := range reports {
		progress := countProgress(r.modules)
		deptName := ""
		if r.course.Department != nil {
			deptName = r.course.Department.Name
		}
		values := []interface{}{
			r.course.Code, r.course.Title, deptName, r.course.Level,
			len(r.modules), progress.Completed, progress.Total, progress.Percentage,
		}
		for i, v := range values {
			if err := f.SetCellValue(sheet, cell(colName(i), row), v); err != nil {
				return err
			}
		}
		row++
	}
	return nil
}

// 表头: | 课程代码 | 序号 | 模块 | 状态 | 章节数 | 已完成子主题 | 子主题总数 |
func writeModuleSheet(f *excelize.File, sheet string, reports []courseReport, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"课程代码", "序号", "模块", "状态", "章节数", "已完成子主题", "子主题总数"}
	widths := []float64{12, 6, 36, 12, 8, 14, 12}
	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheet, col, col, w)
	}
	for i, h := range headers {
		f.SetCellValue(sheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	row := 2
	for _, r := range reports {
		for _, m := range r.modules {
			progress := countProgress([]model.OutlineModule{m})
			values := []interface{}{
				r.course.Code, m.Order, m.Title, string(model.AggregateModuleStatus(m.Chapters)),
				len(m.Chapters), progress.Completed, progress.Total,
			}
			for i, v := range values {
				if err := f.SetCellValue(sheet, cell(colName(i), row), v); err != nil {
					return err
				}
			}
			row++
		}
	}
	return nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
