package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tambongslade/LockBook/backend/internal/model"
	"github.com/tambongslade/LockBook/backend/internal/repository"
	pkgerrors "github.com/tambongslade/LockBook/backend/pkg/errors"
)

// ── 测试环境：所有 mock 共享同一份内存数据 ──

type mockEnv struct {
	users      *mockUserRepo
	depts      *mockDeptRepo
	courses    *mockCourseRepo
	schedule   *mockScheduleEntryRepo
	timetable  *mockTimetableEntryRepo
	outline    *mockOutlineStore
	logbook    *mockLogbookEntryRepo
	reviewLogs *mockReviewLogRepo
}

func newMockEnv() *mockEnv {
	courses := newMockCourseRepo()
	return &mockEnv{
		users:      newMockUserRepo(),
		depts:      newMockDeptRepo(),
		courses:    courses,
		schedule:   newMockScheduleEntryRepo(courses),
		timetable:  newMockTimetableEntryRepo(courses),
		outline:    newMockOutlineStore(),
		logbook:    newMockLogbookEntryRepo(),
		reviewLogs: newMockReviewLogRepo(),
	}
}

func (e *mockEnv) repo() *repository.Repository {
	return &repository.Repository{
		User:           e.users,
		Department:     e.depts,
		Course:         e.courses,
		ScheduleEntry:  e.schedule,
		TimetableEntry: e.timetable,
		Module:         &mockModuleRepo{store: e.outline},
		Chapter:        &mockChapterRepo{store: e.outline},
		Subtopic:       &mockSubtopicRepo{store: e.outline},
		LogbookEntry:   e.logbook,
		ReviewLog:      e.reviewLogs,
	}
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	user.CreatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, role model.Role, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if role == "" || u.Role == role {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	total := int64(len(result))
	if offset >= len(result) {
		return []model.User{}, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

// ── Mock DepartmentRepository ──

type mockDeptRepo struct {
	depts map[string]*model.Department
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{depts: make(map[string]*model.Department)}
}

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Department) error {
	for _, d := range m.depts {
		if d.Code == dept.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if dept.DepartmentID == "" {
		dept.DepartmentID = "dept-" + strings.ToLower(dept.Code)
	}
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.depts[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.depts {
		if d.IsActive {
			result = append(result, *d)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	for _, c := range m.courses {
		if c.Code == course.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if course.CourseID == "" {
		course.CourseID = "course-" + strings.ToLower(course.Code)
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := m.courses[id]
	return ok, nil
}

func (m *mockCourseRepo) ListAll(_ context.Context) ([]model.Course, error) {
	result := make([]model.Course, 0, len(m.courses))
	for _, c := range m.courses {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockCourseRepo) ListByIDs(_ context.Context, ids []string) ([]model.Course, error) {
	result := make([]model.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := m.courses[id]; ok {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// ── Mock ScheduleEntryRepository ──

type mockScheduleEntryRepo struct {
	entries []*model.ScheduleEntry
	courses *mockCourseRepo
}

func newMockScheduleEntryRepo(courses *mockCourseRepo) *mockScheduleEntryRepo {
	return &mockScheduleEntryRepo{courses: courses}
}

func (m *mockScheduleEntryRepo) Create(_ context.Context, entry *model.ScheduleEntry) error {
	if entry.ScheduleEntryID == "" {
		entry.ScheduleEntryID = fmt.Sprintf("se-%d", len(m.entries)+1)
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockScheduleEntryRepo) GetByID(_ context.Context, id string) (*model.ScheduleEntry, error) {
	for _, e := range m.entries {
		if e.ScheduleEntryID == id {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleEntryRepo) List(_ context.Context, f repository.ScheduleEntryFilter) ([]model.ScheduleEntry, error) {
	var result []model.ScheduleEntry
	for _, e := range m.entries {
		if f.CourseID != "" && e.CourseID != f.CourseID {
			continue
		}
		if f.TeacherID != "" && (e.TeacherID == nil || *e.TeacherID != f.TeacherID) {
			continue
		}
		if f.DayOfWeek != "" && e.DayOfWeek != f.DayOfWeek {
			continue
		}
		if f.TimeSlot != "" && e.TimeSlot != f.TimeSlot {
			continue
		}
		course := m.courses.courses[e.CourseID]
		if f.DepartmentID != "" && (course == nil || course.DepartmentID != f.DepartmentID) {
			continue
		}
		if f.Level != "" && (course == nil || course.Level != f.Level) {
			continue
		}
		cp := *e
		cp.Course = course
		result = append(result, cp)
	}
	return result, nil
}

func (m *mockScheduleEntryRepo) IsTeacherAssigned(_ context.Context, teacherID, courseID string) (bool, error) {
	for _, e := range m.entries {
		if e.CourseID == courseID && e.TeacherID != nil && *e.TeacherID == teacherID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockScheduleEntryRepo) ListCourseIDsByTeacher(_ context.Context, teacherID string) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, e := range m.entries {
		if e.TeacherID != nil && *e.TeacherID == teacherID && !seen[e.CourseID] {
			seen[e.CourseID] = true
			ids = append(ids, e.CourseID)
		}
	}
	return ids, nil
}

// ── Mock TimetableEntryRepository ──

type mockTimetableEntryRepo struct {
	entries map[string]*model.TimetableEntry
	courses *mockCourseRepo
}

func newMockTimetableEntryRepo(courses *mockCourseRepo) *mockTimetableEntryRepo {
	return &mockTimetableEntryRepo{entries: make(map[string]*model.TimetableEntry), courses: courses}
}

func (m *mockTimetableEntryRepo) Create(_ context.Context, entry *model.TimetableEntry) error {
	if entry.TimetableEntryID == "" {
		entry.TimetableEntryID = uuid.NewString()
	}
	m.entries[entry.TimetableEntryID] = entry
	return nil
}

func (m *mockTimetableEntryRepo) GetByID(_ context.Context, id string) (*model.TimetableEntry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableEntryRepo) ListByCourse(_ context.Context, courseID string) ([]model.TimetableEntry, error) {
	var result []model.TimetableEntry
	for _, e := range m.entries {
		if e.CourseID == courseID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

func (m *mockTimetableEntryRepo) ListBetween(_ context.Context, departmentID, level string, from, to time.Time) ([]model.TimetableEntry, error) {
	var result []model.TimetableEntry
	for _, e := range m.entries {
		if e.StartTime.Before(from) || !e.StartTime.Before(to) {
			continue
		}
		course := m.courses.courses[e.CourseID]
		if departmentID != "" && (course == nil || course.DepartmentID != departmentID) {
			continue
		}
		if level != "" && (course == nil || course.Level != level) {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

// ── Mock 大纲存储（模块 / 章节 / 子主题） ──

type mockOutlineStore struct {
	modules   map[string]*model.OutlineModule
	chapters  map[string]*model.Chapter
	subtopics map[string]*model.Subtopic
	seq       int

	setCompletedCalls int
	listTreeErr       error
	setCompletedErr   error
	deleteChaptersErr error
}

func newMockOutlineStore() *mockOutlineStore {
	return &mockOutlineStore{
		modules:   make(map[string]*model.OutlineModule),
		chapters:  make(map[string]*model.Chapter),
		subtopics: make(map[string]*model.Subtopic),
	}
}

func (s *mockOutlineStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// chaptersOf 返回模块下的章节（含子主题），均按 order 排序
func (s *mockOutlineStore) chaptersOf(moduleID string) []model.Chapter {
	var chapters []model.Chapter
	for _, c := range s.chapters {
		if c.ModuleID != moduleID {
			continue
		}
		cp := *c
		cp.Subtopics = nil
		for _, st := range s.subtopics {
			if st.ChapterID == c.ChapterID {
				cp.Subtopics = append(cp.Subtopics, *st)
			}
		}
		sort.Slice(cp.Subtopics, func(i, j int) bool { return cp.Subtopics[i].Order < cp.Subtopics[j].Order })
		chapters = append(chapters, cp)
	}
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].Order < chapters[j].Order })
	return chapters
}

type mockModuleRepo struct{ store *mockOutlineStore }

func (m *mockModuleRepo) Create(_ context.Context, module *model.OutlineModule) error {
	if module.ModuleID == "" {
		module.ModuleID = m.store.nextID("mod")
	}
	cp := *module
	m.store.modules[module.ModuleID] = &cp
	return nil
}

func (m *mockModuleRepo) GetByID(_ context.Context, id string) (*model.OutlineModule, error) {
	if mod, ok := m.store.modules[id]; ok {
		cp := *mod
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockModuleRepo) ListByCourse(_ context.Context, courseID string) ([]model.OutlineModule, error) {
	var result []model.OutlineModule
	for _, mod := range m.store.modules {
		if mod.CourseID == courseID {
			result = append(result, *mod)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Order < result[j].Order })
	return result, nil
}

func (m *mockModuleRepo) ListTreeByCourse(ctx context.Context, courseID string) ([]model.OutlineModule, error) {
	if m.store.listTreeErr != nil {
		return nil, m.store.listTreeErr
	}
	modules, _ := m.ListByCourse(ctx, courseID)
	for i := range modules {
		modules[i].Chapters = m.store.chaptersOf(modules[i].ModuleID)
	}
	return modules, nil
}

func (m *mockModuleRepo) Update(_ context.Context, module *model.OutlineModule) error {
	stored, ok := m.store.modules[module.ModuleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Title = module.Title
	stored.Description = module.Description
	stored.Order = module.Order
	return nil
}

func (m *mockModuleRepo) UpdateStatus(_ context.Context, id string, status model.ModuleStatus) error {
	stored, ok := m.store.modules[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = status
	return nil
}

func (m *mockModuleRepo) Delete(_ context.Context, id string) error {
	delete(m.store.modules, id)
	return nil
}

type mockChapterRepo struct{ store *mockOutlineStore }

func (m *mockChapterRepo) Create(_ context.Context, chapter *model.Chapter) error {
	if chapter.ChapterID == "" {
		chapter.ChapterID = m.store.nextID("ch")
	}
	cp := *chapter
	cp.Subtopics = nil
	m.store.chapters[chapter.ChapterID] = &cp
	return nil
}

func (m *mockChapterRepo) GetByID(_ context.Context, id string) (*model.Chapter, error) {
	if c, ok := m.store.chapters[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockChapterRepo) ListByModule(_ context.Context, moduleID string) ([]model.Chapter, error) {
	return m.store.chaptersOf(moduleID), nil
}

func (m *mockChapterRepo) ListIDsByModule(_ context.Context, moduleID string) ([]string, error) {
	var ids []string
	for _, c := range m.store.chapters {
		if c.ModuleID == moduleID {
			ids = append(ids, c.ChapterID)
		}
	}
	return ids, nil
}

func (m *mockChapterRepo) Update(_ context.Context, chapter *model.Chapter) error {
	stored, ok := m.store.chapters[chapter.ChapterID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Title = chapter.Title
	stored.Description = chapter.Description
	stored.Order = chapter.Order
	return nil
}

func (m *mockChapterRepo) Delete(_ context.Context, id string) error {
	delete(m.store.chapters, id)
	return nil
}

func (m *mockChapterRepo) DeleteByModule(_ context.Context, moduleID string) error {
	if m.store.deleteChaptersErr != nil {
		return m.store.deleteChaptersErr
	}
	for id, c := range m.store.chapters {
		if c.ModuleID == moduleID {
			delete(m.store.chapters, id)
		}
	}
	return nil
}

type mockSubtopicRepo struct{ store *mockOutlineStore }

func (m *mockSubtopicRepo) Create(_ context.Context, subtopic *model.Subtopic) error {
	if subtopic.SubtopicID == "" {
		subtopic.SubtopicID = m.store.nextID("st")
	}
	cp := *subtopic
	m.store.subtopics[subtopic.SubtopicID] = &cp
	return nil
}

func (m *mockSubtopicRepo) GetByID(_ context.Context, id string) (*model.Subtopic, error) {
	if st, ok := m.store.subtopics[id]; ok {
		cp := *st
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubtopicRepo) Update(_ context.Context, subtopic *model.Subtopic) error {
	stored, ok := m.store.subtopics[subtopic.SubtopicID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Title = subtopic.Title
	stored.Description = subtopic.Description
	stored.Order = subtopic.Order
	return nil
}

func (m *mockSubtopicRepo) Delete(_ context.Context, id string) error {
	delete(m.store.subtopics, id)
	return nil
}

func (m *mockSubtopicRepo) DeleteByChapters(_ context.Context, chapterIDs []string) error {
	set := make(map[string]bool, len(chapterIDs))
	for _, id := range chapterIDs {
		set[id] = true
	}
	for id, st := range m.store.subtopics {
		if set[st.ChapterID] {
			delete(m.store.subtopics, id)
		}
	}
	return nil
}

func (m *mockSubtopicRepo) Toggle(_ context.Context, id string) (*model.Subtopic, error) {
	st, ok := m.store.subtopics[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	st.Completed = !st.Completed
	cp := *st
	return &cp, nil
}

// courseOf 子主题 → 章节 → 模块 → 课程；任一层缺失时返回空串
func (s *mockOutlineStore) courseOf(subtopicID string) string {
	st, ok := s.subtopics[subtopicID]
	if !ok {
		return ""
	}
	ch, ok := s.chapters[st.ChapterID]
	if !ok {
		return ""
	}
	mod, ok := s.modules[ch.ModuleID]
	if !ok {
		return ""
	}
	return mod.CourseID
}

func (m *mockSubtopicRepo) FilterIDsByCourse(_ context.Context, courseID string, ids []string) ([]string, error) {
	found := make([]string, 0, len(ids))
	for _, id := range ids {
		if m.store.courseOf(id) == courseID {
			found = append(found, id)
		}
	}
	return found, nil
}

func (m *mockSubtopicRepo) SetCompleted(_ context.Context, courseID string, ids []string) (int64, error) {
	m.store.setCompletedCalls++
	if m.store.setCompletedErr != nil {
		return 0, m.store.setCompletedErr
	}
	var n int64
	for _, id := range ids {
		if m.store.courseOf(id) != courseID {
			continue
		}
		if st, ok := m.store.subtopics[id]; ok && !st.Completed {
			st.Completed = true
			n++
		}
	}
	return n, nil
}

// ── Mock LogbookEntryRepository ──

type mockLogbookEntryRepo struct {
	entries map[string]*model.LogbookEntry
	seq     int
}

func newMockLogbookEntryRepo() *mockLogbookEntryRepo {
	return &mockLogbookEntryRepo{entries: make(map[string]*model.LogbookEntry)}
}

func (m *mockLogbookEntryRepo) Create(_ context.Context, entry *model.LogbookEntry) error {
	// 模拟部分唯一索引 uk_logbook_entries_slot
	if entry.TimetableEntryID == nil {
		for _, e := range m.entries {
			if e.TimetableEntryID == nil && e.DelegateID == entry.DelegateID && e.CourseID == entry.CourseID &&
				e.DayOfWeek == entry.DayOfWeek && e.TimeSlot == entry.TimeSlot {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	m.seq++
	if entry.LogbookEntryID == "" {
		entry.LogbookEntryID = fmt.Sprintf("lb-%d", m.seq)
	}
	entry.Version = 1
	entry.CreatedAt = time.Date(2026, 1, 1, 0, 0, m.seq, 0, time.UTC)
	entry.UpdatedAt = entry.CreatedAt
	cp := *entry
	m.entries[entry.LogbookEntryID] = &cp
	return nil
}

// GetByID 返回副本，模拟数据库读取的快照语义
func (m *mockLogbookEntryRepo) GetByID(_ context.Context, id string) (*model.LogbookEntry, error) {
	if e, ok := m.entries[id]; ok {
		cp := *e
		cp.CoveredSubtopics = append(model.StringArray(nil), e.CoveredSubtopics...)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLogbookEntryRepo) ExistsBySlot(_ context.Context, delegateID, courseID, day, timeSlot string) (bool, error) {
	for _, e := range m.entries {
		if e.DelegateID == delegateID && e.CourseID == courseID &&
			e.DayOfWeek == day && e.TimeSlot == timeSlot {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockLogbookEntryRepo) Update(_ context.Context, entry *model.LogbookEntry) error {
	stored, ok := m.entries[entry.LogbookEntryID]
	if !ok || stored.Version != entry.Version {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Version++
	cp := *entry
	m.entries[entry.LogbookEntryID] = &cp
	return nil
}

func (m *mockLogbookEntryRepo) ListByDelegate(_ context.Context, delegateID string) ([]model.LogbookEntry, error) {
	return m.filter(func(e *model.LogbookEntry) bool { return e.DelegateID == delegateID }), nil
}

func (m *mockLogbookEntryRepo) ListByDelegateAndReviewStatus(_ context.Context, delegateID string, status model.ReviewStatus) ([]model.LogbookEntry, error) {
	return m.filter(func(e *model.LogbookEntry) bool {
		return e.DelegateID == delegateID && e.ReviewStatus == status
	}), nil
}

func (m *mockLogbookEntryRepo) ListByCourses(_ context.Context, courseIDs []string, status model.ReviewStatus) ([]model.LogbookEntry, error) {
	set := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		set[id] = true
	}
	return m.filter(func(e *model.LogbookEntry) bool {
		return set[e.CourseID] && (status == "" || e.ReviewStatus == status)
	}), nil
}

func (m *mockLogbookEntryRepo) ListAll(_ context.Context, offset, limit int) ([]model.LogbookEntry, int64, error) {
	all := m.filter(func(*model.LogbookEntry) bool { return true })
	total := int64(len(all))
	if offset >= len(all) {
		return []model.LogbookEntry{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// filter 按创建时间倒序
func (m *mockLogbookEntryRepo) filter(keep func(*model.LogbookEntry) bool) []model.LogbookEntry {
	result := []model.LogbookEntry{}
	for _, e := range m.entries {
		if keep(e) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result
}

// ── Mock LogbookReviewLogRepository ──

type mockReviewLogRepo struct {
	logs      []model.LogbookReviewLog
	createErr error
}

func newMockReviewLogRepo() *mockReviewLogRepo {
	return &mockReviewLogRepo{}
}

func (m *mockReviewLogRepo) Create(_ context.Context, log *model.LogbookReviewLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	log.ReviewLogID = fmt.Sprintf("rl-%d", len(m.logs)+1)
	log.CreatedAt = time.Now()
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockReviewLogRepo) ListByEntry(_ context.Context, entryID string) ([]model.LogbookReviewLog, error) {
	var result []model.LogbookReviewLog
	for _, l := range m.logs {
		if l.LogbookEntryID == entryID {
			result = append(result, l)
		}
	}
	return result, nil
}

// ── 数据构造辅助 ──

const (
	testDeptID    = "dept-cs"
	testOtherDept = "dept-ee"
	testCourseID  = "0b6f3c1e-2d4a-4c8e-9f1a-5e7d2b3c4a10"
	// testForeignCourseID 另一院系的课程，测试中按需创建
	testForeignCourseID = "8c4d2e6f-3a5b-4c7d-9e1f-0a2b4c6d8e3f"
	testTeacherID       = "teacher-1"
	testTeacher2ID      = "teacher-2"
	testDelegateID      = "delegate-1"
	testAdminID         = "admin-1"
)

var (
	adminActor    = Actor{UserID: testAdminID, Role: model.RoleAdmin}
	teacherActor  = Actor{UserID: testTeacherID, Role: model.RoleTeacher}
	teacher2Actor = Actor{UserID: testTeacher2ID, Role: model.RoleTeacher}
	delegateActor = Actor{UserID: testDelegateID, Role: model.RoleDelegate, DepartmentID: testDeptID}
)

// seedBasics 院系、课程、用户以及 teacher-1 在 CS101 上的课表分配
func (e *mockEnv) seedBasics() {
	ctx := context.Background()
	dept := &model.Department{DepartmentID: testDeptID, Name: "Computer Science", Code: "CS", IsActive: true}
	_ = e.depts.Create(ctx, dept)
	_ = e.depts.Create(ctx, &model.Department{DepartmentID: testOtherDept, Name: "Electrical", Code: "EE", IsActive: true})

	_ = e.courses.Create(ctx, &model.Course{
		CourseID: testCourseID, Code: "CS101", Title: "Intro to Programming",
		DepartmentID: testDeptID, Level: "200", Status: model.CourseActive, Department: dept,
	})

	deptID := testDeptID
	_ = e.users.Create(ctx, &model.User{UserID: testAdminID, Name: "Admin", Email: "admin@example.com", Role: model.RoleAdmin, IsActive: true})
	_ = e.users.Create(ctx, &model.User{UserID: testTeacherID, Name: "Dr. Ngo", Email: "ngo@example.com", Role: model.RoleTeacher, IsActive: true})
	_ = e.users.Create(ctx, &model.User{UserID: testTeacher2ID, Name: "Dr. Ewane", Email: "ewane@example.com", Role: model.RoleTeacher, IsActive: true})
	_ = e.users.Create(ctx, &model.User{
		UserID: testDelegateID, Name: "Delegate", Email: "delegate@example.com", Role: model.RoleDelegate,
		DepartmentID: &deptID, Level: "200", IsActive: true,
	})

	teacherID := testTeacherID
	_ = e.schedule.Create(ctx, &model.ScheduleEntry{
		CourseID: testCourseID, DayOfWeek: "MON", TimeSlot: "07:00-09:00", Hall: "A1", TeacherID: &teacherID,
	})
}

// seedOutline 创建 1 个模块、1 个章节以及指定数量的子主题
func (e *mockEnv) seedOutline(courseID string, subtopics int) (moduleID, chapterID string, ids []string) {
	ctx := context.Background()
	mod := &model.OutlineModule{CourseID: courseID, Order: 1, Title: "Module 1", Status: model.ModulePending}
	_ = (&mockModuleRepo{store: e.outline}).Create(ctx, mod)
	ch := &model.Chapter{ModuleID: mod.ModuleID, Order: 1, Title: "Chapter 1"}
	_ = (&mockChapterRepo{store: e.outline}).Create(ctx, ch)
	for i := 0; i < subtopics; i++ {
		// 日志条目的 covered_subtopics 需为 UUID
		st := &model.Subtopic{SubtopicID: uuid.NewString(), ChapterID: ch.ChapterID, Order: i + 1, Title: fmt.Sprintf("Subtopic %d", i+1)}
		_ = (&mockSubtopicRepo{store: e.outline}).Create(ctx, st)
		ids = append(ids, st.SubtopicID)
	}
	return mod.ModuleID, ch.ChapterID, ids
}
