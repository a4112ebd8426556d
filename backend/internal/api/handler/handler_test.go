package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tambongslade/LockBook/backend/config"
	"github.com/tambongslade/LockBook/backend/internal/api/middleware"
	"github.com/tambongslade/LockBook/backend/internal/dto"
	"github.com/tambongslade/LockBook/backend/internal/model"
	"github.com/tambongslade/LockBook/backend/internal/repository"
	"github.com/tambongslade/LockBook/backend/internal/service"
	pkgerrors "github.com/tambongslade/LockBook/backend/pkg/errors"
	"github.com/tambongslade/LockBook/backend/pkg/jwt"
	"github.com/tambongslade/LockBook/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testEntryID    = "7d4c1f0e-8a4b-4c39-9d1e-2f6a3b5c7e90"
	testSubtopicID = "0b8f5a2c-3d4e-4f60-8a7b-9c1d2e3f4a5b"
)

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult  *dto.TokenResponse
	loginErr     error
	logoutClaims *jwt.Claims
	logoutErr    error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, claims *jwt.Claims) error {
	m.logoutClaims = claims
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, id string) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: id}, nil
}

// ── Mock LogbookService ──

type mockLogbookService struct {
	result    *dto.LogbookEntryResponse
	err       error
	lastActor service.Actor
}

func (m *mockLogbookService) Submit(_ context.Context, _ *dto.SubmitLogbookRequest, actor service.Actor) (*dto.LogbookEntryResponse, error) {
	m.lastActor = actor
	return m.result, m.err
}
func (m *mockLogbookService) SubmitForTimetable(_ context.Context, _ *dto.SubmitTimetableLogbookRequest, actor service.Actor) (*dto.LogbookEntryResponse, error) {
	m.lastActor = actor
	return m.result, m.err
}
func (m *mockLogbookService) ListMine(_ context.Context, _ string) ([]dto.LogbookEntryResponse, error) {
	return nil, m.err
}
func (m *mockLogbookService) ListNeedingCorrection(_ context.Context, _ string) ([]dto.LogbookEntryResponse, error) {
	return nil, m.err
}
func (m *mockLogbookService) GetMine(_ context.Context, _, _ string) (*dto.LogbookEntryResponse, error) {
	return m.result, m.err
}
func (m *mockLogbookService) Edit(_ context.Context, _ string, _ *dto.UpdateLogbookRequest, _ string) (*dto.LogbookEntryResponse, error) {
	return m.result, m.err
}

// ── Mock ReviewService ──

type mockReviewService struct {
	result *dto.LogbookEntryResponse
	err    error
	calls  int
}

func (m *mockReviewService) ListPending(_ context.Context, _ string) ([]dto.LogbookEntryResponse, error) {
	return nil, m.err
}
func (m *mockReviewService) ListHistory(_ context.Context, _ string) ([]dto.LogbookEntryResponse, error) {
	return nil, m.err
}
func (m *mockReviewService) ListAllHistory(_ context.Context, _ *dto.LogbookHistoryRequest) ([]dto.LogbookEntryResponse, int64, error) {
	return []dto.LogbookEntryResponse{}, 0, m.err
}
func (m *mockReviewService) GetForReview(_ context.Context, _ string, _ service.Actor) (*dto.LogbookEntryDetailResponse, error) {
	return nil, m.err
}
func (m *mockReviewService) Review(_ context.Context, _ string, _ *dto.ReviewLogbookRequest, _ service.Actor) (*dto.LogbookEntryResponse, error) {
	m.calls++
	return m.result, m.err
}

// ── Mock ExportService / CalendarService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportProgress(_ context.Context, _ service.Actor) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

type mockCalendarService struct {
	body string
	err  error
}

func (m *mockCalendarService) ExportWeekly(_ context.Context, _ service.Actor) (string, string, error) {
	return m.body, "timetable_20260302.ics", m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

// withAuth 模拟 JWTAuth 注入的上下文
func withAuth(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxUserID, "test-user-id")
		c.Set(CtxRole, role)
		c.Set(CtxDepartmentID, "test-dept-id")
		c.Set(CtxClaims, &jwt.Claims{UserID: "test-user-id", Role: string(role), TokenType: jwt.TokenTypeAccess})
		c.Next()
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type dataResponse struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func parseResponse(w *httptest.ResponseRecorder) dataResponse {
	var resp dataResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login(t *testing.T) {
	mock := &mockAuthService{loginResult: &dto.TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 3600}}
	h := NewAuthHandler(mock)
	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := serve(r, http.MethodPost, "/auth/login", jsonBody(dto.LoginRequest{Email: "ngo@example.com", Password: "password123"}))
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}

	mock.loginErr = service.ErrInvalidCredentials
	w = serve(r, http.MethodPost, "/auth/login", jsonBody(dto.LoginRequest{Email: "ngo@example.com", Password: "wrong"}))
	if w.Code != http.StatusUnauthorized || parseResponse(w).Code != 11001 {
		t.Errorf("期望 401/11001，实际 %d/%d", w.Code, parseResponse(w).Code)
	}

	w = serve(r, http.MethodPost, "/auth/login", jsonBody(map[string]string{"email": "not-an-email"}))
	if w.Code != http.StatusBadRequest || parseResponse(w).Code != 10001 {
		t.Errorf("参数错误期望 400/10001，实际 %d/%d", w.Code, parseResponse(w).Code)
	}
}

func TestAuthHandler_Logout_PassesClaims(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)
	r := gin.New()
	r.POST("/auth/logout", withAuth(model.RoleTeacher), h.Logout)

	w := serve(r, http.MethodPost, "/auth/logout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if mock.logoutClaims == nil || mock.logoutClaims.UserID != "test-user-id" {
		t.Error("Logout 应收到当前 Token 的声明")
	}
}

// ═══════════════════════════════════════════════════════════
// LogbookHandler Tests
// ═══════════════════════════════════════════════════════════

func TestLogbookHandler_Submit_ErrorMapping(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 1, 0, 0, time.UTC)
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
		wantData   string
	}{
		{"重复提交", service.ErrDuplicateEntry, http.StatusConflict, 15002, ""},
		{"缺少字段", &service.MissingFieldError{Fields: []string{"course_id", "status"}}, http.StatusBadRequest, 10006, "fields"},
		{"校验失败", &service.ValidationError{Fields: map[string]string{"day_of_week": "logday"}}, http.StatusBadRequest, 10007, "fields"},
		{"窗口关闭", &service.WindowClosedError{Now: now, AllowedStart: now.Add(-3 * time.Hour), AllowedEnd: now.Add(-time.Minute)}, http.StatusBadRequest, 15003, "allowed_end"},
		{"课程不存在", service.ErrCourseNotFound, http.StatusNotFound, 13001, ""},
		{"未知错误", errors.New("db down"), http.StatusInternalServerError, 50000, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewLogbookHandler(&mockLogbookService{err: tt.err})
			r := gin.New()
			r.POST("/delegate/logbook", withAuth(model.RoleDelegate), h.Submit)

			w := serve(r, http.MethodPost, "/delegate/logbook", jsonBody(dto.SubmitLogbookRequest{CourseID: "x"}))
			resp := parseResponse(w)
			if w.Code != tt.wantStatus || resp.Code != tt.wantCode {
				t.Errorf("期望 %d/%d，实际 %d/%d", tt.wantStatus, tt.wantCode, w.Code, resp.Code)
			}
			if tt.wantData != "" {
				if _, ok := resp.Data[tt.wantData]; !ok {
					t.Errorf("响应 data 应包含 %s，实际 %v", tt.wantData, resp.Data)
				}
			}
		})
	}
}

func TestLogbookHandler_Submit_Success(t *testing.T) {
	mock := &mockLogbookService{result: &dto.LogbookEntryResponse{ID: testEntryID, ReviewStatus: "Pending"}}
	h := NewLogbookHandler(mock)
	r := gin.New()
	r.POST("/delegate/logbook", withAuth(model.RoleDelegate), h.Submit)

	w := serve(r, http.MethodPost, "/delegate/logbook", jsonBody(dto.SubmitLogbookRequest{
		CourseID: "c", DayOfWeek: "MON", TimeSlot: "07:00-09:00", Status: "Lecture Held",
		CoveredSubtopics: []string{testSubtopicID},
	}))
	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际 %d", w.Code)
	}
	want := service.Actor{UserID: "test-user-id", Role: model.RoleDelegate, DepartmentID: "test-dept-id"}
	if mock.lastActor != want {
		t.Errorf("认证主体传递错误: %+v", mock.lastActor)
	}
}

func TestLogbookHandler_Edit_Conflict(t *testing.T) {
	h := NewLogbookHandler(&mockLogbookService{err: pkgerrors.ErrOptimisticLock})
	r := gin.New()
	r.PUT("/delegate/logbook/:id", withAuth(model.RoleDelegate), h.Edit)

	w := serve(r, http.MethodPut, "/delegate/logbook/"+testEntryID, jsonBody(map[string]string{"remarks": "x"}))
	if w.Code != http.StatusConflict || parseResponse(w).Code != 15004 {
		t.Errorf("期望 409/15004，实际 %d/%d", w.Code, parseResponse(w).Code)
	}
}

func TestLogbookHandler_Submit_MalformedCourseID(t *testing.T) {
	// 使用真实服务与空仓储：若校验放行，访问 nil 仓储会直接 panic
	svc := service.NewLogbookService(&config.LogbookConfig{}, &repository.Repository{}, zap.NewNop())
	h := NewLogbookHandler(svc)
	r := gin.New()
	r.POST("/delegate/logbook", withAuth(model.RoleDelegate), h.Submit)

	w := serve(r, http.MethodPost, "/delegate/logbook", jsonBody(dto.SubmitLogbookRequest{
		CourseID: "abc", DayOfWeek: "MON", TimeSlot: "07:00-09:00", Status: "Lecture Held",
	}))
	resp := parseResponse(w)
	if w.Code != http.StatusBadRequest || resp.Code != 10007 {
		t.Fatalf("期望 400/10007，实际 %d/%d", w.Code, resp.Code)
	}
	fields, _ := resp.Data["fields"].(map[string]interface{})
	if fields["course_id"] != "uuid" {
		t.Errorf("期望 course_id 校验规则为 uuid，实际 %v", resp.Data)
	}
}

func TestLogbookHandler_BodyTooLarge(t *testing.T) {
	h := NewLogbookHandler(&mockLogbookService{})
	r := gin.New()
	r.Use(middleware.BodyLimit(64))
	r.POST("/delegate/logbook", withAuth(model.RoleDelegate), h.Submit)

	body := `{"remarks":"` + strings.Repeat("x", 256) + `"}`
	w := serve(r, http.MethodPost, "/delegate/logbook", strings.NewReader(body))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("期望 413，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ReviewHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReviewHandler_Review(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		err        error
		wantStatus int
		wantCode   int
		wantCalls  int
	}{
		{"成功", testEntryID, nil, http.StatusOK, 0, 1},
		{"非法 ID", "not-a-uuid", nil, http.StatusBadRequest, 10001, 0},
		{"未分配教师", testEntryID, service.ErrNotAuthorized, http.StatusForbidden, 10003, 1},
		{"非法状态", testEntryID, service.ErrInvalidTransition, http.StatusBadRequest, 15101, 1},
		{"条目不存在", testEntryID, service.ErrLogbookEntryNotFound, http.StatusNotFound, 15001, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockReviewService{result: &dto.LogbookEntryResponse{ID: testEntryID, ReviewStatus: "Approved"}, err: tt.err}
			h := NewReviewHandler(mock)
			r := gin.New()
			r.PUT("/teacher/logbook/:id/review", withAuth(model.RoleTeacher), h.Review)

			w := serve(r, http.MethodPut, "/teacher/logbook/"+tt.id+"/review",
				jsonBody(dto.ReviewLogbookRequest{ReviewStatus: "Approved"}))
			if w.Code != tt.wantStatus || parseResponse(w).Code != tt.wantCode {
				t.Errorf("期望 %d/%d，实际 %d/%d", tt.wantStatus, tt.wantCode, w.Code, parseResponse(w).Code)
			}
			if mock.calls != tt.wantCalls {
				t.Errorf("期望调用服务 %d 次，实际 %d", tt.wantCalls, mock.calls)
			}
		})
	}
}

func TestReviewHandler_ListAllHistory_Paged(t *testing.T) {
	h := NewReviewHandler(&mockReviewService{})
	r := gin.New()
	r.GET("/admin/logbook/history", withAuth(model.RoleAdmin), h.ListAllHistory)

	w := serve(r, http.MethodGet, "/admin/logbook/history?page=2&page_size=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	var resp struct {
		Data response.PageData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Pagination.Page != 2 || resp.Data.Pagination.PageSize != 10 {
		t.Errorf("分页参数错误: %+v", resp.Data.Pagination)
	}

	w = serve(r, http.MethodGet, "/admin/logbook/history?page_size=1000", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("page_size 超限应返回 400，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportProgress(t *testing.T) {
	h := NewExportHandler(&mockExportService{buf: bytes.NewBufferString("xlsx"), filename: "课程进度_20260302.xlsx"}, nil)
	r := gin.New()
	r.GET("/export/progress", withAuth(model.RoleAdmin), h.ExportProgress)

	w := serve(r, http.MethodGet, "/export/progress", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Errorf("Content-Type 错误: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment; filename*=UTF-8''") {
		t.Errorf("Content-Disposition 错误: %s", cd)
	}
	if w.Body.String() != "xlsx" {
		t.Error("响应体应为导出文件内容")
	}
}

func TestExportHandler_ExportProgress_Errors(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportNoCourses}, nil)
	r := gin.New()
	r.GET("/export/progress", withAuth(model.RoleTeacher), h.ExportProgress)

	w := serve(r, http.MethodGet, "/export/progress", nil)
	if w.Code != http.StatusNotFound || parseResponse(w).Code != 16101 {
		t.Errorf("期望 404/16101，实际 %d/%d", w.Code, parseResponse(w).Code)
	}
}

func TestExportHandler_ExportCalendar(t *testing.T) {
	h := NewExportHandler(nil, &mockCalendarService{body: "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"})
	r := gin.New()
	r.GET("/calendar.ics", withAuth(model.RoleDelegate), h.ExportCalendar)

	w := serve(r, http.MethodGet, "/calendar.ics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeICS {
		t.Errorf("Content-Type 错误: %s", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "BEGIN:VCALENDAR") {
		t.Error("响应体应为 iCalendar 内容")
	}
}

// ═══════════════════════════════════════════════════════════
// Context Helper Tests
// ═══════════════════════════════════════════════════════════

func TestMustGetActor_Unauthenticated(t *testing.T) {
	h := NewExportHandler(&mockExportService{}, nil)
	r := gin.New()
	r.GET("/export/progress", h.ExportProgress)

	w := serve(r, http.MethodGet, "/export/progress", nil)
	if w.Code != http.StatusUnauthorized || parseResponse(w).Code != 10002 {
		t.Errorf("缺少认证信息应返回 401/10002，实际 %d/%d", w.Code, parseResponse(w).Code)
	}
}
