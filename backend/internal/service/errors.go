package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tambongslade/LockBook/backend/pkg/validate"
)

// 跨模块共享的业务错误
var (
	ErrCourseNotFound = errors.New("课程不存在")
	ErrNotAuthorized  = errors.New("无权操作该课程")
	ErrMissingField   = errors.New("缺少必填字段")
	ErrValidation     = errors.New("参数校验失败")
)

// MissingFieldError 缺少必填字段，Fields 为 JSON 字段名
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField.Error(), strings.Join(e.Fields, ", "))
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// ValidationError 字段级校验失败，Fields 为 字段 → 失败规则
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// WindowClosedError 当前时间不在允许提交的窗口内
type WindowClosedError struct {
	Now          time.Time
	AllowedStart time.Time
	AllowedEnd   time.Time
}

func (e *WindowClosedError) Error() string {
	return fmt.Sprintf("%s: now=%s allowed=[%s, %s]", ErrWindowClosed.Error(),
		e.Now.Format(time.RFC3339), e.AllowedStart.Format(time.RFC3339), e.AllowedEnd.Format(time.RFC3339))
}

func (e *WindowClosedError) Is(target error) bool { return target == ErrWindowClosed }

// requireFields 收集值为空的字段名，按传入顺序返回 MissingFieldError
func requireFields(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) > 0 {
		return &MissingFieldError{Fields: missing}
	}
	return nil
}

// validateStruct 使用共享校验器校验请求体
func validateStruct(s interface{}) error {
	if fields := validate.Struct(s); fields != nil {
		return &ValidationError{Fields: fields}
	}
	return nil
}
