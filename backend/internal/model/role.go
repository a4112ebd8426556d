package model

import "fmt"

// Role 用户角色（封闭枚举）
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleTeacher  Role = "teacher"
	RoleDelegate Role = "delegate"
)

// ParseRole 将字符串解析为角色，未知值返回错误
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleTeacher, RoleDelegate:
		return Role(s), nil
	default:
		return "", fmt.Errorf("未知角色: %q", s)
	}
}

// Valid 是否为已知角色
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }
