package dto

// ── 用户与院系 DTO（管理员维护） ──

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Name         string  `json:"name"          binding:"required,min=2,max=100"`
	Email        string  `json:"email"         binding:"required,email"`
	Password     string  `json:"password"      binding:"required,min=8,max=64"`
	Role         string  `json:"role"          binding:"required,oneof=admin teacher delegate"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	Level        string  `json:"level"         binding:"omitempty,oneof=100 200 300 400 500"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role string `form:"role" binding:"omitempty,oneof=admin teacher delegate"`
}
