package dto

import "time"

// UserDTO 用户信息
type UserDTO struct {
	UserID    uint64     `json:"user_id"`
	Username  string     `json:"username"`
	Nickname  string     `json:"nickname"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	Bio       *string    `json:"bio,omitempty"`
	Roles     []string   `json:"roles,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// RegisterDTO 注册
type RegisterDTO struct {
	Username string  `json:"username" binding:"required" validate:"min=3,max=20"`
	Password string  `json:"password" binding:"required" validate:"min=6,max=20"`
	Nickname string  `json:"nickname" validate:"omitempty,min=1,max=30"`
	Bio      *string `json:"bio" validate:"omitempty,max=200"`
}

// CredentialDTO 登录凭证
type CredentialDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResultDTO 登录结果
type LoginResultDTO struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user"`
}

// ChangePasswordDTO 修改密码
type ChangePasswordDTO struct {
	OldPassword string `json:"old_password" binding:"required" validate:"min=6,max=20"`
	NewPassword string `json:"new_password" binding:"required" validate:"min=6,max=20"`
}

// UpdateUserDTO 修改资料
type UpdateUserDTO struct {
	Nickname *string `json:"nickname" validate:"omitempty,min=1,max=30"`
	Bio      *string `json:"bio" validate:"omitempty,max=200"`
	Avatar   *string `json:"avatar_url" validate:"omitempty,max=255"`
}

// GrantRoleDTO 授予角色
type GrantRoleDTO struct {
	UserID   uint64 `json:"user_id" binding:"required"`
	RoleName string `json:"role_name" binding:"required"`
}
