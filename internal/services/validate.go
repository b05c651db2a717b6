package services

import (
	"strings"
)

// ValidateRegistration 注册输入校验，纯函数、无 I/O。
// 按固定顺序检查，遇到第一个失败即返回，不聚合多个错误。
// 用户名唯一性不在这里检查，由数据库唯一约束保证。
func ValidateRegistration(username, email, password string) []FieldError {
	if len(username) <= 2 {
		return []FieldError{{
			Field:   "username",
			Message: "Username must be at least 3 characters long",
		}}
	}

	// 用户名不允许 @，避免登录时与邮箱查找混淆
	if strings.Contains(username, "@") {
		return []FieldError{{
			Field:   "username",
			Message: "Username cannot include @",
		}}
	}

	if !strings.Contains(email, "@") {
		return []FieldError{{
			Field:   "email",
			Message: "Invalid email",
		}}
	}

	if len(password) <= 2 {
		return []FieldError{{
			Field:   "password",
			Message: "Password must be at least 2 characters long",
		}}
	}

	return nil
}
