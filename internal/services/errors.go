package services

import "errors"

// Sentinel errors for the core operations.
// Handlers dispatch on these with errors.Is; anything else is a store failure
// and surfaces as a 500.
var (
	// ErrAuthRequired 未登录调用需要登录的操作
	ErrAuthRequired = errors.New("authentication required")

	// ErrPostNotFound 帖子不存在
	ErrPostNotFound = errors.New("post not found")

	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidVote 非法投票方向（只接受 up/down，取消投票通过重复同方向投票实现）
	ErrInvalidVote = errors.New("invalid vote direction")

	// ErrNotPostAuthor 只有作者可以编辑/删除帖子
	ErrNotPostAuthor = errors.New("not the post author")
)

// FieldError 字段级校验错误，作为数据返回给客户端而不是抛异常，
// 客户端可以据此高亮具体的输入框。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
