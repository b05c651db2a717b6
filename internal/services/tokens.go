package services

import (
	"time"
	"updoot/internal/utils"

	"github.com/google/uuid"
)

const forgetPasswordPrefix = "forget-password:"

// ResetTokenTTL 重置密码 token 有效期
const ResetTokenTTL = 72 * time.Hour

// TokenService 管理密码重置 token：不透明随机值映射到用户 ID，
// 短 TTL，一次性使用（成功读取后立即删除）。
type TokenService struct {
	cache *utils.TTLCache
}

func NewTokenService(cache *utils.TTLCache) *TokenService {
	return &TokenService{cache: cache}
}

// Issue 为用户签发一个新的重置 token
func (s *TokenService) Issue(userID uint) string {
	token := uuid.NewString()
	s.cache.Set(forgetPasswordPrefix+token, userID, ResetTokenTTL)
	return token
}

// Consume 读取并销毁 token，返回对应的用户 ID。
// token 不存在或已过期时 ok 为 false。
func (s *TokenService) Consume(token string) (userID uint, ok bool) {
	key := forgetPasswordPrefix + token
	val := s.cache.Get(key)
	if val == nil {
		return 0, false
	}
	id, ok := val.(uint)
	if !ok {
		return 0, false
	}
	s.cache.Delete(key) // 一次性使用
	return id, true
}
