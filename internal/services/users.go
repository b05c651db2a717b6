package services

import (
	"errors"
	"fmt"
	"strings"
	"updoot/internal/models"
	"updoot/internal/utils"

	"gorm.io/gorm"
)

// UserService 负责注册、登录和密码找回。
// 依赖通过构造函数显式注入。
type UserService struct {
	db     *gorm.DB
	tokens *TokenService
	mail   *MailService
}

func NewUserService(db *gorm.DB, tokens *TokenService, mail *MailService) *UserService {
	return &UserService{db: db, tokens: tokens, mail: mail}
}

// isDuplicateKeyErr 判断是否为唯一约束冲突。
// gorm 的错误翻译覆盖 postgres；sqlite（测试）走字符串匹配。
func isDuplicateKeyErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

// Register 校验输入、哈希密码并创建用户。
// 返回值三选一：用户创建成功返回 user；校验或用户名冲突返回 fieldErrors；
// 存储故障返回 err。不会出现 user 和 errors 同时为空却无 err 的状态。
func (s *UserService) Register(username, email, password string) (*models.User, []FieldError, error) {
	if fieldErrs := ValidateRegistration(username, email, password); fieldErrs != nil {
		return nil, fieldErrs, nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, []FieldError{{
				Field:   "username",
				Message: "Username already taken",
			}}, nil
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	return &user, nil, nil
}

// Login 支持用户名或邮箱登录：带 @ 按邮箱查找，否则按用户名。
func (s *UserService) Login(usernameOrEmail, password string) (*models.User, []FieldError, error) {
	var user models.User
	query := s.db
	if strings.Contains(usernameOrEmail, "@") {
		query = query.Where("email = ?", usernameOrEmail)
	} else {
		query = query.Where("username = ?", usernameOrEmail)
	}

	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, []FieldError{{
				Field:   "usernameOrEmail",
				Message: "That user does not exist",
			}}, nil
		}
		return nil, nil, fmt.Errorf("query user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, []FieldError{{
			Field:   "password",
			Message: "Incorrect password",
		}}, nil
	}

	return &user, nil, nil
}

// FindByID 按 ID 查找用户，不存在时返回 ErrUserNotFound
func (s *UserService) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// ForgotPassword 为邮箱对应的用户签发重置 token 并异步发送邮件。
// 邮箱不存在时同样静默返回，不暴露账号是否存在。
func (s *UserService) ForgotPassword(email string) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("query user: %w", err)
	}

	token := s.tokens.Issue(user.ID)
	s.mail.SendPasswordResetEmail(user.Email, token)
	return nil
}

// ChangePassword 消费重置 token 并更新密码。
// token 消费是一次性的：成功读取后即失效。
func (s *UserService) ChangePassword(token, newPassword string) (*models.User, []FieldError, error) {
	if len(newPassword) <= 2 {
		return nil, []FieldError{{
			Field:   "newPassword",
			Message: "Password must be greater than 2",
		}}, nil
	}

	userID, ok := s.tokens.Consume(token)
	if !ok {
		return nil, []FieldError{{
			Field:   "token",
			Message: "Token expired",
		}}, nil
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, []FieldError{{
				Field:   "token",
				Message: "User no longer exists",
			}}, nil
		}
		return nil, nil, fmt.Errorf("query user: %w", err)
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.db.Model(&user).Update("password", hash).Error; err != nil {
		return nil, nil, fmt.Errorf("update password: %w", err)
	}

	return &user, nil, nil
}
