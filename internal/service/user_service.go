package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/zhanghx0905/AssetManagementBackend/config"
	"github.com/zhanghx0905/AssetManagementBackend/internal/dto"
	"github.com/zhanghx0905/AssetManagementBackend/internal/model"
	"github.com/zhanghx0905/AssetManagementBackend/internal/repository"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound   = errors.New("用户不存在")
	ErrUsernameExists = errors.New("用户名已存在")
	// ErrAdminProtected 超级管理员不可删除、锁定或被自己降权
	ErrAdminProtected = errors.New("不能对超级管理员执行该操作")
	ErrUnknownRole    = errors.New("未知的角色")
)

var validRoles = map[string]bool{
	model.RoleIT:     true,
	model.RoleAsset:  true,
	model.RoleSystem: true,
}

// SessionStore 在线会话存储，锁定用户时要让其会话立即失效
type SessionStore interface {
	DeleteSession(ctx context.Context, userID uint) error
}

// UserService 用户管理业务接口（SYSTEM 权限）
type UserService interface {
	List(ctx context.Context) ([]dto.UserResponse, error)
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateUserRequest, callerID uint) (*dto.UserResponse, error)
	Lock(ctx context.Context, id uint, active bool) error
	Delete(ctx context.Context, id uint) error
}

type userService struct {
	adminUsername string
	repo          *repository.Repository
	sessions      SessionStore
	logger        *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(cfg *config.Config, repo *repository.Repository, sessions SessionStore, logger *zap.Logger) UserService {
	return &userService{
		adminUsername: cfg.Auth.AdminUsername,
		repo:          repo,
		sessions:      sessions,
		logger:        logger,
	}
}

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.ListAll(ctx)
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, err
	}

	res := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		res = append(res, toUserResponse(&users[i]))
	}
	return res, nil
}

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := checkRoles(req.Roles); err != nil {
		return nil, err
	}

	existing, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}

	if _, err := s.repo.Department.GetByID(ctx, req.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		DepartmentID: req.DepartmentID,
		Roles:        model.StringArray(req.Roles),
		Active:       true,
	}
	if user.Roles == nil {
		user.Roles = model.StringArray{}
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("创建用户", zap.String("username", user.Username))
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, id uint, req *dto.UpdateUserRequest, callerID uint) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 超级管理员不能修改自己的权限集
	if req.Roles != nil && user.Username == s.adminUsername && callerID == user.ID {
		return nil, ErrAdminProtected
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if req.DepartmentID != nil {
		dept, err := s.repo.Department.GetByID(ctx, *req.DepartmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, err
		}
		user.DepartmentID = dept.ID
		user.Department = dept
	}
	if req.Roles != nil {
		if err := checkRoles(*req.Roles); err != nil {
			return nil, err
		}
		user.Roles = model.StringArray(*req.Roles)
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Lock(ctx context.Context, id uint, active bool) error {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.Username == s.adminUsername {
		return ErrAdminProtected
	}

	user.Active = active
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("锁定用户失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	// 锁定即下线：否则被锁定用户的旧 token 在过期前仍然可用
	if !active {
		if err := s.sessions.DeleteSession(ctx, id); err != nil {
			s.logger.Error("注销被锁定用户会话失败", zap.Uint("id", id), zap.Error(err))
			return err
		}
	}
	s.logger.Info("用户锁定状态变更", zap.String("username", user.Username), zap.Bool("active", active))
	return nil
}

func (s *userService) Delete(ctx context.Context, id uint) error {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.Username == s.adminUsername {
		return ErrAdminProtected
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		s.logger.Error("删除用户失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("删除用户", zap.String("username", user.Username))
	return nil
}

// ── 内部辅助方法 ──

func checkRoles(roles []string) error {
	for _, role := range roles {
		if !validRoles[role] {
			return ErrUnknownRole
		}
	}
	return nil
}

func toUserResponse(user *model.User) dto.UserResponse {
	department := ""
	if user.Department != nil {
		department = user.Department.Name
	}
	return dto.UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Department: department,
		Roles:      user.RoleList(),
		Active:     user.Active,
	}
}
