package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/zhanghx0905/AssetManagementBackend/internal/dto"
	"github.com/zhanghx0905/AssetManagementBackend/internal/repository"
	"github.com/zhanghx0905/AssetManagementBackend/pkg/jwt"
	"github.com/zhanghx0905/AssetManagementBackend/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrWrongCredential = errors.New("用户名或密码错误")
	ErrUserLocked      = errors.New("用户已被锁定")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, userID uint) error
	Info(ctx context.Context, userID uint) (*dto.UserInfoResponse, error)
	// SessionToken 返回用户当前有效 token，不在线时为空串
	SessionToken(ctx context.Context, userID uint) (string, error)
}

type authService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) AuthService {
	return &authService{repo: repo, jwtMgr: jwtMgr, rdb: rdb, logger: logger}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWrongCredential
		}
		s.logger.Error("查询用户失败", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}
	if !user.Active {
		return nil, ErrUserLocked
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrWrongCredential
	}

	token, err := s.jwtMgr.GenerateToken(user.ID, user.Username, user.DepartmentID, user.RoleList())
	if err != nil {
		s.logger.Error("签发 token 失败", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}

	// 会话写入 Redis：同一用户重复登录覆盖旧会话，旧 token 随即失效
	if err := s.rdb.SetSession(ctx, user.ID, token, s.jwtMgr.TokenTTL()); err != nil {
		s.logger.Error("写入会话失败", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户登录", zap.String("username", user.Username))
	return &dto.LoginResponse{Token: token}, nil
}

func (s *authService) Logout(ctx context.Context, userID uint) error {
	if err := s.rdb.DeleteSession(ctx, userID); err != nil {
		s.logger.Error("注销会话失败", zap.Uint("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) Info(ctx context.Context, userID uint) (*dto.UserInfoResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	department := ""
	if user.Department != nil {
		department = user.Department.Name
	}
	return &dto.UserInfoResponse{
		ID:         user.ID,
		Username:   user.Username,
		Department: department,
		Roles:      user.RoleList(),
	}, nil
}

func (s *authService) SessionToken(ctx context.Context, userID uint) (string, error) {
	return s.rdb.GetSession(ctx, userID)
}
