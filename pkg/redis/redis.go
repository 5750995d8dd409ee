package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zhanghx0905/AssetManagementBackend/config"
)

// Client Redis 客户端封装
// 存放用户的在线会话（token -> 用户），进程重启后会话不丢失，
// 多个请求处理协程看到的是同一份会话状态
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 在线会话 ──

const sessionPrefix = "session:"

func sessionKey(userID uint) string {
	return sessionPrefix + strconv.FormatUint(uint64(userID), 10)
}

// SetSession 记录用户当前有效 token，同一用户重复登录会覆盖旧会话
func (c *Client) SetSession(ctx context.Context, userID uint, token string, ttl time.Duration) error {
	return c.rdb.Set(ctx, sessionKey(userID), token, ttl).Err()
}

// GetSession 取用户当前有效 token，不在线时返回空串
func (c *Client) GetSession(ctx context.Context, userID uint) (string, error) {
	token, err := c.rdb.Get(ctx, sessionKey(userID)).Result()
	if err == goredis.Nil {
		return "", nil
	}
	return token, err
}

// DeleteSession 注销用户会话
func (c *Client) DeleteSession(ctx context.Context, userID uint) error {
	return c.rdb.Del(ctx, sessionKey(userID)).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
