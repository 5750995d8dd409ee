package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/zhanghx0905/AssetManagementBackend/config"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-at-least-16-chars",
		TokenTTL:  ttl,
	})
}

func TestManager_GenerateAndParse(t *testing.T) {
	m := newTestManager(time.Hour)

	token, err := m.GenerateToken(42, "zhangsan", 7, []string{"ASSET", "STAFF"})
	if err != nil {
		t.Fatalf("GenerateToken 应成功: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 应成功: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("期望UserID=42，实际=%d", claims.UserID)
	}
	if claims.Username != "zhangsan" {
		t.Errorf("期望Username=zhangsan，实际=%s", claims.Username)
	}
	if claims.DepartmentID != 7 {
		t.Errorf("期望DepartmentID=7，实际=%d", claims.DepartmentID)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "ASSET" {
		t.Errorf("角色列表不符: %v", claims.Roles)
	}
}

func TestManager_ParseExpired(t *testing.T) {
	m := newTestManager(-time.Minute)

	token, err := m.GenerateToken(1, "admin", 1, nil)
	if err != nil {
		t.Fatalf("GenerateToken 应成功: %v", err)
	}

	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestManager_ParseInvalid(t *testing.T) {
	m := newTestManager(time.Hour)

	if _, err := m.ParseToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}

	// 另一把密钥签发的 token 不应通过
	other := NewManager(&config.AuthConfig{
		JWTSecret: "another-secret-16-chars!",
		TokenTTL:  time.Hour,
	})
	token, _ := other.GenerateToken(1, "admin", 1, nil)
	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}
