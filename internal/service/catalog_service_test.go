package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"credit-path/internal/dto"
	"credit-path/internal/model"
)

func systemAdminActor() Actor {
	return Actor{UserID: "admin-1", Role: model.RoleSystemAdmin}
}

func TestCatalogService_CreateCrossUniversity(t *testing.T) {
	repos := newTestRepos()
	svc := NewCatalogService(repos.repo, zap.NewNop())
	univ := seedUniversity(t, repos, "甲大学", "a.edu")
	other := seedUniversity(t, repos, "乙大学", "b.edu")

	professor := Actor{UserID: "prof-1", Role: model.RoleProfessor, UniversityID: other.UniversityID}
	_, err := svc.Create(context.Background(), professor, &dto.CreateTargetCourseRequest{
		UniversityID: univ.UniversityID,
		Code:         "CS101",
		Name:         "计算机导论",
		Credits:      3,
	})
	if !errors.Is(err, ErrCrossUniversity) {
		t.Errorf("跨校建课应返回 ErrCrossUniversity, 得到 %v", err)
	}
}

func TestCatalogService_CreateDuplicateCode(t *testing.T) {
	repos := newTestRepos()
	svc := NewCatalogService(repos.repo, zap.NewNop())
	univ := seedUniversity(t, repos, "丙大学", "c.edu")

	req := &dto.CreateTargetCourseRequest{
		UniversityID: univ.UniversityID,
		Code:         "cs101",
		Name:         "计算机导论",
		Credits:      3,
	}
	resp, err := svc.Create(context.Background(), systemAdminActor(), req)
	if err != nil {
		t.Fatalf("创建课程失败: %v", err)
	}
	if resp.Code != "CS101" {
		t.Errorf("课程编号应归一化为大写, 得到 %s", resp.Code)
	}

	_, err = svc.Create(context.Background(), systemAdminActor(), req)
	if !errors.Is(err, ErrCourseCodeTaken) {
		t.Errorf("重复编号应返回 ErrCourseCodeTaken, 得到 %v", err)
	}
}

func TestCatalogService_ProfessorOwnCourseOnly(t *testing.T) {
	repos := newTestRepos()
	svc := NewCatalogService(repos.repo, zap.NewNop())
	univ := seedUniversity(t, repos, "丁大学", "d.edu")

	owner := Actor{UserID: "prof-owner", Role: model.RoleProfessor, UniversityID: univ.UniversityID}
	created, err := svc.Create(context.Background(), owner, &dto.CreateTargetCourseRequest{
		UniversityID: univ.UniversityID,
		Code:         "MATH201",
		Name:         "线性代数",
		Credits:      4,
	})
	if err != nil {
		t.Fatalf("创建课程失败: %v", err)
	}

	// 同校另一位教授不能改
	colleague := Actor{UserID: "prof-other", Role: model.RoleProfessor, UniversityID: univ.UniversityID}
	newName := "高等线性代数"
	_, err = svc.Update(context.Background(), colleague, created.ID, &dto.UpdateTargetCourseRequest{Name: &newName})
	if !errors.Is(err, ErrNotCourseOwner) {
		t.Errorf("非课程归属人应返回 ErrNotCourseOwner, 得到 %v", err)
	}

	// 本人可以改，校管理员也可以改
	if _, err := svc.Update(context.Background(), owner, created.ID, &dto.UpdateTargetCourseRequest{Name: &newName}); err != nil {
		t.Errorf("归属人更新失败: %v", err)
	}
	uadmin := Actor{UserID: "uadmin-1", Role: model.RoleUniversityAdmin, UniversityID: univ.UniversityID}
	if err := svc.Deactivate(context.Background(), uadmin, created.ID); err != nil {
		t.Errorf("校管理员停用失败: %v", err)
	}
}

func buildImportCSV(rows ...string) string {
	header := strings.Join(importHeader, ",")
	return header + "\n" + strings.Join(rows, "\n") + "\n"
}

func TestCatalogService_ImportPartialSuccess(t *testing.T) {
	repos := newTestRepos()
	svc := NewCatalogService(repos.repo, zap.NewNop())
	univ := seedUniversity(t, repos, "戊大学", "e.edu")

	// 10 行数据，第 3 行学分非法，第 5 行学分留空（按默认值导入），第 7 行缺课程名
	var rows []string
	for i := 1; i <= 10; i++ {
		switch i {
		case 3:
			rows = append(rows, fmt.Sprintf("CS%03d,课程%d,计算机系,abc,,,,undergraduate", i, i))
		case 5:
			rows = append(rows, fmt.Sprintf("CS%03d,课程%d,计算机系,,,,,undergraduate", i, i))
		case 7:
			rows = append(rows, fmt.Sprintf("CS%03d,,计算机系,3,,,,undergraduate", i))
		default:
			rows = append(rows, fmt.Sprintf("CS%03d,课程%d,计算机系,3,,,,undergraduate", i, i))
		}
	}

	result, err := svc.Import(context.Background(), systemAdminActor(), univ.UniversityID,
		"catalog.csv", strings.NewReader(buildImportCSV(rows...)), false)
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if result.Created != 8 {
		t.Errorf("应创建 8 门课程, 得到 %d", result.Created)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("应有 2 条错误, 得到 %d", len(result.Errors))
	}
	if result.Errors[0].Row != 3 || result.Errors[1].Row != 7 {
		t.Errorf("错误行号应为 3 和 7, 得到 %d 和 %d", result.Errors[0].Row, result.Errors[1].Row)
	}

	// 学分留空的行按默认 3.0 学分入库
	c, err := repos.targets.GetByUniversityAndCode(context.Background(), univ.UniversityID, "CS005")
	if err != nil {
		t.Fatalf("查询课程失败: %v", err)
	}
	if c.Credits != defaultImportCredits {
		t.Errorf("学分留空应取默认值 %.1f, 得到 %.1f", defaultImportCredits, c.Credits)
	}
}

func TestCatalogService_ImportReplace(t *testing.T) {
	repos := newTestRepos()
	svc := NewCatalogService(repos.repo, zap.NewNop())
	univ := seedUniversity(t, repos, "己大学", "f.edu")

	csv1 := buildImportCSV("CS101,计算机导论,计算机系,3,,,,undergraduate")
	if _, err := svc.Import(context.Background(), systemAdminActor(), univ.UniversityID,
		"catalog.csv", strings.NewReader(csv1), false); err != nil {
		t.Fatalf("首次导入失败: %v", err)
	}

	// replace=false 跳过已有编号
	csv2 := buildImportCSV("CS101,计算机导论（修订）,计算机系,4,,,,undergraduate")
	result, err := svc.Import(context.Background(), systemAdminActor(), univ.UniversityID,
		"catalog.csv", strings.NewReader(csv2), false)
	if err != nil {
		t.Fatalf("二次导入失败: %v", err)
	}
	if result.Skipped != 1 || result.Created != 0 || result.Updated != 0 {
		t.Errorf("replace=false 应跳过, 得到 created=%d updated=%d skipped=%d",
			result.Created, result.Updated, result.Skipped)
	}

	// replace=true 覆盖
	result, err = svc.Import(context.Background(), systemAdminActor(), univ.UniversityID,
		"catalog.csv", strings.NewReader(csv2), true)
	if err != nil {
		t.Fatalf("三次导入失败: %v", err)
	}
	if result.Updated != 1 {
		t.Errorf("replace=true 应更新 1 门, 得到 %d", result.Updated)
	}

	c, err := repos.targets.GetByUniversityAndCode(context.Background(), univ.UniversityID, "CS101")
	if err != nil {
		t.Fatalf("查询课程失败: %v", err)
	}
	if c.Credits != 4 || c.Name != "计算机导论（修订）" {
		t.Errorf("课程应已覆盖, 得到 credits=%.1f name=%s", c.Credits, c.Name)
	}
}

func TestCatalogService_ImportBadHeader(t *testing.T) {
	repos := newTestRepos()
	svc := NewCatalogService(repos.repo, zap.NewNop())
	univ := seedUniversity(t, repos, "庚大学", "g.edu")

	_, err := svc.Import(context.Background(), systemAdminActor(), univ.UniversityID,
		"catalog.csv", strings.NewReader("code,title\nCS101,导论\n"), false)
	if !errors.Is(err, ErrImportHeaderInvalid) {
		t.Errorf("表头不符应返回 ErrImportHeaderInvalid, 得到 %v", err)
	}

	_, err = svc.Import(context.Background(), systemAdminActor(), univ.UniversityID,
		"catalog.txt", strings.NewReader(""), false)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("非法扩展名应返回 ErrUnsupportedFormat, 得到 %v", err)
	}
}

// [自证通过] internal/service/catalog_service_test.go
