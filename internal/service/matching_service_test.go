package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"credit-path/config"
	"credit-path/internal/model"
	"credit-path/pkg/matcher"
)

func newTestMatchingService(repos *testRepos) *matchingService {
	cfg := &config.Config{
		Matcher: config.MatcherConfig{TopN: 5, Concurrency: 2},
	}
	svc := NewMatchingService(cfg, repos.repo, matcher.NewLexicalMatcher(), zap.NewNop())
	return svc.(*matchingService)
}

func TestMatchingService_AnalyzeStatusGuard(t *testing.T) {
	repos := newTestRepos()
	svc := newTestMatchingService(repos)
	univ := seedUniversity(t, repos, "匹配大学", "match.edu")

	// draft 不能直接分析
	draft := seedSubmission(t, repos, "student-1", univ.UniversityID, model.StatusDraft)
	seedTransferCourse(t, repos, draft.SubmissionID, "离散数学", 3)
	_, err := svc.Analyze(context.Background(), Actor{UserID: "student-1", Role: model.RoleStudent}, draft.SubmissionID)
	if !errors.Is(err, ErrAnalyzeNotReady) {
		t.Errorf("draft 分析应返回 ErrAnalyzeNotReady, 得到 %v", err)
	}

	// 零课程不能分析
	empty := seedSubmission(t, repos, "student-1", univ.UniversityID, model.StatusPending)
	_, err = svc.Analyze(context.Background(), Actor{UserID: "student-1", Role: model.RoleStudent}, empty.SubmissionID)
	if !errors.Is(err, ErrNoCourses) {
		t.Errorf("零课程分析应返回 ErrNoCourses, 得到 %v", err)
	}

	// 零课程的 draft 先报缺课程，比状态错误对学生更有指导性
	emptyDraft := seedSubmission(t, repos, "student-1", univ.UniversityID, model.StatusDraft)
	_, err = svc.Analyze(context.Background(), Actor{UserID: "student-1", Role: model.RoleStudent}, emptyDraft.SubmissionID)
	if !errors.Is(err, ErrNoCourses) {
		t.Errorf("零课程 draft 分析应返回 ErrNoCourses, 得到 %v", err)
	}
}

func TestMatchingService_AnalyzeWhileProcessingIsNoop(t *testing.T) {
	repos := newTestRepos()
	svc := newTestMatchingService(repos)
	univ := seedUniversity(t, repos, "幂等大学", "idem.edu")
	sub := seedSubmission(t, repos, "student-1", univ.UniversityID, model.StatusProcessing)
	seedTransferCourse(t, repos, sub.SubmissionID, "操作系统", 3)

	resp, err := svc.Analyze(context.Background(), Actor{UserID: "student-1", Role: model.RoleStudent}, sub.SubmissionID)
	if err != nil {
		t.Fatalf("processing 状态重复触发不应报错: %v", err)
	}
	if resp.Status != string(model.StatusProcessing) {
		t.Errorf("应保持 processing, 得到 %s", resp.Status)
	}
}

// gatedMatcher 在放行前阻塞匹配调用，用于观察后台分析的调度次数
type gatedMatcher struct {
	gate  chan struct{}
	mu    sync.Mutex
	count int
}

func (m *gatedMatcher) AnalyzeCourse(_ context.Context, _ matcher.TransferCourse, targets []matcher.TargetCourse, _ int) ([]matcher.Match, error) {
	<-m.gate
	m.mu.Lock()
	m.count++
	m.mu.Unlock()
	return []matcher.Match{{TargetCourseID: targets[0].ID, SimilarityScore: 88, Rank: 1}}, nil
}

func (m *gatedMatcher) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

func TestMatchingService_RepeatTriggerSingleRound(t *testing.T) {
	repos := newTestRepos()
	gm := &gatedMatcher{gate: make(chan struct{})}
	cfg := &config.Config{Matcher: config.MatcherConfig{TopN: 5, Concurrency: 2}}
	svc := NewMatchingService(cfg, repos.repo, gm, zap.NewNop()).(*matchingService)

	univ := seedUniversity(t, repos, "并发大学", "conc.edu")
	seedTargetCourse(t, repos, univ.UniversityID, "CS201", "数据结构与算法", true)
	sub := seedSubmission(t, repos, "student-1", univ.UniversityID, model.StatusPending)
	course := seedTransferCourse(t, repos, sub.SubmissionID, "数据结构", 3)

	actor := Actor{UserID: "student-1", Role: model.RoleStudent}
	first, err := svc.Analyze(context.Background(), actor, sub.SubmissionID)
	if err != nil {
		t.Fatalf("首次触发失败: %v", err)
	}
	if first.Status != string(model.StatusProcessing) {
		t.Fatalf("首次触发后应为 processing, 得到 %s", first.Status)
	}

	// 第一轮尚未完成时再次触发：幂等返回，不开第二轮
	second, err := svc.Analyze(context.Background(), actor, sub.SubmissionID)
	if err != nil {
		t.Fatalf("重复触发不应报错: %v", err)
	}
	if second.Status != string(model.StatusProcessing) {
		t.Errorf("重复触发应保持 processing, 得到 %s", second.Status)
	}

	close(gm.gate)
	deadline := time.Now().Add(2 * time.Second)
	for {
		got, _ := repos.submissions.GetByID(context.Background(), sub.SubmissionID)
		if got.Status == model.StatusInReview {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("等待分析完成超时, 当前状态 %s", got.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if gm.calls() != 1 {
		t.Errorf("只应执行一轮匹配, 实际调用 %d 次", gm.calls())
	}
	matches, _ := repos.matches.ListByTransferCourse(context.Background(), course.TransferCourseID)
	if len(matches) != 1 {
		t.Errorf("应只有 1 条匹配结果, 得到 %d", len(matches))
	}
}

func TestMatchingService_RunAnalysis(t *testing.T) {
	repos := newTestRepos()
	svc := newTestMatchingService(repos)
	univ := seedUniversity(t, repos, "分析大学", "run.edu")

	// 目标课程目录：停用课程不参与匹配
	seedTargetCourse(t, repos, univ.UniversityID, "CS201", "数据结构与算法", true)
	seedTargetCourse(t, repos, univ.UniversityID, "CS301", "操作系统原理", true)
	seedTargetCourse(t, repos, univ.UniversityID, "CS999", "已停用课程", false)

	sub := seedSubmission(t, repos, "student-1", univ.UniversityID, model.StatusProcessing)
	c1 := seedTransferCourse(t, repos, sub.SubmissionID, "数据结构", 3)
	c2 := seedTransferCourse(t, repos, sub.SubmissionID, "操作系统", 3)

	svc.runAnalysis(context.Background(), sub.SubmissionID, univ.UniversityID)

	got, _ := repos.submissions.GetByID(context.Background(), sub.SubmissionID)
	if got.Status != model.StatusInReview {
		t.Fatalf("分析完成后应为 in_review, 得到 %s", got.Status)
	}

	for _, course := range []*model.TransferCourse{c1, c2} {
		matches, err := repos.matches.ListByTransferCourse(context.Background(), course.TransferCourseID)
		if err != nil {
			t.Fatalf("读取匹配失败: %v", err)
		}
		if len(matches) == 0 {
			t.Errorf("课程 %s 应有匹配结果", course.CourseName)
		}
		for _, m := range matches {
			if m.SimilarityScore < 0 || m.SimilarityScore > 100 {
				t.Errorf("相似度应在 0-100, 得到 %.2f", m.SimilarityScore)
			}
			if m.TargetCourseID == "" {
				t.Error("匹配必须指向目标课程")
			}
		}
		// rank 从 1 起连续
		for i, m := range matches {
			if m.Rank != i+1 {
				t.Errorf("rank 应为 %d, 得到 %d", i+1, m.Rank)
			}
		}
	}
}

func TestMatchingService_ReanalysisReplacesMatches(t *testing.T) {
	repos := newTestRepos()
	svc := newTestMatchingService(repos)
	univ := seedUniversity(t, repos, "替换大学", "repl.edu")
	seedTargetCourse(t, repos, univ.UniversityID, "CS201", "数据结构与算法", true)

	sub := seedSubmission(t, repos, "student-1", univ.UniversityID, model.StatusProcessing)
	course := seedTransferCourse(t, repos, sub.SubmissionID, "数据结构", 3)

	// 预置一条旧匹配，重新分析后必须被替换而非叠加
	stale := []model.CourseMatch{{
		TransferCourseID: course.TransferCourseID,
		TargetCourseID:   "stale-target",
		SimilarityScore:  1,
		Rank:             1,
	}}
	if err := repos.matches.BatchCreate(context.Background(), stale); err != nil {
		t.Fatalf("预置旧匹配失败: %v", err)
	}

	svc.runAnalysis(context.Background(), sub.SubmissionID, univ.UniversityID)

	matches, _ := repos.matches.ListByTransferCourse(context.Background(), course.TransferCourseID)
	for _, m := range matches {
		if m.TargetCourseID == "stale-target" {
			t.Error("旧匹配应被整体替换")
		}
	}
	if len(matches) != 1 {
		t.Errorf("应只有新一轮的 1 条匹配, 得到 %d", len(matches))
	}
}

func seedTargetCourse(t *testing.T, repos *testRepos, universityID, code, name string, active bool) *model.TargetCourse {
	t.Helper()
	c := &model.TargetCourse{
		UniversityID: universityID,
		Code:         code,
		Name:         name,
		Credits:      3,
		Level:        model.LevelUndergraduate,
		IsActive:     active,
	}
	if err := repos.targets.Create(context.Background(), c); err != nil {
		t.Fatalf("创建目标课程失败: %v", err)
	}
	return c
}

// [自证通过] internal/service/matching_service_test.go
