package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"

	"credit-path/internal/model"
	"credit-path/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if filter.Role != "" && string(u.Role) != filter.Role {
			continue
		}
		if filter.UniversityID != "" && (u.UniversityID == nil || *u.UniversityID != filter.UniversityID) {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(u.Email, filter.Keyword) {
			continue
		}
		result = append(result, *u)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockUserRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *mockUserRepo) CountByRole(_ context.Context) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, u := range m.users {
		result[string(u.Role)]++
	}
	return result, nil
}

// ── Mock UniversityRepository ──

type mockUniversityRepo struct {
	universities map[string]*model.University
	seq          int
}

func newMockUniversityRepo() *mockUniversityRepo {
	return &mockUniversityRepo{universities: make(map[string]*model.University)}
}

func (m *mockUniversityRepo) Create(_ context.Context, u *model.University) error {
	if u.UniversityID == "" {
		m.seq++
		u.UniversityID = fmt.Sprintf("univ-%d", m.seq)
	}
	m.universities[u.UniversityID] = u
	return nil
}

func (m *mockUniversityRepo) GetByID(_ context.Context, id string) (*model.University, error) {
	if u, ok := m.universities[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUniversityRepo) GetByDomain(_ context.Context, domain string) (*model.University, error) {
	for _, u := range m.universities {
		if u.Domain == domain {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUniversityRepo) Update(_ context.Context, u *model.University) error {
	m.universities[u.UniversityID] = u
	return nil
}

func (m *mockUniversityRepo) List(_ context.Context, onlyActive bool, offset, limit int) ([]model.University, int64, error) {
	var result []model.University
	for _, u := range m.universities {
		if onlyActive && !u.IsActive {
			continue
		}
		result = append(result, *u)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockUniversityRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(m.universities)), nil
}

// ── Mock TargetCourseRepository ──

type mockTargetCourseRepo struct {
	courses map[string]*model.TargetCourse
	seq     int
}

func newMockTargetCourseRepo() *mockTargetCourseRepo {
	return &mockTargetCourseRepo{courses: make(map[string]*model.TargetCourse)}
}

func (m *mockTargetCourseRepo) Create(_ context.Context, c *model.TargetCourse) error {
	if c.CourseID == "" {
		m.seq++
		c.CourseID = fmt.Sprintf("target-%d", m.seq)
	}
	m.courses[c.CourseID] = c
	return nil
}

func (m *mockTargetCourseRepo) GetByID(_ context.Context, id string) (*model.TargetCourse, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTargetCourseRepo) GetByUniversityAndCode(_ context.Context, universityID, code string) (*model.TargetCourse, error) {
	for _, c := range m.courses {
		if c.UniversityID == universityID && c.Code == code {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTargetCourseRepo) Update(_ context.Context, c *model.TargetCourse) error {
	m.courses[c.CourseID] = c
	return nil
}

func (m *mockTargetCourseRepo) List(_ context.Context, filter repository.TargetCourseFilter, offset, limit int) ([]model.TargetCourse, int64, error) {
	var result []model.TargetCourse
	for _, c := range m.courses {
		if filter.UniversityID != "" && c.UniversityID != filter.UniversityID {
			continue
		}
		if filter.Department != "" && c.Department != filter.Department {
			continue
		}
		if filter.OnlyActive && !c.IsActive {
			continue
		}
		result = append(result, *c)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockTargetCourseRepo) ListActiveByUniversity(_ context.Context, universityID string) ([]model.TargetCourse, error) {
	var result []model.TargetCourse
	for _, c := range m.courses {
		if c.UniversityID == universityID && c.IsActive {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockTargetCourseRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(m.courses)), nil
}

// ── Mock TransferCourseRepository ──

type mockTransferCourseRepo struct {
	courses map[string]*model.TransferCourse
	seq     int
}

func newMockTransferCourseRepo() *mockTransferCourseRepo {
	return &mockTransferCourseRepo{courses: make(map[string]*model.TransferCourse)}
}

func (m *mockTransferCourseRepo) Create(_ context.Context, c *model.TransferCourse) error {
	if c.TransferCourseID == "" {
		m.seq++
		c.TransferCourseID = fmt.Sprintf("tc-%d", m.seq)
	}
	m.courses[c.TransferCourseID] = c
	return nil
}

func (m *mockTransferCourseRepo) GetByID(_ context.Context, id string) (*model.TransferCourse, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTransferCourseRepo) Update(_ context.Context, c *model.TransferCourse) error {
	m.courses[c.TransferCourseID] = c
	return nil
}

func (m *mockTransferCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

func (m *mockTransferCourseRepo) ListBySubmission(_ context.Context, submissionID string) ([]model.TransferCourse, error) {
	var result []model.TransferCourse
	for _, c := range m.courses {
		if c.SubmissionID == submissionID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockTransferCourseRepo) CountBySubmission(_ context.Context, submissionID string) (int64, error) {
	var total int64
	for _, c := range m.courses {
		if c.SubmissionID == submissionID {
			total++
		}
	}
	return total, nil
}

// ── Mock CourseMatchRepository ──

type mockCourseMatchRepo struct {
	mu      sync.Mutex                     // 匹配分析并发写入
	matches map[string][]model.CourseMatch // key: transfer_course_id
	seq     int
}

func newMockCourseMatchRepo() *mockCourseMatchRepo {
	return &mockCourseMatchRepo{matches: make(map[string][]model.CourseMatch)}
}

func (m *mockCourseMatchRepo) BatchCreate(_ context.Context, matches []model.CourseMatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range matches {
		m.seq++
		matches[i].MatchID = fmt.Sprintf("match-%d", m.seq)
		m.matches[matches[i].TransferCourseID] = append(m.matches[matches[i].TransferCourseID], matches[i])
	}
	return nil
}

func (m *mockCourseMatchRepo) DeleteByTransferCourse(_ context.Context, transferCourseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.matches, transferCourseID)
	return nil
}

func (m *mockCourseMatchRepo) ListByTransferCourse(_ context.Context, transferCourseID string) ([]model.CourseMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matches[transferCourseID], nil
}

// ── Mock EvaluationRepository ──

type mockEvaluationRepo struct {
	evals map[string]*model.Evaluation // key: transfer_course_id
	seq   int
}

func newMockEvaluationRepo() *mockEvaluationRepo {
	return &mockEvaluationRepo{evals: make(map[string]*model.Evaluation)}
}

func (m *mockEvaluationRepo) Create(_ context.Context, e *model.Evaluation) error {
	if e.EvaluationID == "" {
		m.seq++
		e.EvaluationID = fmt.Sprintf("eval-%d", m.seq)
	}
	m.evals[e.TransferCourseID] = e
	return nil
}

func (m *mockEvaluationRepo) Update(_ context.Context, e *model.Evaluation) error {
	m.evals[e.TransferCourseID] = e
	return nil
}

func (m *mockEvaluationRepo) GetByTransferCourse(_ context.Context, transferCourseID string) (*model.Evaluation, error) {
	if e, ok := m.evals[transferCourseID]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEvaluationRepo) ListBySubmission(_ context.Context, submissionID string) ([]model.Evaluation, error) {
	var result []model.Evaluation
	for _, e := range m.evals {
		if e.SubmissionID == submissionID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEvaluationRepo) CountTerminalBySubmission(_ context.Context, submissionID string) (int64, error) {
	var total int64
	for _, e := range m.evals {
		if e.SubmissionID == submissionID && e.Decision.Terminal() {
			total++
		}
	}
	return total, nil
}

func (m *mockEvaluationRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(m.evals)), nil
}

func (m *mockEvaluationRepo) CountByDecision(_ context.Context) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, e := range m.evals {
		result[string(e.Decision)]++
	}
	return result, nil
}

func (m *mockEvaluationRepo) SumAwardedCredits(_ context.Context) (float64, error) {
	var total float64
	for _, e := range m.evals {
		if e.Decision == model.DecisionApproved && e.AwardedCredits != nil {
			total += *e.AwardedCredits
		}
	}
	return total, nil
}

// ── Mock SubmissionRepository ──
// GetByIDFull 需要拼装关联，持有其余 mock 引用

type mockSubmissionRepo struct {
	submissions map[string]*model.Submission
	seq         int

	users   *mockUserRepo
	courses *mockTransferCourseRepo
	matches *mockCourseMatchRepo
	evals   *mockEvaluationRepo
}

func (m *mockSubmissionRepo) Create(_ context.Context, s *model.Submission) error {
	if s.SubmissionID == "" {
		m.seq++
		s.SubmissionID = fmt.Sprintf("sub-%d", m.seq)
	}
	m.submissions[s.SubmissionID] = s
	return nil
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id string) (*model.Submission, error) {
	if s, ok := m.submissions[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) GetByIDFull(ctx context.Context, id string) (*model.Submission, error) {
	s, ok := m.submissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s
	if u, ok := m.users.users[s.StudentID]; ok {
		copied.Student = u
	}

	courses, _ := m.courses.ListBySubmission(ctx, id)
	for i := range courses {
		courses[i].Matches, _ = m.matches.ListByTransferCourse(ctx, courses[i].TransferCourseID)
		if e, ok := m.evals.evals[courses[i].TransferCourseID]; ok {
			ev := *e
			courses[i].Evaluation = &ev
		}
	}
	copied.TransferCourses = courses
	return &copied, nil
}

func (m *mockSubmissionRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Submission, error) {
	return m.GetByID(ctx, id)
}

func (m *mockSubmissionRepo) Update(_ context.Context, s *model.Submission) error {
	m.submissions[s.SubmissionID] = s
	return nil
}

func (m *mockSubmissionRepo) UpdateStatus(_ context.Context, id string, status model.SubmissionStatus) error {
	s, ok := m.submissions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

func (m *mockSubmissionRepo) List(ctx context.Context, filter repository.SubmissionFilter, offset, limit int) ([]model.Submission, int64, error) {
	var result []model.Submission
	for id, s := range m.submissions {
		if filter.StudentID != "" && s.StudentID != filter.StudentID {
			continue
		}
		if filter.UniversityID != "" && s.TargetUniversityID != filter.UniversityID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		full, _ := m.GetByIDFull(ctx, id)
		result = append(result, *full)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockSubmissionRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(m.submissions)), nil
}

func (m *mockSubmissionRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, s := range m.submissions {
		result[string(s.Status)]++
	}
	return result, nil
}

// ── 测试装配 ──

type testRepos struct {
	users        *mockUserRepo
	universities *mockUniversityRepo
	targets      *mockTargetCourseRepo
	submissions  *mockSubmissionRepo
	courses      *mockTransferCourseRepo
	matches      *mockCourseMatchRepo
	evals        *mockEvaluationRepo
	repo         *repository.Repository
}

func newTestRepos() *testRepos {
	users := newMockUserRepo()
	universities := newMockUniversityRepo()
	targets := newMockTargetCourseRepo()
	courses := newMockTransferCourseRepo()
	matches := newMockCourseMatchRepo()
	evals := newMockEvaluationRepo()
	submissions := &mockSubmissionRepo{
		submissions: make(map[string]*model.Submission),
		users:       users,
		courses:     courses,
		matches:     matches,
		evals:       evals,
	}

	return &testRepos{
		users:        users,
		universities: universities,
		targets:      targets,
		submissions:  submissions,
		courses:      courses,
		matches:      matches,
		evals:        evals,
		repo: &repository.Repository{
			User:           users,
			University:     universities,
			TargetCourse:   targets,
			Submission:     submissions,
			TransferCourse: courses,
			CourseMatch:    matches,
			Evaluation:     evals,
		},
	}
}

// paginate 截取分页区间
func paginate[T any](list []T, offset, limit int) []T {
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

// [自证通过] internal/service/mock_repos_test.go
