package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"credit-path/internal/dto"
	"credit-path/internal/model"
	"credit-path/internal/repository"
)

var (
	ErrInvalidDecision          = errors.New("评审结论不合法")
	ErrEvaluationNotAllowed     = errors.New("申请当前状态不允许评审")
	ErrApprovedCourseRequired   = errors.New("approved 结论必须指定目标课程")
	ErrApprovedCourseNotAllowed = errors.New("非 approved 结论不能携带目标课程")
	ErrTargetCourseMismatch     = errors.New("目标课程不属于申请的目标学校或已停用")
	ErrEvaluatorScope           = errors.New("无权评审其他学校的申请")
)

// EvaluationService 评审业务接口（evaluator / system_admin）
type EvaluationService interface {
	ListPending(ctx context.Context, actor Actor, req *dto.ListPendingRequest) ([]dto.PendingSubmissionResponse, int64, error)
	Detail(ctx context.Context, actor Actor, submissionID string) (*dto.SubmissionResponse, error)
	RecordDecision(ctx context.Context, actor Actor, submissionID, transferCourseID string, req *dto.RecordDecisionRequest) (*dto.EvaluationResponse, error)
	RejectSubmission(ctx context.Context, actor Actor, submissionID string, req *dto.RejectSubmissionRequest) error
	Summary(ctx context.Context, actor Actor, submissionID string) (*dto.EvaluationSummaryResponse, error)
}

type evaluationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEvaluationService 创建 EvaluationService 实例
func NewEvaluationService(repo *repository.Repository, logger *zap.Logger) EvaluationService {
	return &evaluationService{repo: repo, logger: logger}
}

// ListPending 待评审队列：in_review 状态、目标校为评审员所在学校的申请
// system_admin 不限校，可通过 university_id 过滤
func (s *evaluationService) ListPending(ctx context.Context, actor Actor, req *dto.ListPendingRequest) ([]dto.PendingSubmissionResponse, int64, error) {
	filter := repository.SubmissionFilter{Status: model.StatusInReview}
	if actor.IsSystemAdmin() {
		filter.UniversityID = req.UniversityID
	} else {
		if actor.UniversityID == "" {
			return nil, 0, ErrEvaluatorScope
		}
		filter.UniversityID = actor.UniversityID
	}

	subs, total, err := s.repo.Submission.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询待评审队列失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.PendingSubmissionResponse, 0, len(subs))
	for i := range subs {
		list = append(list, toPendingSubmissionResponse(&subs[i]))
	}
	return list, total, nil
}

func (s *evaluationService) Detail(ctx context.Context, actor Actor, submissionID string) (*dto.SubmissionResponse, error) {
	sub, err := s.repo.Submission.GetByIDFull(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	if err := s.checkScope(actor, sub); err != nil {
		return nil, err
	}

	resp := toSubmissionResponse(sub)
	return &resp, nil
}

// RecordDecision 记录/改判单课裁定，并在行锁事务内重算整单完成状态：
// 全部课程都有终局结论（approved/rejected）时 in_review → completed
func (s *evaluationService) RecordDecision(ctx context.Context, actor Actor, submissionID, transferCourseID string, req *dto.RecordDecisionRequest) (*dto.EvaluationResponse, error) {
	decision := model.EvaluationDecision(req.Decision)
	if !decision.Valid() {
		return nil, ErrInvalidDecision
	}
	if decision == model.DecisionApproved && req.ApprovedCourseID == nil {
		return nil, ErrApprovedCourseRequired
	}
	if decision != model.DecisionApproved && req.ApprovedCourseID != nil {
		return nil, ErrApprovedCourseNotAllowed
	}

	var eval *model.Evaluation
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		// 行锁申请，终局计数与状态迁移在同一事务内完成
		sub, err := txRepo.Submission.GetByIDForUpdate(ctx, submissionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return err
		}
		if err := s.checkScope(actor, sub); err != nil {
			return err
		}
		if sub.Status != model.StatusInReview {
			return ErrEvaluationNotAllowed
		}

		course, err := txRepo.TransferCourse.GetByID(ctx, transferCourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransferCourseNotFound
			}
			return err
		}
		if course.SubmissionID != submissionID {
			return ErrTransferCourseNotFound
		}

		// approved 的目标课程必须属于目标校且在用
		if decision == model.DecisionApproved {
			target, err := txRepo.TargetCourse.GetByID(ctx, *req.ApprovedCourseID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrCourseNotFound
				}
				return err
			}
			if target.UniversityID != sub.TargetUniversityID || !target.IsActive {
				return ErrTargetCourseMismatch
			}
		}

		// upsert：每门课至多一条裁定，重复评审覆盖前次
		eval, err = txRepo.Evaluation.GetByTransferCourse(ctx, transferCourseID)
		switch {
		case err == nil:
			eval.EvaluatorID = actor.UserID
			eval.Decision = decision
			eval.ApprovedCourseID = req.ApprovedCourseID
			eval.AwardedCredits = req.AwardedCredits
			eval.Comments = req.Comments
			eval.ApprovedCourse = nil
			if err := txRepo.Evaluation.Update(ctx, eval); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			eval = &model.Evaluation{
				SubmissionID:     submissionID,
				TransferCourseID: transferCourseID,
				EvaluatorID:      actor.UserID,
				Decision:         decision,
				ApprovedCourseID: req.ApprovedCourseID,
				AwardedCredits:   req.AwardedCredits,
				Comments:         req.Comments,
			}
			if err := txRepo.Evaluation.Create(ctx, eval); err != nil {
				return err
			}
		default:
			return err
		}

		// 完成判定：needs_info/pending 阻塞 completed
		courseCount, err := txRepo.TransferCourse.CountBySubmission(ctx, submissionID)
		if err != nil {
			return err
		}
		terminalCount, err := txRepo.Evaluation.CountTerminalBySubmission(ctx, submissionID)
		if err != nil {
			return err
		}
		if courseCount > 0 && terminalCount == courseCount {
			return txRepo.Submission.UpdateStatus(ctx, submissionID, model.StatusCompleted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("裁定已记录",
		zap.String("submission_id", submissionID),
		zap.String("transfer_course_id", transferCourseID),
		zap.String("decision", string(decision)),
		zap.String("evaluator_id", actor.UserID),
	)

	resp := toEvaluationResponse(eval)
	return &resp, nil
}

// RejectSubmission 整单驳回：in_review / completed → rejected
func (s *evaluationService) RejectSubmission(ctx context.Context, actor Actor, submissionID string, req *dto.RejectSubmissionRequest) error {
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		sub, err := txRepo.Submission.GetByIDForUpdate(ctx, submissionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return err
		}
		if err := s.checkScope(actor, sub); err != nil {
			return err
		}
		if !sub.Status.CanTransitionTo(model.StatusRejected) {
			return ErrInvalidTransition
		}

		sub.Status = model.StatusRejected
		if req.Reason != "" {
			if sub.Notes != "" {
				sub.Notes += "\n"
			}
			sub.Notes += "驳回原因: " + req.Reason
		}
		return txRepo.Submission.Update(ctx, sub)
	})
	if err != nil {
		return err
	}

	s.logger.Info("整单已驳回",
		zap.String("submission_id", submissionID),
		zap.String("evaluator_id", actor.UserID),
	)
	return nil
}

func (s *evaluationService) Summary(ctx context.Context, actor Actor, submissionID string) (*dto.EvaluationSummaryResponse, error) {
	sub, err := s.repo.Submission.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	if err := s.checkScope(actor, sub); err != nil {
		return nil, err
	}

	courses, err := s.repo.TransferCourse.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	evals, err := s.repo.Evaluation.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	resp := &dto.EvaluationSummaryResponse{
		SubmissionID: submissionID,
		Status:       string(sub.Status),
		TotalCourses: len(courses),
	}
	for i := range courses {
		resp.CreditsRequested += courses[i].Credits
	}

	decided := make(map[string]bool, len(evals))
	for i := range evals {
		e := &evals[i]
		decided[e.TransferCourseID] = true
		switch e.Decision {
		case model.DecisionApproved:
			resp.Approved++
			if e.AwardedCredits != nil {
				resp.CreditsAwarded += *e.AwardedCredits
			}
		case model.DecisionRejected:
			resp.Rejected++
		case model.DecisionNeedsInfo:
			resp.NeedsInfo++
		case model.DecisionPending:
			resp.Pending++
		}
	}
	// 尚无裁定记录的课程计入 pending
	for i := range courses {
		if !decided[courses[i].TransferCourseID] {
			resp.Pending++
		}
	}

	return resp, nil
}

// checkScope 评审权限：evaluator 限本校目标申请，system_admin 任意
func (s *evaluationService) checkScope(actor Actor, sub *model.Submission) error {
	if actor.IsSystemAdmin() {
		return nil
	}
	if !actor.SameUniversity(sub.TargetUniversityID) {
		return ErrEvaluatorScope
	}
	return nil
}

// toPendingSubmissionResponse 评审队列条目
func toPendingSubmissionResponse(sub *model.Submission) dto.PendingSubmissionResponse {
	var university *dto.UniversityBrief
	if sub.TargetUniversity != nil {
		university = &dto.UniversityBrief{
			ID:   sub.TargetUniversity.UniversityID,
			Name: sub.TargetUniversity.Name,
		}
	}

	resp := dto.PendingSubmissionResponse{
		ID:               sub.SubmissionID,
		TargetUniversity: university,
		Status:           string(sub.Status),
		CourseCount:      len(sub.TransferCourses),
		CreatedAt:        sub.CreatedAt.Format(time.RFC3339),
	}
	if sub.Student != nil {
		resp.StudentName = sub.Student.FullName()
		resp.StudentEmail = sub.Student.Email
	}
	for i := range sub.TransferCourses {
		if ev := sub.TransferCourses[i].Evaluation; ev != nil && ev.Decision.Terminal() {
			resp.EvaluatedCount++
		}
	}
	return resp
}

// toEvaluationResponse 裁定模型转响应
func toEvaluationResponse(e *model.Evaluation) dto.EvaluationResponse {
	resp := dto.EvaluationResponse{
		ID:               e.EvaluationID,
		TransferCourseID: e.TransferCourseID,
		EvaluatorID:      e.EvaluatorID,
		Decision:         string(e.Decision),
		AwardedCredits:   e.AwardedCredits,
		Comments:         e.Comments,
		UpdatedAt:        e.UpdatedAt.Format(time.RFC3339),
	}
	if e.ApprovedCourse != nil {
		tc := toTargetCourseResponse(e.ApprovedCourse)
		resp.ApprovedCourse = &tc
	}
	return resp
}

// [自证通过] internal/service/evaluation_service.go
