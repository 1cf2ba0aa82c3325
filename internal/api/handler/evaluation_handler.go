package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"credit-path/internal/dto"
	"credit-path/internal/service"
	"credit-path/pkg/response"
)

// EvaluationHandler 评审模块 HTTP 处理器（评审员 / 平台管理员）
type EvaluationHandler struct {
	evaluationSvc service.EvaluationService
}

// NewEvaluationHandler 创建 EvaluationHandler
func NewEvaluationHandler(evaluationSvc service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationSvc: evaluationSvc}
}

// ListPending 待评审申请队列（评审员限本校，system_admin 可跨校）
// GET /api/v1/evaluations/pending
func (h *EvaluationHandler) ListPending(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.ListPendingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	submissions, total, err := h.evaluationSvc.ListPending(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}

	response.OKPage(c, submissions, total, req.GetPage(), req.GetPageSize())
}

// Detail 待评审申请全量详情（含匹配结果与已有裁定）
// GET /api/v1/evaluations/:id
func (h *EvaluationHandler) Detail(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	submission, err := h.evaluationSvc.Detail(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}

	response.OK(c, submission)
}

// RecordDecision 记录单课裁定，全部课程出终态结论后申请自动完成
// PUT /api/v1/evaluations/:id/courses/:courseId
func (h *EvaluationHandler) RecordDecision(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.RecordDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	evaluation, err := h.evaluationSvc.RecordDecision(
		c.Request.Context(), actor, c.Param("id"), c.Param("courseId"), &req)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}

	response.OK(c, evaluation)
}

// RejectSubmission 整单驳回
// POST /api/v1/evaluations/:id/reject
func (h *EvaluationHandler) RejectSubmission(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.RejectSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.evaluationSvc.RejectSubmission(c.Request.Context(), actor, c.Param("id"), &req); err != nil {
		h.handleEvaluationError(c, err)
		return
	}

	response.OK(c, nil)
}

// Summary 申请评审汇总（课程数、各结论计数、学分合计）
// GET /api/v1/evaluations/:id/summary
func (h *EvaluationHandler) Summary(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	summary, err := h.evaluationSvc.Summary(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}

	response.OK(c, summary)
}

func (h *EvaluationHandler) handleEvaluationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		response.NotFound(c, 17001, "申请不存在")
	case errors.Is(err, service.ErrEvaluatorScope):
		response.Forbidden(c, 17002, "无权评审其他学校的申请")
	case errors.Is(err, service.ErrEvaluationNotAllowed):
		response.BadRequest(c, 17003, "申请当前状态不允许评审")
	case errors.Is(err, service.ErrInvalidDecision):
		response.BadRequest(c, 17004, "评审结论不合法")
	case errors.Is(err, service.ErrApprovedCourseRequired):
		response.BadRequest(c, 17005, "approved 结论必须指定目标课程")
	case errors.Is(err, service.ErrApprovedCourseNotAllowed):
		response.BadRequest(c, 17006, "非 approved 结论不能携带目标课程")
	case errors.Is(err, service.ErrTargetCourseMismatch):
		response.BadRequest(c, 17007, "目标课程不属于申请的目标学校或已停用")
	case errors.Is(err, service.ErrTransferCourseNotFound):
		response.NotFound(c, 17008, "转学课程不存在")
	case errors.Is(err, service.ErrInvalidTransition):
		response.BadRequest(c, 17009, "申请状态不允许该操作")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/evaluation_handler.go
